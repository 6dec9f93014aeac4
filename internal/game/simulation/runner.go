package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

// Runner drives a Simulation at a fixed tick rate for a headless server
// and serialises access to it.
type Runner struct {
	mu  sync.Mutex
	sim *Simulation
}

func NewRunner(sim *Simulation) *Runner {
	return &Runner{sim: sim}
}

// Run ticks the simulation until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	rate := r.sim.Settings.TickRate
	dt := 1 / rate
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	log.Infof("simulation running at %.0f ticks per second", rate)
	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.sim.Teardown()
			r.mu.Unlock()
			log.Info("simulation stopped")
			return nil
		case <-ticker.C:
			r.Step(dt)
		}
	}
}

// Step runs a single tick.
func (r *Runner) Step(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sim.Update(dt)
}

func (r *Runner) Snapshot() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim.Snapshot()
}

// Post queues fn for the next tick.
func (r *Runner) Post(fn func(*Simulation)) {
	r.sim.Post(fn)
}
