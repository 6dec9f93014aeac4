package simulation

import (
	"errors"
	"fmt"
	"sync"

	"atc-tower/internal/config"
	"atc-tower/internal/game/aircraft"
	"atc-tower/internal/game/airspace"
	"atc-tower/internal/game/comms"
	"atc-tower/internal/game/conflict"
	"atc-tower/internal/game/dispatch"
	"atc-tower/internal/game/session"
	"atc-tower/internal/game/spawner"
	"atc-tower/pkg/rand"
	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

// CleanupMargin is how far past the airspace radius an aircraft may fly
// before it is taken out of the simulation.
const CleanupMargin = 60.0

var ErrUnknownAircraft = errors.New("no such aircraft")

// Simulation is one game run at one airport. All of its state is mutated
// from Update; other goroutines hand work over with Post.
type Simulation struct {
	Settings   config.Settings
	Airspace   *airspace.Airspace
	Session    *session.Session
	Display    *comms.Display
	Dispatcher *dispatch.Dispatcher
	Roster     *Roster
	RadioLog   []RadioMessage

	// TimeScale multiplies every tick; zero pauses the game.
	TimeScale float64

	resumeScale     float64
	maxRadioLogSize int
	rng             *rand.Rand
	spawner         *spawner.Spawner

	inboxMu sync.Mutex
	inbox   []func(*Simulation)
}

func NewSimulation(settings config.Settings) (*Simulation, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	ap, err := airspace.LookupAirport(settings.Airport)
	if err != nil {
		return nil, err
	}
	as, err := airspace.NewAirspace(ap)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		Settings:        settings,
		Airspace:        as,
		Session:         session.New(settings),
		Display:         comms.NewDisplay(),
		TimeScale:       1,
		resumeScale:     1,
		maxRadioLogSize: 50,
		rng:             rand.New(settings.Seed),
	}
	s.Dispatcher = dispatch.New(s.Display, s, s.Session, ap.Runways, ap.GateNames())
	s.start()
	return s, nil
}

// start populates a fresh run: empty roster, new spawn timer and the
// welcome message.
func (s *Simulation) start() {
	s.Roster = NewRoster()
	s.RadioLog = nil
	s.spawner = spawner.New(s.Airspace, s, s.Roster, s.rng, s.Settings)

	ap := s.Airspace.Airport
	s.Display.Welcome(fmt.Sprintf("Welcome to %s (%s), %s traffic", ap.Name, ap.ID, s.Settings.Traffic))
	log.Infof("session started at %s: traffic %s, duration %s, emergencies %v", ap.ID, s.Settings.Traffic,
		durationString(s.Settings), s.Settings.Emergencies)
}

func durationString(settings config.Settings) string {
	if settings.DurationSeconds() <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%.0f min", settings.DurationMinutes)
}

// Post queues fn to run at the start of the next Update. It is safe to
// call from any goroutine.
func (s *Simulation) Post(fn func(*Simulation)) {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()
	s.inbox = append(s.inbox, fn)
}

func (s *Simulation) drainInbox() {
	s.inboxMu.Lock()
	pending := s.inbox
	s.inbox = nil
	s.inboxMu.Unlock()

	for _, fn := range pending {
		fn(s)
	}
}

// Update advances the game by dt seconds of wall time, scaled by
// TimeScale. Queued requests are applied even while paused.
func (s *Simulation) Update(dt float64) {
	s.drainInbox()

	dt *= s.TimeScale
	if dt <= 0 || s.Session.IsOver() {
		return
	}

	s.Session.Tick(dt)
	s.Display.Update(dt)
	if s.Session.IsOver() {
		return
	}

	for _, ac := range s.Roster.Active() {
		ac.Update(dt)
	}

	s.CheckForCollisions()
	s.CleanupAircraft()

	if s.spawner != nil && !s.Session.IsOver() {
		s.spawner.Update(dt)
	}
	s.sweep()
}

// CheckForCollisions flags conflicting aircraft and ends the game when
// two of them touch.
func (s *Simulation) CheckForCollisions() {
	for _, p := range conflict.Check(s.Roster.Active()) {
		log.Warnf("COLLISION: %s and %s", p.A.ID, p.B.ID)
		s.ReportGameOver(session.Collision)
	}
}

// CleanupAircraft removes arrivals that flew out of the airspace without
// being handled. Departures leave on their own.
func (s *Simulation) CleanupAircraft() {
	for _, ac := range s.Roster.Active() {
		if ac.InDeparture() {
			continue
		}
		if !s.Airspace.Contains(ac.Position, CleanupMargin) {
			ac.LeaveAirspace()
		}
	}
}

func (s *Simulation) sweep() {
	for _, ac := range s.Roster.Sweep() {
		if sel := s.Dispatcher.Selected(); sel != nil && sel.Callsign() == ac.ID {
			s.Dispatcher.Select(nil)
		}
	}
}

func (s *Simulation) ResolveWaypoint(name string) (types.Vec2, bool) {
	return s.Airspace.Resolve(name)
}

// Unregister records how an aircraft left. It stays in the roster until
// the end of the tick.
func (s *Simulation) Unregister(cs types.Callsign) {
	ac, ok := s.Roster.Get(cs)
	if !ok {
		return
	}
	switch ac.Exit {
	case aircraft.ExitLanded:
		s.Session.Landings++
		s.AddRadioMessage(cs, fmt.Sprintf("%s: clear of the runway", cs), false)
	case aircraft.ExitDeparted:
		s.Session.Departures++
		s.AddRadioMessage(cs, fmt.Sprintf("%s: leaving your airspace, good day", cs), false)
	case aircraft.ExitLeftAirspace:
		s.Session.Missed++
		log.Warnf("MISSED: %s left the airspace without landing", cs)
	}
}

func (s *Simulation) ReportGameOver(reason session.EndReason) {
	s.Session.ReportGameOver(reason)
}

// SelectCallsign selects the named aircraft for the command panel.
func (s *Simulation) SelectCallsign(cs types.Callsign) error {
	ac, ok := s.Roster.Get(cs)
	if !ok || !ac.IsActive() {
		err := fmt.Errorf("%s: %w", cs, ErrUnknownAircraft)
		s.Display.Notify(err.Error())
		return err
	}
	s.Dispatcher.Select(ac)
	return nil
}

func (s *Simulation) Deselect() {
	s.Dispatcher.Select(nil)
}

func (s *Simulation) IsPaused() bool {
	return s.TimeScale == 0
}

func (s *Simulation) Pause() {
	if s.IsPaused() {
		return
	}
	s.resumeScale = s.TimeScale
	s.TimeScale = 0
	log.Infof("paused at %s", s.Session.FormatElapsed())
}

func (s *Simulation) Resume() {
	if !s.IsPaused() {
		return
	}
	s.TimeScale = s.resumeScale
	log.Infof("resumed at %s", s.Session.FormatElapsed())
}

func (s *Simulation) TogglePause() {
	if s.IsPaused() {
		s.Resume()
	} else {
		s.Pause()
	}
}

// Teardown stops everything that would outlive the run: queued messages
// and the selection.
func (s *Simulation) Teardown() {
	s.Display.Cancel()
	s.Dispatcher.Select(nil)

	s.inboxMu.Lock()
	s.inbox = nil
	s.inboxMu.Unlock()
}

// Restart tears the run down and starts over with the same settings.
func (s *Simulation) Restart() {
	s.Teardown()
	s.Session.Reset()
	s.TimeScale, s.resumeScale = 1, 1
	s.start()
}
