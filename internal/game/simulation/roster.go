package simulation

import (
	"fmt"

	"atc-tower/internal/game/aircraft"
	"atc-tower/pkg/types"

	"github.com/iancoleman/orderedmap"
)

// Roster holds the aircraft in the simulation in spawn order. Aircraft
// that remove themselves stay in the roster, inactive, until the next
// Sweep, so the roster can be iterated while aircraft update.
type Roster struct {
	aircraft *orderedmap.OrderedMap
}

func NewRoster() *Roster {
	return &Roster{aircraft: orderedmap.New()}
}

func (r *Roster) Register(ac *aircraft.Aircraft) error {
	if _, ok := r.aircraft.Get(string(ac.ID)); ok {
		return fmt.Errorf("%s: already in the roster", ac.ID)
	}
	r.aircraft.Set(string(ac.ID), ac)
	return nil
}

func (r *Roster) Get(cs types.Callsign) (*aircraft.Aircraft, bool) {
	v, ok := r.aircraft.Get(string(cs))
	if !ok {
		return nil, false
	}
	return v.(*aircraft.Aircraft), true
}

func (r *Roster) Has(cs types.Callsign) bool {
	_, ok := r.aircraft.Get(string(cs))
	return ok
}

func (r *Roster) Len() int {
	return len(r.aircraft.Keys())
}

// All returns every aircraft in spawn order, including those removed
// since the last Sweep.
func (r *Roster) All() []*aircraft.Aircraft {
	keys := r.aircraft.Keys()
	all := make([]*aircraft.Aircraft, 0, len(keys))
	for _, k := range keys {
		v, _ := r.aircraft.Get(k)
		all = append(all, v.(*aircraft.Aircraft))
	}
	return all
}

// Active returns the aircraft still in play, in spawn order.
func (r *Roster) Active() []*aircraft.Aircraft {
	var active []*aircraft.Aircraft
	for _, ac := range r.All() {
		if ac.IsActive() {
			active = append(active, ac)
		}
	}
	return active
}

// Sweep drops removed aircraft from the roster and returns them.
func (r *Roster) Sweep() []*aircraft.Aircraft {
	var removed []*aircraft.Aircraft
	for _, ac := range r.All() {
		if !ac.IsActive() {
			r.aircraft.Delete(string(ac.ID))
			removed = append(removed, ac)
		}
	}
	return removed
}
