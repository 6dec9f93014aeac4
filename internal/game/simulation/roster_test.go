package simulation

import (
	"testing"

	"atc-tower/internal/game/aircraft"
	"atc-tower/internal/game/session"
	"atc-tower/pkg/types"
)

type nopEnv struct{}

func (nopEnv) ResolveWaypoint(string) (types.Vec2, bool)    { return types.Vec2{}, false }
func (nopEnv) AddRadioMessage(types.Callsign, string, bool) {}
func (nopEnv) Unregister(types.Callsign)                    {}
func (nopEnv) ReportGameOver(session.EndReason)             {}

func TestRoster(t *testing.T) {
	r := NewRoster()
	var fleet []*aircraft.Aircraft
	for _, cs := range []types.Callsign{"N3", "N1", "N2"} {
		ac := aircraft.NewAircraft(cs, aircraft.Jet, types.NewVec2(1, 1), 0, aircraft.InAir, nopEnv{})
		if err := r.Register(ac); err != nil {
			t.Fatal(err)
		}
		fleet = append(fleet, ac)
	}
	if err := r.Register(fleet[0]); err == nil {
		t.Error("duplicate registration accepted")
	}

	fleet[1].LeaveAirspace()
	if r.Len() != 3 || len(r.Active()) != 2 {
		t.Fatalf("len %d active %d before sweep", r.Len(), len(r.Active()))
	}

	removed := r.Sweep()
	if len(removed) != 1 || removed[0].ID != "N1" {
		t.Errorf("swept %v", removed)
	}
	all := r.All()
	if len(all) != 2 || all[0].ID != "N3" || all[1].ID != "N2" {
		t.Errorf("roster order %v", all)
	}
	if _, ok := r.Get("N1"); ok {
		t.Error("swept aircraft still retrievable")
	}
}
