package simulation

import (
	"atc-tower/internal/game/comms"
	"atc-tower/pkg/types"

	"github.com/brunoga/deep"
)

type AircraftView struct {
	Callsign               types.Callsign `json:"callsign"`
	Kind                   string         `json:"kind"`
	State                  string         `json:"state"`
	Position               types.Vec2     `json:"position"`
	Heading                float64        `json:"heading"`
	Speed                  float64        `json:"speed"`
	Target                 types.Vec2     `json:"target"`
	Moving                 bool           `json:"moving"`
	Selected               bool           `json:"selected"`
	Conflicting            bool           `json:"conflicting"`
	Emergency              bool           `json:"emergency"`
	EmergencyTimeRemaining float64        `json:"emergency_time_remaining,omitempty"`
}

type WaypointView struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Position types.Vec2 `json:"position"`
}

// Snapshot is a copy of the game state that shares nothing with the
// running simulation.
type Snapshot struct {
	Airport   string         `json:"airport"`
	Runways   []string       `json:"runways"`
	Gates     []string       `json:"gates"`
	Waypoints []WaypointView `json:"waypoints"`

	Elapsed    string `json:"elapsed"`
	Paused     bool   `json:"paused"`
	GameOver   bool   `json:"game_over"`
	Victory    bool   `json:"victory"`
	EndReason  string `json:"end_reason,omitempty"`
	Landings   int    `json:"landings"`
	Departures int    `json:"departures"`
	Missed     int    `json:"missed"`

	Aircraft            []AircraftView `json:"aircraft"`
	Selected            types.Callsign `json:"selected,omitempty"`
	CommandPanelVisible bool           `json:"command_panel_visible"`
	Panel               comms.Panel    `json:"panel"`
	Radio               []RadioMessage `json:"radio"`
}

func (s *Simulation) Snapshot() (Snapshot, error) {
	ap := s.Airspace.Airport
	snap := Snapshot{
		Airport:             string(ap.ID),
		Runways:             ap.Runways,
		Gates:               ap.GateNames(),
		Elapsed:             s.Session.FormatElapsed(),
		Paused:              s.IsPaused(),
		GameOver:            s.Session.IsOver(),
		Victory:             s.Session.Victory(),
		Landings:            s.Session.Landings,
		Departures:          s.Session.Departures,
		Missed:              s.Session.Missed,
		CommandPanelVisible: s.Display.CommandPanelVisible,
		Panel:               s.Display.Panel,
		Radio:               s.RadioLog,
	}
	if s.Session.IsOver() {
		snap.EndReason = s.Session.EndReason.Describe()
	}
	if sel := s.Dispatcher.Selected(); sel != nil {
		snap.Selected = sel.Callsign()
	}
	for _, t := range []types.WaypointType{types.Runway, types.TakeoffPosition, types.Gate} {
		for _, wp := range s.Airspace.WaypointsOfType(t) {
			snap.Waypoints = append(snap.Waypoints, WaypointView{Name: wp.Name, Type: wp.Type.String(), Position: wp.Position})
		}
	}
	for _, ac := range s.Roster.Active() {
		snap.Aircraft = append(snap.Aircraft, AircraftView{
			Callsign:               ac.ID,
			Kind:                   ac.Kind.String(),
			State:                  ac.State.String(),
			Position:               ac.Position,
			Heading:                ac.Heading,
			Speed:                  ac.Speed,
			Target:                 ac.Intent.Target,
			Moving:                 ac.Intent.Moving,
			Selected:               ac.IsSelected,
			Conflicting:            ac.IsConflicting,
			Emergency:              ac.HasEmergency,
			EmergencyTimeRemaining: ac.EmergencyTimeRemaining,
		})
	}

	// Runways and the radio log alias simulation state.
	return deep.Copy(snap)
}
