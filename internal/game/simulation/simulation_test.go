package simulation

import (
	"errors"
	"strings"
	"testing"

	"atc-tower/internal/config"
	"atc-tower/internal/game/aircraft"
	"atc-tower/internal/game/command"
	"atc-tower/internal/game/dispatch"
	"atc-tower/internal/game/session"
	"atc-tower/internal/game/spawner"
	"atc-tower/pkg/rand"
	"atc-tower/pkg/types"
)

const dt = 1.0 / 60

// newQuietSimulation returns a KLIT simulation that does not spawn
// traffic of its own.
func newQuietSimulation(t *testing.T, settings config.Settings) *Simulation {
	t.Helper()
	s, err := NewSimulation(settings)
	if err != nil {
		t.Fatal(err)
	}
	s.spawner = nil
	return s
}

func addAircraft(t *testing.T, s *Simulation, cs string, pos types.Vec2, heading float64, state aircraft.AircraftState) *aircraft.Aircraft {
	t.Helper()
	ac := aircraft.NewAircraft(types.Callsign(cs), aircraft.Prop, pos, heading, state, s)
	if err := s.Roster.Register(ac); err != nil {
		t.Fatal(err)
	}
	return ac
}

func mustCommand(t *testing.T, typ, sub, location string) command.Command {
	t.Helper()
	c := command.Command{Type: command.ParseType(typ), Sub: command.ParseSubCommand(sub), Location: location}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewSimulationRejectsUnknownAirport(t *testing.T) {
	settings := config.Default()
	settings.Airport = "EGLL"
	if _, err := NewSimulation(settings); err == nil {
		t.Error("expected an error for an unknown airport")
	}
}

func TestLandingEndToEnd(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	rwy := s.Airspace.Position("18")
	rollout := s.Airspace.Position("18_TAKEOFF")
	ac := addAircraft(t, s, "N123AB", rwy.Add(types.NewVec2(0, -60)), 180, aircraft.InAir)

	s.Post(func(s *Simulation) {
		if err := s.SelectCallsign("N123AB"); err != nil {
			t.Error(err)
		}
		if err := s.Dispatcher.ExecuteText("Land", "runway", "18"); err != nil {
			t.Error(err)
		}
	})
	s.Update(dt)

	if ac.State != aircraft.Landing || ac.Intent.Target != rwy {
		t.Fatalf("state %s target %+v", ac.State, ac.Intent.Target)
	}
	if s.Display.CommandPanelVisible || s.Display.Pending() != 3 {
		t.Errorf("command panel %v, %d messages queued", s.Display.CommandPanelVisible, s.Display.Pending())
	}
	if len(s.RadioLog) != 2 || s.RadioLog[0].Message != "ATC: N123AB, Land runway 18" ||
		s.RadioLog[1].Message != "N123AB: Cleared to land runway 18" {
		t.Errorf("radio log %+v", s.RadioLog)
	}

	landed := false
	for i := 0; i < 120*60 && s.Roster.Has("N123AB"); i++ {
		s.Update(dt)
		if ac.State == aircraft.Landed && !landed {
			landed = true
			if ac.Intent.Target != rollout {
				t.Errorf("rollout target %+v, expected %+v", ac.Intent.Target, rollout)
			}
		}
	}
	if !landed {
		t.Fatal("never touched down")
	}
	if s.Roster.Has("N123AB") {
		t.Fatal("aircraft still in the roster after rollout")
	}
	if s.Session.Landings != 1 {
		t.Errorf("landings = %d", s.Session.Landings)
	}
	if s.Dispatcher.Selected() != nil {
		t.Error("removed aircraft still selected")
	}
	if ac.IsSelected {
		t.Error("removed aircraft still flagged as selected")
	}
}

func TestDepartureCounted(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	ac := addAircraft(t, s, "N456CD", s.Airspace.Position("36").Add(types.NewVec2(0, 40)), 0, aircraft.ReadyForTakeoff)

	if err := ac.ExecuteCommand(mustCommand(t, "Takeoff", "runway heading", "36")); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300*60 && s.Roster.Has("N456CD"); i++ {
		s.Update(dt)
	}
	if s.Roster.Has("N456CD") || ac.Exit != aircraft.ExitDeparted {
		t.Fatalf("exit %s, in roster %v", ac.Exit, s.Roster.Has("N456CD"))
	}
	if s.Session.Departures != 1 || s.Session.Missed != 0 {
		t.Errorf("departures %d missed %d", s.Session.Departures, s.Session.Missed)
	}
}

func TestParkedGateSpawnTaxisOut(t *testing.T) {
	settings := config.Default()
	settings.Emergencies = false
	s := newQuietSimulation(t, settings)
	sp := spawner.New(s.Airspace, s, s.Roster, rand.New(11), settings)

	var ac *aircraft.Aircraft
	for i := 0; i < 100 && ac == nil; i++ {
		spawned, err := sp.SpawnGround()
		if err != nil {
			t.Fatal(err)
		}
		if spawned.State == aircraft.Parked {
			ac = spawned
			break
		}
		spawned.LeaveAirspace()
		s.Roster.Sweep()
	}
	if ac == nil {
		t.Fatal("no parked aircraft in 100 ground spawns")
	}

	if err := s.SelectCallsign(ac.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatcher.Execute(command.Taxi, command.ToRunway, "18"); err != nil {
		t.Fatalf("taxi from the gate: %v", err)
	}
	for i := 0; i < 300*60 && ac.State != aircraft.ReadyForTakeoff; i++ {
		s.Update(dt)
	}
	if ac.State != aircraft.ReadyForTakeoff || ac.Position != s.Airspace.Position("18") {
		t.Fatalf("state %s at %+v, expected holding short of 18", ac.State, ac.Position)
	}
	if err := s.Dispatcher.Execute(command.Takeoff, command.RunwayHeading, "18"); err != nil {
		t.Fatalf("takeoff after taxi: %v", err)
	}
	if ac.State != aircraft.Taxiing {
		t.Errorf("state %s after takeoff clearance", ac.State)
	}
}

func TestLeavingAirspaceIsMissed(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	ac := addAircraft(t, s, "N789EF", types.NewVec2(392, -300), 0, aircraft.InAir)
	s.Dispatcher.Select(ac)

	s.Update(dt)
	if s.Roster.Has("N789EF") || ac.Exit != aircraft.ExitLeftAirspace {
		t.Fatalf("exit %s", ac.Exit)
	}
	if s.Session.Missed != 1 {
		t.Errorf("missed = %d", s.Session.Missed)
	}
	if s.Dispatcher.Selected() != nil {
		t.Error("selection survived the sweep")
	}
}

func TestCollisionEndsGame(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	a := addAircraft(t, s, "N100AA", types.NewVec2(500, 300), 90, aircraft.InAir)
	addAircraft(t, s, "N200BB", types.NewVec2(505, 300), 270, aircraft.InAir)
	a.SetDestination(types.NewVec2(900, 300))

	s.Update(dt)
	if s.Session.EndReason != session.Collision {
		t.Fatalf("end reason %s", s.Session.EndReason)
	}

	pos, elapsed := a.Position, s.Session.Elapsed
	for i := 0; i < 60; i++ {
		s.Update(dt)
	}
	if a.Position != pos || s.Session.Elapsed != elapsed {
		t.Error("game state changed after game over")
	}
}

func TestNoInstructionsAfterGameOver(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	addAircraft(t, s, "N100AA", types.NewVec2(500, 300), 90, aircraft.InAir)
	addAircraft(t, s, "N200BB", types.NewVec2(505, 300), 270, aircraft.InAir)
	c := addAircraft(t, s, "N300CC", s.Airspace.Position("18").Add(types.NewVec2(0, -100)), 180, aircraft.InAir)

	s.Update(dt)
	if !s.Session.IsOver() {
		t.Fatal("collision did not end the game")
	}

	var err error
	s.Post(func(s *Simulation) {
		if serr := s.SelectCallsign("N300CC"); serr != nil {
			t.Error(serr)
		}
		err = s.Dispatcher.Execute(command.Land, command.Runway, "18")
	})
	s.Update(dt)
	if !errors.Is(err, dispatch.ErrGameOver) {
		t.Fatalf("error = %v, expected ErrGameOver", err)
	}
	if c.State != aircraft.InAir || c.Intent.Moving {
		t.Errorf("state %s, moving %v after game over", c.State, c.Intent.Moving)
	}
	for _, m := range s.RadioLog {
		if m.Callsign == "N300CC" {
			t.Errorf("radio traffic after game over: %+v", m)
		}
	}
}

func TestPause(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	ac := addAircraft(t, s, "N300CC", types.NewVec2(500, 300), 90, aircraft.InAir)
	ac.Speed = 10
	ac.SetDestination(types.NewVec2(900, 300))

	s.Pause()
	s.Post(func(s *Simulation) { _ = s.SelectCallsign("N300CC") })
	for i := 0; i < 60; i++ {
		s.Update(dt)
	}
	if ac.Position != types.NewVec2(500, 300) || s.Session.Elapsed != 0 {
		t.Errorf("paused game advanced: pos %+v elapsed %f", ac.Position, s.Session.Elapsed)
	}
	if !ac.IsSelected {
		t.Error("requests should be applied while paused")
	}

	s.TogglePause()
	s.Update(dt)
	if s.IsPaused() || ac.Position.X <= 500 {
		t.Errorf("not resumed: paused %v pos %+v", s.IsPaused(), ac.Position)
	}
}

func TestTimerCompletes(t *testing.T) {
	settings := config.Default()
	settings.DurationMinutes = 0.05
	s := newQuietSimulation(t, settings)
	for i := 0; i < 4*60; i++ {
		s.Update(dt)
	}
	if !s.Session.Victory() {
		t.Errorf("end reason %s after 4s of a 3s session", s.Session.EndReason)
	}
}

func TestEmergencyTimeout(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	ac := addAircraft(t, s, "N911AB", types.NewVec2(512, 384), 0, aircraft.Holding)
	ac.DeclareEmergency()
	if len(s.RadioLog) != 1 || !s.RadioLog[0].IsUrgent {
		t.Fatalf("radio log %+v", s.RadioLog)
	}
	for i := 0; i < 101 && !s.Session.IsOver(); i++ {
		s.Update(1)
	}
	if s.Session.EndReason != session.EmergencyFailed {
		t.Errorf("end reason %s", s.Session.EndReason)
	}
}

func TestSelectUnknownAircraft(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	if err := s.SelectCallsign("N000XX"); !errors.Is(err, ErrUnknownAircraft) {
		t.Errorf("error = %v", err)
	}
}

func TestSpawnerFillsRoster(t *testing.T) {
	settings := config.Default()
	settings.Traffic = config.TrafficHigh
	settings.Seed = 3
	s, err := NewSimulation(settings)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 31*10; i++ {
		s.Update(0.1)
	}
	if s.Roster.Len() == 0 && s.Session.Missed == 0 {
		t.Error("no traffic after 31s of high traffic")
	}
	if len(s.RadioLog) == 0 {
		t.Error("spawns were not announced")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	addAircraft(t, s, "N555EE", types.NewVec2(300, 300), 90, aircraft.InAir)
	s.AddRadioMessage("N555EE", "hello", false)

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Airport != "KLIT" || len(snap.Aircraft) != 1 || snap.Aircraft[0].State != "IN_AIR" {
		t.Fatalf("snapshot %+v", snap)
	}
	if !strings.HasPrefix(snap.Panel.Text, "Welcome to Little Rock") {
		t.Errorf("panel %+v", snap.Panel)
	}

	snap.Runways[0] = "XX"
	snap.Radio[0].Message = "changed"
	if s.Airspace.Airport.Runways[0] == "XX" || s.RadioLog[0].Message == "changed" {
		t.Error("snapshot shares memory with the simulation")
	}
}

func TestRestart(t *testing.T) {
	s := newQuietSimulation(t, config.Default())
	addAircraft(t, s, "N1", types.NewVec2(500, 300), 0, aircraft.InAir)
	addAircraft(t, s, "N2", types.NewVec2(500, 300), 0, aircraft.InAir)
	s.Update(dt)
	if !s.Session.IsOver() {
		t.Fatal("expected a collision")
	}

	s.Restart()
	if s.Session.IsOver() || s.Roster.Len() != 0 || s.Session.Elapsed != 0 {
		t.Errorf("restart left state behind: over %v roster %d", s.Session.IsOver(), s.Roster.Len())
	}

	addAircraft(t, s, "N3", types.NewVec2(500, 300), 0, aircraft.InAir)
	if err := s.SelectCallsign("N3"); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatcher.Execute(command.Hold, command.Position, ""); err != nil {
		t.Errorf("instruction after restart: %v", err)
	}
}
