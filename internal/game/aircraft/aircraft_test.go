package aircraft

import (
	"errors"
	"math"
	"strings"
	"testing"

	"atc-tower/internal/game/command"
	"atc-tower/internal/game/session"
	"atc-tower/pkg/types"
)

const dt = 1.0 / 60

type radioCall struct {
	callsign types.Callsign
	message  string
	urgent   bool
}

type fakeEnv struct {
	waypoints map[string]types.Vec2
	radio     []radioCall
	removed   []types.Callsign
	gameOver  []session.EndReason
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{waypoints: map[string]types.Vec2{
		"18":         types.NewVec2(300, 300),
		"18_TAKEOFF": types.NewVec2(300, 560),
		"A":          types.NewVec2(200, 300),
	}}
}

func (e *fakeEnv) ResolveWaypoint(name string) (types.Vec2, bool) {
	p, ok := e.waypoints[name]
	return p, ok
}

func (e *fakeEnv) AddRadioMessage(cs types.Callsign, msg string, urgent bool) {
	e.radio = append(e.radio, radioCall{cs, msg, urgent})
}

func (e *fakeEnv) Unregister(cs types.Callsign) {
	e.removed = append(e.removed, cs)
}

func (e *fakeEnv) ReportGameOver(reason session.EndReason) {
	e.gameOver = append(e.gameOver, reason)
}

// runUntil ticks ac until cond holds, failing the test after maxTicks.
func runUntil(t *testing.T, ac *Aircraft, maxTicks int, cond func() bool) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if cond() {
			return
		}
		ac.Update(dt)
	}
	if !cond() {
		t.Fatalf("%s: condition not reached after %d ticks (state %s, pos %+v, target %+v)",
			ac.ID, maxTicks, ac.State, ac.Position, ac.Intent.Target)
	}
}

func TestReadyForTakeoffOnlyAcceptsTakeoff(t *testing.T) {
	cmds := []command.Command{
		{Type: command.Land, Sub: command.Runway, Location: "18"},
		{Type: command.Turn, Sub: command.Left, Location: "090"},
		{Type: command.Hold, Sub: command.Position},
		{Type: command.Continue, Sub: command.Resume},
		{Type: command.Taxi, Sub: command.ToRunway, Location: "18"},
	}
	for _, cmd := range cmds {
		t.Run(cmd.String(), func(t *testing.T) {
			env := newFakeEnv()
			ac := NewAircraft("N100AB", Prop, types.NewVec2(300, 200), 180, ReadyForTakeoff, env)
			if err := ac.ExecuteCommand(cmd); !errors.Is(err, ErrCannotComply) {
				t.Errorf("ExecuteCommand(%s) error = %v, expected ErrCannotComply", cmd, err)
			}
			if ac.State != ReadyForTakeoff || ac.Intent.Moving {
				t.Errorf("state changed to %s (moving %v)", ac.State, ac.Intent.Moving)
			}
		})
	}
}

func TestTakeoffSequence(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N200CD", Prop, types.NewVec2(300, 200), 180, ReadyForTakeoff, env)
	if err := ac.ExecuteCommand(command.Command{Type: command.Takeoff, Sub: command.Turn090, Location: "18"}); err != nil {
		t.Fatalf("takeoff rejected: %v", err)
	}
	if ac.State != Taxiing || ac.Intent.Target != env.waypoints["18"] {
		t.Fatalf("after takeoff clearance: state %s target %+v", ac.State, ac.Intent.Target)
	}

	states := []AircraftState{ac.State}
	var departureStart types.Vec2
	for i := 0; i < 20000 && ac.IsActive(); i++ {
		prev := ac.State
		ac.Update(dt)
		if ac.State != prev {
			states = append(states, ac.State)
			if ac.State == InAir {
				departureStart = ac.Position
				if ac.Position != env.waypoints["18_TAKEOFF"] {
					t.Errorf("left the ground at %+v, expected the takeoff point", ac.Position)
				}
				want := departureStart.Add(types.NewVec2(ac.Perf.DepartureDistance, 0))
				if ac.Intent.Target.DistanceTo(want) > 1e-6 {
					t.Errorf("departure target %+v, expected %+v along heading 090", ac.Intent.Target, want)
				}
				if !ac.InDeparture() {
					t.Error("expected departure mode after takeoff")
				}
			}
		}
		if ac.State == Taxiing && ac.Speed > ac.Perf.MaxTaxiSpeed+1e-9 {
			t.Fatalf("taxi speed %f exceeds the taxi limit", ac.Speed)
		}
	}

	want := []AircraftState{Taxiing, TakingOff, InAir}
	if len(states) != len(want) {
		t.Fatalf("state sequence %v, expected %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("state sequence %v, expected %v", states, want)
		}
	}

	if ac.Exit != ExitDeparted {
		t.Fatalf("aircraft not removed after departure: exit %s", ac.Exit)
	}
	if len(env.removed) != 1 || env.removed[0] != "N200CD" {
		t.Errorf("unregistered %v", env.removed)
	}
	if ac.Intent.FlyingCap != ac.Perf.ClimbSpeed {
		t.Errorf("flying cap %f, expected climb speed %f", ac.Intent.FlyingCap, ac.Perf.ClimbSpeed)
	}
	if d := ac.Position.DistanceTo(departureStart); d < ac.Perf.DepartureExitDistance-1e-6 {
		t.Errorf("removed after %f units, expected at least %f", d, ac.Perf.DepartureExitDistance)
	}
}

func TestDepartureMeasuredFromLiftoff(t *testing.T) {
	env := newFakeEnv()
	origin := env.waypoints["18_TAKEOFF"]
	ac := NewAircraft("N210CD", Jet, origin, 180, TakingOff, env)
	ac.arrive()
	if !ac.InDeparture() || ac.State != InAir {
		t.Fatalf("after liftoff: state %s, departing %v", ac.State, ac.InDeparture())
	}
	if err := ac.ExecuteCommand(command.Command{Type: command.Hold, Sub: command.Position}); err != nil {
		t.Fatalf("hold rejected: %v", err)
	}

	// Circling close to the field never counts as departed, however long
	// the track.
	ac.Position = origin.Add(types.NewVec2(0, 500))
	for i := 0; i < 1000; i++ {
		ac.Update(dt)
	}
	if !ac.IsActive() {
		t.Fatalf("removed %s while %f from liftoff", ac.Exit, ac.Position.DistanceTo(origin))
	}

	// Holding aircraft still leave once far enough out.
	ac.Position = origin.Add(types.NewVec2(-ac.Perf.DepartureExitDistance-1, 0))
	ac.Update(dt)
	if ac.Exit != ExitDeparted {
		t.Fatalf("exit %s, expected %s", ac.Exit, ExitDeparted)
	}
	if len(env.removed) != 1 || env.removed[0] != "N210CD" {
		t.Errorf("unregistered %v", env.removed)
	}
}

func TestLandingSequence(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N123AB", Prop, types.NewVec2(300, 100), 0, InAir, env)
	if err := ac.ExecuteCommand(command.Command{Type: command.Land, Sub: command.Runway, Location: "18"}); err != nil {
		t.Fatalf("land rejected: %v", err)
	}
	if ac.State != Landing || ac.Intent.Target != env.waypoints["18"] {
		t.Fatalf("state %s target %+v", ac.State, ac.Intent.Target)
	}
	if ac.Intent.FlyingCap != ac.Perf.LandingSpeed {
		t.Errorf("flying cap %f, expected landing speed", ac.Intent.FlyingCap)
	}

	runUntil(t, ac, 10000, func() bool { return ac.State == Landed })
	if ac.Intent.Target != env.waypoints["18_TAKEOFF"] {
		t.Errorf("rollout target %+v, expected 18_TAKEOFF", ac.Intent.Target)
	}

	runUntil(t, ac, 10000, func() bool { return !ac.IsActive() })
	if ac.Exit != ExitLanded || len(env.removed) != 1 || env.removed[0] != "N123AB" {
		t.Errorf("exit %s, removed %v", ac.Exit, env.removed)
	}

	// A removed aircraft ignores further updates and commands.
	pos := ac.Position
	ac.Update(dt)
	if ac.Position != pos {
		t.Error("removed aircraft moved")
	}
	if err := ac.ExecuteCommand(command.Command{Type: command.Hold, Sub: command.Position}); !errors.Is(err, ErrRemoved) {
		t.Errorf("command after removal: %v", err)
	}
}

func TestUnknownWaypointLeavesAircraftAlone(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N300EF", Prop, types.NewVec2(100, 100), 90, InAir, env)
	ac.SetDestination(types.NewVec2(900, 100))

	if err := ac.ExecuteCommand(command.Command{Type: command.Land, Sub: command.Runway, Location: "27"}); !errors.Is(err, ErrUnknownWaypoint) {
		t.Fatalf("error = %v, expected ErrUnknownWaypoint", err)
	}
	if ac.State != InAir || ac.Intent.Target != types.NewVec2(900, 100) || ac.Intent.FlyingCap != ac.Perf.MaxFlyingSpeed {
		t.Errorf("aircraft changed: state %s intent %+v", ac.State, ac.Intent)
	}

	if ac.SetDestination(types.Vec2{}) {
		t.Error("SetDestination(zero) should be a no-op")
	}
	if ac.Intent.Target != types.NewVec2(900, 100) {
		t.Errorf("zero destination replaced the target: %+v", ac.Intent.Target)
	}
}

func TestHoldIsIdempotent(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N400GH", Prop, types.NewVec2(100, 100), 90, InAir, env)
	ac.Speed = ac.Perf.MaxFlyingSpeed
	ac.SetDestination(types.NewVec2(900, 100))

	hold := command.Command{Type: command.Hold, Sub: command.Position}
	for i := 0; i < 2; i++ {
		if err := ac.ExecuteCommand(hold); err != nil {
			t.Fatalf("hold %d: %v", i, err)
		}
		if ac.State != Holding {
			t.Fatalf("state %s after hold %d", ac.State, i)
		}
	}

	last := ac.Speed
	for i := 0; i < 1200; i++ {
		ac.Update(dt)
		if ac.Speed > last {
			t.Fatalf("speed increased while holding: %f -> %f", last, ac.Speed)
		}
		last = ac.Speed
	}
	if ac.Speed != 0 {
		t.Errorf("speed %f after holding for 20s", ac.Speed)
	}

	if err := ac.ExecuteCommand(command.Command{Type: command.Continue, Sub: command.Resume}); err != nil {
		t.Fatal(err)
	}
	if ac.State != InAir {
		t.Errorf("continue resumed to %s, expected IN_AIR", ac.State)
	}
	ac.Update(dt)
	if ac.Speed <= 0 {
		t.Error("aircraft did not accelerate after continue")
	}
}

func TestTurnHonoursRequestedSide(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
		side    command.SubCommand
		target  string
		sign    float64
	}{
		{"left the long way", 10, command.Left, "090", -1},
		{"right the long way", 90, command.Right, "045", 1},
		{"right the short way", 10, command.Right, "090", 1},
		{"left across north", 10, command.Left, "315", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeEnv()
			ac := NewAircraft("N500JK", Jet, types.NewVec2(500, 500), tt.heading, InAir, env)
			ac.Speed = 10
			if err := ac.ExecuteCommand(command.Command{Type: command.Turn, Sub: tt.side, Location: tt.target}); err != nil {
				t.Fatal(err)
			}
			if (ac.Intent.TargetHeading-tt.heading)*tt.sign <= 0 {
				t.Fatalf("resolved heading %f does not turn %s from %f", ac.Intent.TargetHeading, tt.side, tt.heading)
			}

			total := 0.0
			for i := 0; i < 1200 && ac.Intent.TurnRemaining != 0; i++ {
				before := ac.Heading
				ac.Update(dt)
				d := types.HeadingSignedTurn(before, ac.Heading)
				if d*tt.sign < 0 {
					t.Fatalf("tick %d rotated %f, against the requested side", i, d)
				}
				total += d
			}
			if ac.Intent.TurnRemaining != 0 {
				t.Fatalf("turn not finished: %f remaining", ac.Intent.TurnRemaining)
			}
			want, _ := strconvHeading(tt.target)
			if types.HeadingDifference(ac.Heading, want) > 1e-6 {
				t.Errorf("final heading %f, expected %f", ac.Heading, want)
			}
			if math.Abs(total-(ac.Intent.TargetHeading-tt.heading)) > 1e-6 {
				t.Errorf("rotated %f in total, expected %f", total, ac.Intent.TargetHeading-tt.heading)
			}
		})
	}
}

func strconvHeading(s string) (float64, error) {
	return command.Command{Location: s}.Heading()
}

func TestTurningSlowsAircraft(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N600LN", Prop, types.NewVec2(500, 500), 0, InAir, env)
	ac.Speed = ac.Perf.MaxFlyingSpeed
	if err := ac.ExecuteCommand(command.Command{Type: command.Turn, Sub: command.Right, Location: "180"}); err != nil {
		t.Fatal(err)
	}
	ac.Update(dt)
	if ac.Speed >= ac.Perf.MaxFlyingSpeed {
		t.Errorf("speed %f: expected to slow down in a 180 degree turn", ac.Speed)
	}
}

func TestTaxiToGateParks(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N700PR", Prop, types.NewVec2(260, 300), 270, Parked, env)
	if err := ac.ExecuteCommand(command.Command{Type: command.Taxi, Sub: command.ToGate, Location: "A"}); err != nil {
		t.Fatal(err)
	}
	runUntil(t, ac, 5000, func() bool { return ac.State == Parked })

	if err := ac.ExecuteCommand(command.Command{Type: command.Taxi, Sub: command.ToRunway, Location: "18"}); err != nil {
		t.Fatal(err)
	}
	runUntil(t, ac, 5000, func() bool { return ac.State == ReadyForTakeoff })
	if ac.Position != env.waypoints["18"] {
		t.Errorf("holding short at %+v, expected runway 18", ac.Position)
	}
}

func TestEmergency(t *testing.T) {
	env := newFakeEnv()
	ac := NewAircraft("N800ST", Prop, types.NewVec2(500, 500), 0, InAir, env)
	ac.DeclareEmergency()
	if !ac.HasEmergency || len(env.radio) != 1 || !env.radio[0].urgent || !strings.Contains(env.radio[0].message, "MAYDAY") {
		t.Fatalf("emergency not declared: %+v", env.radio)
	}

	ac.Update(50)
	ac.DeclareEmergency()
	if len(env.radio) != 1 || ac.EmergencyTimeRemaining != 50 {
		t.Errorf("second declaration reset the emergency: %f remaining", ac.EmergencyTimeRemaining)
	}

	ac.Update(49)
	if len(env.gameOver) != 0 {
		t.Fatal("game over before the emergency time limit")
	}
	ac.Update(1)
	if len(env.gameOver) != 1 || env.gameOver[0] != session.EmergencyFailed {
		t.Errorf("game over reports %v", env.gameOver)
	}
}
