package aircraft

import (
	"fmt"
	"math"

	"atc-tower/internal/game/airspace"
	"atc-tower/internal/game/session"
	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

// Environment is what an aircraft needs from the running game.
type Environment interface {
	ResolveWaypoint(name string) (types.Vec2, bool)
	AddRadioMessage(callsign types.Callsign, message string, isUrgent bool)
	Unregister(callsign types.Callsign)
	ReportGameOver(reason session.EndReason)
}

// Intent is where the aircraft is going and how fast it may get there.
type Intent struct {
	Target types.Vec2
	Moving bool

	// TargetHeading is the last commanded heading; it may lie outside
	// [0, 360) when a turn direction was forced.
	TargetHeading float64
	// TurnRemaining is the forced rotation still to be flown, positive to
	// the right.
	TurnRemaining float64
	FlyingCap     float64
}

type Aircraft struct {
	ID       types.Callsign
	Kind     Kind
	State    AircraftState
	Position types.Vec2
	Heading  float64
	Speed    float64
	Intent   Intent
	Perf     Performance

	IsSelected             bool
	IsConflicting          bool
	HasEmergency           bool
	EmergencyTimeRemaining float64
	Exit                   Exit

	env Environment

	runway           string
	takeoffPoint     *types.Vec2
	departureHeading *float64
	taxiToGate       bool
	resumeState      AircraftState
	departure        *departure
}

// departure tracks an aircraft climbing out; it counts as departed once
// it is far enough from where it lifted off, whatever path it flew.
type departure struct {
	origin types.Vec2
}

func NewAircraft(id types.Callsign, kind Kind, pos types.Vec2, heading float64, state AircraftState, env Environment) *Aircraft {
	perf := DefaultPerformance(kind)
	return &Aircraft{
		ID:       id,
		Kind:     kind,
		State:    state,
		Position: pos,
		Heading:  types.NormalizeHeading(heading),
		Intent: Intent{
			TargetHeading: heading,
			FlyingCap:     perf.MaxFlyingSpeed,
		},
		Perf: perf,
		env:  env,
	}
}

func (ac *Aircraft) Callsign() types.Callsign {
	return ac.ID
}

func (ac *Aircraft) IsActive() bool {
	return ac.Exit == Active
}

func (ac *Aircraft) InDeparture() bool {
	return ac.departure != nil
}

func (ac *Aircraft) SetSelected(selected bool) {
	ac.IsSelected = selected
}

// SetDestination points the aircraft at position. The zero vector means
// "no waypoint" and leaves the current destination alone.
func (ac *Aircraft) SetDestination(position types.Vec2) bool {
	if position.IsZero() {
		return false
	}
	ac.Intent.Target = position
	ac.Intent.Moving = true
	return true
}

func (ac *Aircraft) setDestination(position types.Vec2) {
	ac.Intent.TurnRemaining = 0
	ac.SetDestination(position)
}

func (ac *Aircraft) Update(dt float64) {
	if !ac.IsActive() || dt <= 0 {
		return
	}

	if ac.Intent.Moving && ac.State != Holding {
		ac.move(dt)
	} else {
		ac.coast(dt)
	}
	if ac.departure != nil && ac.Position.DistanceTo(ac.departure.origin) >= ac.Perf.DepartureExitDistance {
		ac.remove(ExitDeparted)
		return
	}

	if ac.HasEmergency && ac.IsActive() {
		ac.EmergencyTimeRemaining -= dt
		if ac.EmergencyTimeRemaining <= 0 {
			ac.EmergencyTimeRemaining = 0
			log.Warnf("%s: emergency not handled in time", ac.ID)
			ac.env.ReportGameOver(session.EmergencyFailed)
		}
	}
}

func (ac *Aircraft) speedCap() float64 {
	switch ac.State {
	case InAir, Landing:
		return ac.Intent.FlyingCap
	case TakingOff:
		return ac.Perf.ClimbSpeed
	default:
		return ac.Perf.MaxTaxiSpeed
	}
}

func (ac *Aircraft) move(dt float64) {
	toTarget := ac.Intent.Target.Sub(ac.Position)
	dist := toTarget.Length()
	if dist < ac.Perf.ArrivalEpsilon {
		ac.arrive()
		return
	}
	dir := toTarget.Scale(1 / dist)
	desired := types.VectorHeading(dir)

	delta := ac.Intent.TurnRemaining
	if delta == 0 {
		delta = types.HeadingSignedTurn(ac.Heading, desired)
	}
	turning := math.Abs(delta) > TurningThreshold

	step := ac.Perf.RotationSpeed * dt
	if ac.Intent.TurnRemaining != 0 {
		s := types.Clamp(ac.Intent.TurnRemaining, -step, step)
		ac.Heading = types.NormalizeHeading(ac.Heading + s)
		ac.Intent.TurnRemaining -= s
		if math.Abs(ac.Intent.TurnRemaining) < 1e-9 {
			ac.Intent.TurnRemaining = 0
		}
	} else {
		ac.Heading = types.RotateTowards(ac.Heading, desired, step)
	}

	limit := ac.speedCap()
	if turning {
		limit *= ac.Perf.TurnSlowdownFactor
	}
	if ac.Speed < limit {
		ac.Speed = math.Min(ac.Speed+ac.Perf.Acceleration*dt, limit)
	} else if ac.Speed > limit {
		ac.Speed = math.Max(ac.Speed-ac.Perf.Deceleration*dt, limit)
	}

	if ac.State == TakingOff && ac.Speed >= ac.Perf.TakeoffSpeed {
		ac.Intent.FlyingCap = ac.Perf.ClimbSpeed
	}

	if travel := ac.Speed * dt; travel >= dist {
		ac.Position = ac.Intent.Target
		ac.arrive()
	} else {
		ac.Position = ac.Position.Add(dir.Scale(travel))
	}
}

// coast bleeds off speed while carrying on along the current heading.
func (ac *Aircraft) coast(dt float64) {
	if ac.Speed <= 0 {
		return
	}
	ac.Speed = math.Max(ac.Speed-ac.Perf.Deceleration*dt, 0)
	if ac.Speed > 0 {
		ac.Position = ac.Position.Add(types.HeadingVector(ac.Heading).Scale(ac.Speed * dt))
	}
}

func (ac *Aircraft) arrive() {
	ac.Intent.Moving = false

	switch ac.State {
	case Taxiing:
		switch {
		case ac.takeoffPoint != nil:
			ac.State = TakingOff
			ac.setDestination(*ac.takeoffPoint)
		case ac.taxiToGate:
			ac.State = Parked
		default:
			ac.State = ReadyForTakeoff
		}

	case TakingOff:
		ac.State = InAir
		ac.takeoffPoint = nil
		hdg := ac.Heading
		if ac.departureHeading != nil {
			hdg = *ac.departureHeading
		}
		ac.departure = &departure{origin: ac.Position}
		ac.Intent.TargetHeading = hdg
		ac.setDestination(ac.Position.Add(types.HeadingVector(hdg).Scale(ac.Perf.DepartureDistance)))
		log.Infof("%s: airborne off runway %s, departing heading %03.0f", ac.ID, ac.runway, hdg)

	case Landing:
		if p, ok := ac.env.ResolveWaypoint(airspace.TakeoffWaypoint(ac.runway)); ok {
			ac.State = Landed
			ac.setDestination(p)
			log.Infof("%s: touchdown runway %s", ac.ID, ac.runway)
		}

	case Landed:
		ac.remove(ExitLanded)
	}
}

func (ac *Aircraft) remove(exit Exit) {
	if !ac.IsActive() {
		return
	}
	ac.Exit = exit
	ac.Intent.Moving = false
	log.Infof("%s: removed (%s)", ac.ID, exit)
	ac.env.Unregister(ac.ID)
}

// LeaveAirspace removes an aircraft that flew out of the controlled area.
func (ac *Aircraft) LeaveAirspace() {
	ac.remove(ExitLeftAirspace)
}

// DeclareEmergency starts the emergency clock. It cannot be undone.
func (ac *Aircraft) DeclareEmergency() {
	if ac.HasEmergency || !ac.IsActive() {
		return
	}
	ac.HasEmergency = true
	ac.EmergencyTimeRemaining = ac.Perf.EmergencyTimeLimit
	ac.env.AddRadioMessage(ac.ID, fmt.Sprintf("%s: MAYDAY MAYDAY MAYDAY, %s declaring emergency", ac.ID, ac.ID), true)
}
