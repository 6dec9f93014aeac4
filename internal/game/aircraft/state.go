package aircraft

import "fmt"

type AircraftState int

const (
	InAir AircraftState = iota
	Taxiing
	ReadyForTakeoff
	TakingOff
	Landing
	Landed
	Holding
	Parked
)

var StateStringMap = map[AircraftState]string{
	InAir:           "IN_AIR",
	Taxiing:         "TAXIING",
	ReadyForTakeoff: "READY_FOR_TAKEOFF",
	TakingOff:       "TAKING_OFF",
	Landing:         "LANDING",
	Landed:          "LANDED",
	Holding:         "HOLDING",
	Parked:          "PARKED",
}

func (s AircraftState) String() string {
	if str, ok := StateStringMap[s]; ok {
		return str
	}
	return fmt.Sprintf("AircraftState(%d)", int(s))
}

// Exit records why an aircraft left the simulation.
type Exit int

const (
	Active Exit = iota
	ExitLanded
	ExitDeparted
	ExitLeftAirspace
)

var ExitStringMap = map[Exit]string{
	Active:           "ACTIVE",
	ExitLanded:       "LANDED",
	ExitDeparted:     "DEPARTED",
	ExitLeftAirspace: "LEFT_AIRSPACE",
}

func (e Exit) String() string {
	if s, ok := ExitStringMap[e]; ok {
		return s
	}
	return fmt.Sprintf("Exit(%d)", int(e))
}

type Kind int

const (
	Prop Kind = iota
	Jet
)

func (k Kind) String() string {
	if k == Jet {
		return "JET"
	}
	return "PROP"
}

// Performance holds the handling numbers of an aircraft. Speeds are world
// units per second, rates per second, angles in degrees.
type Performance struct {
	MaxTaxiSpeed       float64
	MaxFlyingSpeed     float64
	Acceleration       float64
	Deceleration       float64
	RotationSpeed      float64
	TurnSlowdownFactor float64

	TakeoffSpeed          float64
	ClimbSpeed            float64
	LandingSpeed          float64
	DepartureDistance     float64
	DepartureExitDistance float64
	TurnDistance          float64

	ArrivalEpsilon     float64
	EmergencyTimeLimit float64
	HitRadius          float64
}

// TurningThreshold is the heading error above which an aircraft slows for
// the turn.
const TurningThreshold = 45.0

func DefaultPerformance(kind Kind) Performance {
	p := Performance{
		MaxTaxiSpeed:       12,
		MaxFlyingSpeed:     15,
		Acceleration:       3,
		Deceleration:       1,
		RotationSpeed:      45,
		TurnSlowdownFactor: 0.5,

		TakeoffSpeed:          25,
		ClimbSpeed:            35,
		LandingSpeed:          18,
		DepartureDistance:     1000,
		DepartureExitDistance: 995,
		TurnDistance:          1000,

		ArrivalEpsilon:     0.1,
		EmergencyTimeLimit: 100,
		HitRadius:          10,
	}
	if kind == Jet {
		p.MaxFlyingSpeed = 18
		p.ClimbSpeed = 40
		p.HitRadius = 12
	}
	return p
}
