// Package spawner brings new traffic into the airspace at intervals set by
// the traffic level.
package spawner

import (
	"errors"
	"fmt"
	"strings"

	"atc-tower/internal/config"
	"atc-tower/internal/game/aircraft"
	"atc-tower/internal/game/airspace"
	"atc-tower/pkg/rand"
	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

// Band is the range, in seconds, a spawn interval is drawn from.
type Band struct {
	Min, Max float64
}

var Bands = map[config.TrafficLevel]Band{
	config.TrafficLow:    {10, 50},
	config.TrafficMedium: {7, 40},
	config.TrafficHigh:   {5, 30},
}

var DefaultBand = Band{7, 40}

const (
	GroundSpawnChance = 0.4
	// ParkedChance is the share of ground spawns that start at the gate
	// and need a taxi clearance before they can be cleared for takeoff.
	ParkedChance = 0.5
	// OccupiedRadius is how close another aircraft may be before a spawn
	// point counts as taken.
	OccupiedRadius     = 50.0
	ArrivalDistance    = 2000.0
	EmergencyChance    = 1.0 / 50
	callsignLetters    = "ABCDEFGIJKLNOPRSTUWX"
	maxCallsignRetries = 100
)

var (
	ErrNoSpawnPoint = errors.New("no free spawn point")
	ErrNoCallsign   = errors.New("could not generate a unique callsign")
)

func SpawnInterval(level config.TrafficLevel, r *rand.Rand) float64 {
	b, ok := Bands[level]
	if !ok {
		b = DefaultBand
	}
	return r.Range(b.Min, b.Max)
}

// Registry is the roster new aircraft are added to.
type Registry interface {
	Register(ac *aircraft.Aircraft) error
	Has(callsign types.Callsign) bool
	Active() []*aircraft.Aircraft
}

type Spawner struct {
	airspace    *airspace.Airspace
	env         aircraft.Environment
	registry    Registry
	rng         *rand.Rand
	traffic     config.TrafficLevel
	emergencies bool

	// untilNext counts down to the next spawn attempt.
	untilNext float64
}

func New(as *airspace.Airspace, env aircraft.Environment, reg Registry, rng *rand.Rand, settings config.Settings) *Spawner {
	s := &Spawner{
		airspace:    as,
		env:         env,
		registry:    reg,
		rng:         rng,
		traffic:     settings.Traffic,
		emergencies: settings.Emergencies,
	}
	s.untilNext = SpawnInterval(s.traffic, rng)
	return s
}

// Update runs the spawn timer and spawns when it expires.
func (s *Spawner) Update(dt float64) {
	s.untilNext -= dt
	if s.untilNext > 0 {
		return
	}
	s.untilNext = SpawnInterval(s.traffic, s.rng)

	if _, err := s.Spawn(); err != nil {
		log.Debugf("spawn skipped: %v", err)
	}
}

// Spawn creates one aircraft, on the ground or in the air.
func (s *Spawner) Spawn() (*aircraft.Aircraft, error) {
	if s.rng.Chance(GroundSpawnChance) {
		return s.SpawnGround()
	}
	return s.SpawnAir()
}

// SpawnAir brings an aircraft in from a free entry point on the edge of
// the airspace, flying towards the field.
func (s *Spawner) SpawnAir() (*aircraft.Aircraft, error) {
	sp, err := s.freePoint(s.airspace.AirSpawns)
	if err != nil {
		return nil, fmt.Errorf("air: %w", err)
	}
	ac, err := s.create(sp, aircraft.InAir)
	if err != nil {
		return nil, err
	}
	ac.Speed = ac.Intent.FlyingCap
	ac.SetDestination(sp.Position.Add(types.HeadingVector(sp.Heading).Scale(ArrivalDistance)))
	return s.register(ac, fmt.Sprintf("%s: inbound from the %s", ac.ID, sp.Name))
}

// SpawnGround places an aircraft at a free gate, either parked or ready
// for departure. The attempt is skipped when every gate is occupied.
func (s *Spawner) SpawnGround() (*aircraft.Aircraft, error) {
	sp, err := s.freePoint(s.airspace.GroundSpawns)
	if err != nil {
		return nil, fmt.Errorf("ground: %w", err)
	}
	state, request := aircraft.ReadyForTakeoff, "ready for departure"
	if s.rng.Chance(ParkedChance) {
		state, request = aircraft.Parked, "requesting taxi"
	}
	ac, err := s.create(sp, state)
	if err != nil {
		return nil, err
	}
	return s.register(ac, fmt.Sprintf("%s: at gate %s, %s", ac.ID, sp.Name, request))
}

func (s *Spawner) create(sp airspace.SpawnPoint, state aircraft.AircraftState) (*aircraft.Aircraft, error) {
	cs, err := s.callsign()
	if err != nil {
		return nil, err
	}
	kind := rand.Sample(s.rng, []aircraft.Kind{aircraft.Prop, aircraft.Jet})
	return aircraft.NewAircraft(cs, kind, sp.Position, sp.Heading, state, s.env), nil
}

func (s *Spawner) register(ac *aircraft.Aircraft, announcement string) (*aircraft.Aircraft, error) {
	if err := s.registry.Register(ac); err != nil {
		return nil, err
	}
	log.Infof("%s: spawned %s %s at (%.0f, %.0f)", ac.ID, ac.Kind, ac.State, ac.Position.X, ac.Position.Y)
	s.env.AddRadioMessage(ac.ID, announcement, false)

	if s.emergencies && s.rng.Chance(EmergencyChance) {
		ac.DeclareEmergency()
	}
	return ac, nil
}

func (s *Spawner) freePoint(points []airspace.SpawnPoint) (airspace.SpawnPoint, error) {
	active := s.registry.Active()
	var free []airspace.SpawnPoint
	for _, sp := range points {
		occupied := false
		for _, ac := range active {
			if ac.Position.DistanceTo(sp.Position) < OccupiedRadius {
				occupied = true
				break
			}
		}
		if !occupied {
			free = append(free, sp)
		}
	}
	if len(free) == 0 {
		return airspace.SpawnPoint{}, ErrNoSpawnPoint
	}
	return rand.Sample(s.rng, free), nil
}

// callsign returns an unused callsign of the form N123AB.
func (s *Spawner) callsign() (types.Callsign, error) {
	for i := 0; i < maxCallsignRetries; i++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "N%d", s.rng.IntRange(100, 999))
		sb.WriteByte(callsignLetters[s.rng.Intn(len(callsignLetters))])
		sb.WriteByte(callsignLetters[s.rng.Intn(len(callsignLetters))])
		if cs := types.Callsign(sb.String()); !s.registry.Has(cs) {
			return cs, nil
		}
	}
	return "", ErrNoCallsign
}
