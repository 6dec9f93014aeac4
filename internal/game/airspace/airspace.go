// Package airspace is the waypoint directory of the airport being played.
package airspace

import (
	"fmt"
	"sort"

	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

type Airspace struct {
	Airport   *Airport
	Waypoints map[string]*types.Waypoint

	AirSpawns    []SpawnPoint
	GroundSpawns []SpawnPoint
}

func NewAirspace(ap *Airport) (*Airspace, error) {
	as := &Airspace{
		Airport:      ap,
		Waypoints:    make(map[string]*types.Waypoint),
		AirSpawns:    ap.AirSpawnPoints(),
		GroundSpawns: ap.Gates,
	}

	for _, pv := range ap.Pavements {
		for _, end := range pv.Ends {
			hdg, err := RunwayHeading(end)
			if err != nil {
				return nil, err
			}
			half := types.HeadingVector(hdg).Scale(pv.Length / 2)
			if err := as.Register(types.Waypoint{Name: end, Position: pv.Center.Sub(half), Type: types.Runway}); err != nil {
				return nil, err
			}
			if err := as.Register(types.Waypoint{Name: TakeoffWaypoint(end), Position: pv.Center.Add(half), Type: types.TakeoffPosition}); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range ap.Gates {
		if err := as.Register(types.Waypoint{Name: g.Name, Position: g.Position, Type: types.Gate}); err != nil {
			return nil, err
		}
	}

	log.Infof("airspace %s: %d waypoints, %d air and %d ground spawn points", ap.ID, len(as.Waypoints),
		len(as.AirSpawns), len(as.GroundSpawns))
	return as, nil
}

// Register adds a waypoint; names are unique within an airport.
func (as *Airspace) Register(wp types.Waypoint) error {
	if _, ok := as.Waypoints[wp.Name]; ok {
		return fmt.Errorf("%s: waypoint registered twice", wp.Name)
	}
	if wp.Position.IsZero() {
		return fmt.Errorf("%s: waypoint at the origin is indistinguishable from no waypoint", wp.Name)
	}
	as.Waypoints[wp.Name] = &wp
	return nil
}

// Resolve returns the position of the named waypoint.
func (as *Airspace) Resolve(name string) (types.Vec2, bool) {
	if wp, ok := as.Waypoints[name]; ok {
		return wp.Position, true
	}
	return types.Vec2{}, false
}

// Position is Resolve with the zero vector standing in for an unknown
// waypoint.
func (as *Airspace) Position(name string) types.Vec2 {
	p, _ := as.Resolve(name)
	return p
}

func (as *Airspace) WaypointsOfType(t types.WaypointType) []*types.Waypoint {
	var wps []*types.Waypoint
	for _, wp := range as.Waypoints {
		if wp.Type == t {
			wps = append(wps, wp)
		}
	}
	sort.Slice(wps, func(i, j int) bool { return wps[i].Name < wps[j].Name })
	return wps
}

// Contains reports whether p lies within the airspace radius.
func (as *Airspace) Contains(p types.Vec2, margin float64) bool {
	return p.DistanceTo(as.Airport.Center) <= as.Airport.SpawnRadius+margin
}
