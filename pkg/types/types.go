package types

import "math"

// Callsign identifies an aircraft for its whole lifetime in the roster.
type Callsign string

type Vec2 struct {
	X float64
	Y float64
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func (v1 Vec2) Add(v2 Vec2) Vec2 {
	return Vec2{v1.X + v2.X, v1.Y + v2.Y}
}

func (v1 Vec2) Sub(v2 Vec2) Vec2 {
	return Vec2{v1.X - v2.X, v1.Y - v2.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// IsZero reports whether v is the zero vector. Waypoint lookups use it as
// the "no waypoint" sentinel.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v1 Vec2) DistanceTo(v2 Vec2) float64 {
	dx := v1.X - v2.X
	dy := v1.Y - v2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// HeadingTo returns the compass heading from v1 towards v2.
func (v1 Vec2) HeadingTo(v2 Vec2) float64 {
	return VectorHeading(v2.Sub(v1))
}

type WaypointType int

const (
	Runway WaypointType = iota
	Gate
	Holding
	TakeoffPosition
	Departure
)

var WaypointTypeStringMap = map[WaypointType]string{
	Runway:          "RUNWAY",
	Gate:            "GATE",
	Holding:         "HOLDING",
	TakeoffPosition: "TAKEOFF",
	Departure:       "DEPARTURE",
}

func (t WaypointType) String() string {
	if s, ok := WaypointTypeStringMap[t]; ok {
		return s
	}
	return "UNKNOWN"
}

type Waypoint struct {
	Name     string
	Position Vec2
	Type     WaypointType
}
