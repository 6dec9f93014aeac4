package airspace

import (
	"fmt"
	"strconv"
	"strings"

	"atc-tower/pkg/types"
)

type AirportID string

const (
	KLIT AirportID = "KLIT"
	KMDW AirportID = "KMDW"
	KATL AirportID = "KATL"
	KDTS AirportID = "KDTS"
)

// Pavement is one strip of runway; each end is a runway named after its
// heading (e.g. "18" and "36").
type Pavement struct {
	Ends   [2]string
	Center types.Vec2
	Length float64
}

// SpawnPoint is a named position aircraft enter the simulation from. Gate
// spawn points are named by their letter alone; phraseology adds "gate".
type SpawnPoint struct {
	Name     string
	Position types.Vec2
	Heading  float64
}

type Airport struct {
	ID   AirportID
	Name string
	// Runways lists runway names in the order the command panel offers them.
	Runways     []string
	Pavements   []Pavement
	Gates       []SpawnPoint
	Center      types.Vec2
	SpawnRadius float64
}

const TakeoffSuffix = "_TAKEOFF"

func TakeoffWaypoint(runway string) string {
	return runway + TakeoffSuffix
}

// RunwayHeading derives a runway's magnetic heading from its designator:
// "4R" -> 40, "36" -> 360.
func RunwayHeading(name string) (float64, error) {
	digits := strings.TrimRight(name, "LCR")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 36 {
		return 0, fmt.Errorf("%q: not a runway designator", name)
	}
	return float64(n * 10), nil
}

var center = types.NewVec2(512, 384)

func at(dx, dy float64) types.Vec2 {
	return center.Add(types.NewVec2(dx, dy))
}

var airports = map[AirportID]*Airport{
	KLIT: {
		ID:      KLIT,
		Name:    "Little Rock",
		Runways: []string{"18", "36", "4R", "4L", "22R", "22L"},
		Pavements: []Pavement{
			{Ends: [2]string{"18", "36"}, Center: at(-120, 0), Length: 260},
			{Ends: [2]string{"4R", "22L"}, Center: at(60, 40), Length: 300},
			{Ends: [2]string{"4L", "22R"}, Center: at(10, -40), Length: 300},
		},
		Gates: []SpawnPoint{
			{Name: "A", Position: at(-40, 150), Heading: 0},
			{Name: "B", Position: at(20, 170), Heading: 0},
			{Name: "C", Position: at(150, -160), Heading: 270},
		},
	},
	KMDW: {
		ID:      KMDW,
		Name:    "Chicago Midway",
		Runways: []string{"13C", "13R", "31C", "31L", "4R", "4L", "22R", "22L"},
		Pavements: []Pavement{
			{Ends: [2]string{"13C", "31C"}, Center: at(0, 0), Length: 260},
			{Ends: [2]string{"13R", "31L"}, Center: at(45, -40), Length: 220},
			{Ends: [2]string{"4R", "22L"}, Center: at(40, 50), Length: 240},
			{Ends: [2]string{"4L", "22R"}, Center: at(-40, -50), Length: 240},
		},
		Gates: []SpawnPoint{
			{Name: "A", Position: at(-170, 120), Heading: 90},
			{Name: "B", Position: at(-170, 160), Heading: 90},
		},
	},
	KATL: {
		ID:      KATL,
		Name:    "Atlanta Hartsfield-Jackson",
		Runways: []string{"8R", "8L", "9R", "9L", "10", "26R", "26L", "27R", "27L", "28"},
		Pavements: []Pavement{
			{Ends: [2]string{"8R", "26L"}, Center: at(0, -150), Length: 340},
			{Ends: [2]string{"8L", "26R"}, Center: at(0, -200), Length: 340},
			{Ends: [2]string{"9R", "27L"}, Center: at(0, 40), Length: 360},
			{Ends: [2]string{"9L", "27R"}, Center: at(0, -10), Length: 360},
			{Ends: [2]string{"10", "28"}, Center: at(0, 190), Length: 300},
		},
		Gates: []SpawnPoint{
			{Name: "A", Position: at(-80, -80), Heading: 90},
			{Name: "B", Position: at(0, -80), Heading: 90},
			{Name: "C", Position: at(80, -80), Heading: 90},
			{Name: "T", Position: at(-80, 110), Heading: 90},
		},
	},
	KDTS: {
		ID:      KDTS,
		Name:    "Destin Executive",
		Runways: []string{"14", "32"},
		Pavements: []Pavement{
			{Ends: [2]string{"14", "32"}, Center: at(0, 0), Length: 220},
		},
		Gates: []SpawnPoint{
			{Name: "A", Position: at(120, 30), Heading: 320},
		},
	},
}

func init() {
	for _, ap := range airports {
		ap.Center = center
		ap.SpawnRadius = 520
	}
}

func Airports() []AirportID {
	return []AirportID{KLIT, KMDW, KATL, KDTS}
}

func LookupAirport(id string) (*Airport, error) {
	ap, ok := airports[AirportID(strings.ToUpper(id))]
	if !ok {
		return nil, fmt.Errorf("%s: unknown airport", id)
	}
	return ap, nil
}

// AirSpawnPoints returns the four compass entry points on the edge of the
// airport's airspace, each heading towards the field.
func (ap *Airport) AirSpawnPoints() []SpawnPoint {
	var sp []SpawnPoint
	for _, e := range []struct {
		name    string
		bearing float64
	}{{"north", 0}, {"east", 90}, {"south", 180}, {"west", 270}} {
		sp = append(sp, SpawnPoint{
			Name:     e.name,
			Position: ap.Center.Add(types.HeadingVector(e.bearing).Scale(ap.SpawnRadius)),
			Heading:  types.NormalizeHeading(e.bearing + 180),
		})
	}
	return sp
}

func (ap *Airport) GateNames() []string {
	var names []string
	for _, g := range ap.Gates {
		names = append(names, g.Name)
	}
	return names
}
