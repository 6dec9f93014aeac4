// Package command defines the instructions a controller can issue and the
// option lists and radio phrasing that go with them.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"atc-tower/pkg/types"
)

// Placeholder is the unselected entry at the top of every option list.
const Placeholder = "Select"

type Type int

const (
	None Type = iota
	Taxi
	Takeoff
	Land
	Turn
	Hold
	Continue
)

var TypeStringMap = map[Type]string{
	None:     Placeholder,
	Taxi:     "Taxi",
	Takeoff:  "Takeoff",
	Land:     "Land",
	Turn:     "Turn",
	Hold:     "Hold",
	Continue: "Continue",
}

func (t Type) String() string {
	if s, ok := TypeStringMap[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

type SubCommand int

const (
	NoSub SubCommand = iota
	ToRunway
	ToGate
	RunwayHeading
	Turn090
	Turn180
	Turn270
	Turn360
	Runway
	Position
	Left
	Right
	Resume
)

var SubCommandStringMap = map[SubCommand]string{
	NoSub:         Placeholder,
	ToRunway:      "to runway",
	ToGate:        "to gate",
	RunwayHeading: "runway heading",
	Turn090:       "turn 090",
	Turn180:       "turn 180",
	Turn270:       "turn 270",
	Turn360:       "turn 360",
	Runway:        "runway",
	Position:      "position",
	Left:          "left",
	Right:         "right",
	Resume:        "resume",
}

func (s SubCommand) String() string {
	if str, ok := SubCommandStringMap[s]; ok {
		return str
	}
	return fmt.Sprintf("SubCommand(%d)", int(s))
}

// DepartureHeading returns the heading a takeoff sub-command asks for
// after departure.
func (s SubCommand) DepartureHeading() (float64, bool) {
	switch s {
	case Turn090:
		return 90, true
	case Turn180:
		return 180, true
	case Turn270:
		return 270, true
	case Turn360:
		return 360, true
	default:
		return 0, false
	}
}

func (s SubCommand) Side() types.TurnSide {
	switch s {
	case Left:
		return types.TurnLeft
	case Right:
		return types.TurnRight
	default:
		return types.TurnShortest
	}
}

// menu lists the command types offered to the controller, in order.
var menu = []Type{Takeoff, Land, Turn, Hold, Continue, Taxi}

var subCommands = map[Type][]SubCommand{
	Taxi:     {ToRunway, ToGate},
	Takeoff:  {RunwayHeading, Turn090, Turn180, Turn270, Turn360},
	Land:     {Runway},
	Turn:     {Left, Right},
	Hold:     {Position},
	Continue: {Resume},
}

// Headings is the fixed set of headings offered for a turn.
var Headings = []string{"360", "045", "090", "135", "180", "225", "270", "315"}

func ParseType(s string) Type {
	s = strings.TrimSpace(s)
	for t, name := range TypeStringMap {
		if strings.EqualFold(s, name) {
			return t
		}
	}
	return None
}

func ParseSubCommand(s string) SubCommand {
	s = strings.TrimSpace(s)
	for sc, name := range SubCommandStringMap {
		if strings.EqualFold(s, name) {
			return sc
		}
	}
	return NoSub
}

// TypeOptions returns the command list, placeholder first.
func TypeOptions() []string {
	opts := []string{Placeholder}
	for _, t := range menu {
		opts = append(opts, t.String())
	}
	return opts
}

// SubCommandOptions returns the sub-commands offered for t, placeholder
// first. An unselected command type has no sub-commands.
func SubCommandOptions(t Type) []string {
	scs, ok := subCommands[t]
	if !ok {
		return nil
	}
	opts := []string{Placeholder}
	for _, sc := range scs {
		opts = append(opts, sc.String())
	}
	return opts
}

// LocationOptions returns the locations offered for a command: the fixed
// headings for turns, gates when taxiing to a gate, nothing for hold and
// continue, and the airport's runways otherwise.
func LocationOptions(t Type, sub SubCommand, runways, gates []string) []string {
	switch {
	case t == None:
		return nil
	case t == Turn:
		return Headings
	case t == Hold || t == Continue:
		return nil
	case t == Taxi && sub == ToGate:
		return gates
	default:
		return runways
	}
}

var (
	ErrInvalidCommand    = errors.New("please select a valid command")
	ErrInvalidSubCommand = errors.New("please select a valid sub-command")
	ErrMismatched        = errors.New("sub-command does not apply to command")
	ErrInvalidHeading    = errors.New("invalid heading")
)

type Command struct {
	Type     Type
	Sub      SubCommand
	Location string
}

func (c Command) Validate() error {
	if c.Type == None {
		return ErrInvalidCommand
	}
	if _, ok := subCommands[c.Type]; !ok {
		return ErrInvalidCommand
	}
	if c.Sub == NoSub {
		return ErrInvalidSubCommand
	}
	for _, sc := range subCommands[c.Type] {
		if sc == c.Sub {
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", c.Type, c.Sub, ErrMismatched)
}

// Heading parses the location of a turn command.
func (c Command) Heading() (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(c.Location), 64)
	if err != nil || h < 0 || h > 360 {
		return 0, fmt.Errorf("%q: %w", c.Location, ErrInvalidHeading)
	}
	return h, nil
}

func (c Command) String() string {
	return strings.Join(strings.Fields(fmt.Sprintf("%s %s %s", c.Type, c.Sub, c.Location)), " ")
}
