package command

import (
	"fmt"
	"strings"

	"atc-tower/pkg/types"
)

var acknowledgements = map[Type]func(c Command) string{
	Taxi:     func(c Command) string { return fmt.Sprintf("Taxiing %s %s", c.Sub, c.Location) },
	Takeoff:  func(c Command) string { return fmt.Sprintf("Cleared for takeoff, %s %s", c.Sub, c.Location) },
	Land:     func(c Command) string { return fmt.Sprintf("Cleared to land runway %s", c.Location) },
	Turn:     func(c Command) string { return fmt.Sprintf("Roger, %s heading %s", c.Sub, c.Location) },
	Hold:     func(c Command) string { return "Holding position" },
	Continue: func(c Command) string { return "Continuing" },
}

// Instruction is the controller's transmission for c.
func Instruction(cs types.Callsign, c Command) string {
	return fmt.Sprintf("ATC: %s, %s", cs, c)
}

// Acknowledgement is the pilot's readback of c.
func Acknowledgement(cs types.Callsign, c Command) string {
	ack := "Roger"
	if f, ok := acknowledgements[c.Type]; ok {
		ack = strings.TrimSpace(f(c))
	}
	return fmt.Sprintf("%s: %s", cs, ack)
}

// Unable is the pilot's reply when an instruction cannot be followed.
func Unable(cs types.Callsign, reason error) string {
	return fmt.Sprintf("%s: Unable, %v", cs, reason)
}
