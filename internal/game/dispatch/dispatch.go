// Package dispatch turns the controller's selections into aircraft
// instructions and the radio exchange that goes with them.
package dispatch

import (
	"errors"
	"fmt"

	"atc-tower/internal/game/command"
	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

// Target is an aircraft that can be selected and instructed.
type Target interface {
	Callsign() types.Callsign
	ExecuteCommand(cmd command.Command) error
	SetSelected(selected bool)
}

// Display shows the command panel and the radio exchange.
type Display interface {
	ShowCommandPanel()
	HideCommandPanel()
	Notify(msg string)
	Sequence(instruction, response string)
}

// Radio records transmissions in the radio log.
type Radio interface {
	Transmit(callsign types.Callsign, instruction, response string)
}

// Status reports whether the game has ended.
type Status interface {
	IsOver() bool
}

var (
	ErrNoSelection     = errors.New("please select an aircraft")
	ErrInvalidLocation = errors.New("please select a valid location")
	ErrRejected        = errors.New("instruction rejected")
	ErrGameOver        = errors.New("game over")
)

type Dispatcher struct {
	display Display
	radio   Radio
	status  Status

	runways []string
	gates   []string

	selected Target
}

// New returns a dispatcher offering runways and gates as locations. radio
// and status may be nil; without a status the game never ends.
func New(display Display, radio Radio, status Status, runways, gates []string) *Dispatcher {
	return &Dispatcher{
		display: display,
		radio:   radio,
		status:  status,
		runways: runways,
		gates:   gates,
	}
}

// Select makes t the selected aircraft, deselecting the previous one. A
// nil t clears the selection.
func (d *Dispatcher) Select(t Target) {
	if d.selected != nil {
		d.selected.SetSelected(false)
	}
	d.selected = t
	if t == nil {
		d.display.HideCommandPanel()
		return
	}
	t.SetSelected(true)
	d.display.ShowCommandPanel()
}

func (d *Dispatcher) Selected() Target {
	return d.selected
}

// Execute sends the instruction to the selected aircraft. Validation
// failures are shown as a notice and leave the aircraft alone, as does
// any instruction once the game has ended. The command panel closes when
// the exchange starts.
func (d *Dispatcher) Execute(t command.Type, sub command.SubCommand, location string) error {
	if d.status != nil && d.status.IsOver() {
		return d.reject(ErrGameOver)
	}
	if d.selected == nil {
		return d.reject(ErrNoSelection)
	}

	cmd := command.Command{Type: t, Sub: sub, Location: location}
	if err := cmd.Validate(); err != nil {
		return d.reject(err)
	}
	if needsLocation(t) && (location == "" || location == command.Placeholder) {
		return d.reject(ErrInvalidLocation)
	}

	cs := d.selected.Callsign()
	instruction := command.Instruction(cs, cmd)
	response := command.Acknowledgement(cs, cmd)

	var err error
	if cerr := d.selected.ExecuteCommand(cmd); cerr != nil {
		response = command.Unable(cs, cerr)
		err = fmt.Errorf("%s: %w: %w", cs, ErrRejected, cerr)
	}

	d.display.HideCommandPanel()
	d.display.Sequence(instruction, response)
	if d.radio != nil {
		d.radio.Transmit(cs, instruction, response)
	}
	return err
}

// ExecuteText is Execute for the option strings shown in the command
// panel. The placeholder parses as an unselected option.
func (d *Dispatcher) ExecuteText(cmd, sub, location string) error {
	return d.Execute(command.ParseType(cmd), command.ParseSubCommand(sub), location)
}

func (d *Dispatcher) reject(err error) error {
	log.Debugf("dispatch: %v", err)
	d.display.Notify(err.Error())
	return err
}

func needsLocation(t command.Type) bool {
	return t != command.Hold && t != command.Continue
}

func (d *Dispatcher) TypeOptions() []string {
	return command.TypeOptions()
}

func (d *Dispatcher) SubCommandOptions(cmd string) []string {
	return command.SubCommandOptions(command.ParseType(cmd))
}

func (d *Dispatcher) LocationOptions(cmd, sub string) []string {
	return command.LocationOptions(command.ParseType(cmd), command.ParseSubCommand(sub), d.runways, d.gates)
}
