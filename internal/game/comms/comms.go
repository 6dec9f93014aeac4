// Package comms sequences the messages shown in the radio panel.
//
// Messages are queued and advanced by game time, so a paused game also
// pauses the panel.
package comms

import "fmt"

const (
	MessageDuration = 4.0
	NoticeDuration  = 4.0
	WelcomeDuration = 3.0
)

type PanelKind int

const (
	NoPanel PanelKind = iota
	Instruction
	Acknowledgement
	Notice
	Welcome
)

var PanelKindStringMap = map[PanelKind]string{
	NoPanel:         "NONE",
	Instruction:     "INSTRUCTION",
	Acknowledgement: "ACKNOWLEDGEMENT",
	Notice:          "NOTICE",
	Welcome:         "WELCOME",
}

func (k PanelKind) String() string {
	if s, ok := PanelKindStringMap[k]; ok {
		return s
	}
	return fmt.Sprintf("PanelKind(%d)", int(k))
}

type Panel struct {
	Visible bool
	Text    string
	Kind    PanelKind
}

type step struct {
	panel    Panel
	duration float64
	elapsed  float64
	started  bool
}

// Display is the message panel plus the visibility of the command panel.
type Display struct {
	CommandPanelVisible bool
	Panel               Panel

	queue []*step
}

func NewDisplay() *Display {
	return &Display{}
}

func (d *Display) ShowCommandPanel() {
	d.CommandPanelVisible = true
}

func (d *Display) HideCommandPanel() {
	d.CommandPanelVisible = false
}

// Sequence shows instruction, then response, each for MessageDuration
// seconds, clearing the panel in between. The command panel is left as
// the caller set it.
func (d *Display) Sequence(instruction, response string) {
	d.enqueue(
		&step{panel: Panel{Visible: true, Text: instruction, Kind: Instruction}, duration: MessageDuration},
		&step{panel: Panel{Visible: true, Text: response, Kind: Acknowledgement}, duration: MessageDuration},
	)
}

// Notify shows a validation message or other notice.
func (d *Display) Notify(msg string) {
	d.enqueue(&step{panel: Panel{Visible: true, Text: msg, Kind: Notice}, duration: NoticeDuration})
}

func (d *Display) Welcome(msg string) {
	d.enqueue(&step{panel: Panel{Visible: true, Text: msg, Kind: Welcome}, duration: WelcomeDuration})
}

// Pending reports the number of queued messages, including the one shown.
func (d *Display) Pending() int {
	return len(d.queue)
}

func (d *Display) enqueue(steps ...*step) {
	idle := len(d.queue) == 0
	d.queue = append(d.queue, steps...)
	if idle {
		d.start()
	}
}

func (d *Display) start() {
	if len(d.queue) == 0 {
		return
	}
	s := d.queue[0]
	if !s.started {
		s.started = true
		d.Panel = s.panel
	}
}

// Update advances the queued messages by dt seconds of game time.
func (d *Display) Update(dt float64) {
	for dt > 0 && len(d.queue) > 0 {
		s := d.queue[0]
		remaining := s.duration - s.elapsed
		if dt < remaining {
			s.elapsed += dt
			return
		}
		dt -= remaining

		d.Panel = Panel{}
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.start()
	}
}

// Cancel drops every queued message and clears the panels.
func (d *Display) Cancel() {
	d.queue = nil
	d.Panel = Panel{}
	d.CommandPanelVisible = false
}
