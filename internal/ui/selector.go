package ui

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Selector is a drop-down stand-in: clicking cycles through its options.
// Index 0 is the unselected placeholder when the options start with one.
type Selector struct {
	Label    string
	Options  []string
	Index    int
	X, Y     int
	Width    int
	Height   int
	OnChange func(string)
}

func NewSelector(label string, x, y, width, height int, onChange func(string)) *Selector {
	return &Selector{
		Label:    label,
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		OnChange: onChange,
	}
}

// SetOptions replaces the options, keeping the current choice when it is
// still offered.
func (s *Selector) SetOptions(opts []string) {
	cur := s.Selected()
	s.Options = opts
	s.Index = max(slices.Index(opts, cur), 0)
}

func (s *Selector) Selected() string {
	if s.Index < 0 || s.Index >= len(s.Options) {
		return ""
	}
	return s.Options[s.Index]
}

func (s *Selector) Next() {
	s.step(1)
}

func (s *Selector) Prev() {
	s.step(-1)
}

func (s *Selector) step(d int) {
	if len(s.Options) == 0 {
		return
	}
	s.Index = (s.Index + d + len(s.Options)) % len(s.Options)
	if s.OnChange != nil {
		s.OnChange(s.Selected())
	}
}

func (s *Selector) IsClicked(mouseX, mouseY int) bool {
	return inside(mouseX, mouseY, s.X, s.Y, s.Width, s.Height)
}

func (s *Selector) Draw(screen *ebiten.Image) {
	bg := color.RGBA{40, 40, 60, 255}
	if len(s.Options) == 0 {
		bg = color.RGBA{30, 30, 30, 255}
	}
	drawBox(screen, s.X, s.Y, s.Width, s.Height, bg)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: < %s >", s.Label, s.Selected()), s.X+5, s.Y+(s.Height-16)/2)
}

// Button runs OnClick when clicked.
type Button struct {
	Label   string
	X, Y    int
	Width   int
	Height  int
	OnClick func()
}

func (b *Button) IsClicked(mouseX, mouseY int) bool {
	return inside(mouseX, mouseY, b.X, b.Y, b.Width, b.Height)
}

func (b *Button) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	drawBox(screen, b.X, b.Y, b.Width, b.Height, color.RGBA{0, 90, 0, 255})
	ebitenutil.DebugPrintAt(screen, b.Label, b.X+5, b.Y+(b.Height-16)/2)
}
