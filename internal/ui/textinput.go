package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TextInput is a one-line input box; Enter submits the upper-cased text.
type TextInput struct {
	Text        string
	Placeholder string
	IsActive    bool
	X, Y        int
	Width       int
	Height      int
	OnSubmit    func(string)
}

func NewTextInput(x, y, width, height int, placeholder string, onSubmit func(string)) *TextInput {
	return &TextInput{
		Placeholder: placeholder,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		OnSubmit:    onSubmit,
	}
}

func (ti *TextInput) Update() {
	if !ti.IsActive {
		return
	}

	ti.Text += string(ebiten.AppendInputChars(nil))

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(ti.Text) > 0 {
			ti.Text = ti.Text[:len(ti.Text)-1]
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if ti.OnSubmit != nil {
			ti.OnSubmit(strings.ToUpper(strings.TrimSpace(ti.Text)))
		}
		ti.Text = ""
		ti.IsActive = false
	}
}

func (ti *TextInput) Draw(screen *ebiten.Image) {
	bgColor := color.RGBA{50, 50, 50, 255}
	if ti.IsActive {
		bgColor = color.RGBA{80, 80, 80, 255}
	}
	drawBox(screen, ti.X, ti.Y, ti.Width, ti.Height, bgColor)

	displayTxt := ti.Text
	switch {
	case ti.IsActive:
		displayTxt += "_"
	case displayTxt == "":
		displayTxt = ti.Placeholder
	}
	ebitenutil.DebugPrintAt(screen, displayTxt, ti.X+5, ti.Y+(ti.Height-16)/2)
}

// IsClicked checks if the mouse click is within the text input bounds
func (ti *TextInput) IsClicked(mouseX, mouseY int) bool {
	return inside(mouseX, mouseY, ti.X, ti.Y, ti.Width, ti.Height)
}

func drawBox(screen *ebiten.Image, x, y, width, height int, bg color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), float32(height), bg, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(width), float32(height), 1, color.White, false)
}

func inside(mouseX, mouseY, x, y, width, height int) bool {
	return mouseX >= x && mouseX <= x+width &&
		mouseY >= y && mouseY <= y+height
}
