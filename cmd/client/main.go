package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"

	"atc-tower/internal/config"
	"atc-tower/internal/game/aircraft"
	"atc-tower/internal/game/comms"
	"atc-tower/internal/game/simulation"
	"atc-tower/internal/logging"
	"atc-tower/internal/ui"
	"atc-tower/pkg/types"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/labstack/gommon/log"
)

const (
	screenWidth  = 1024
	screenHeight = 768
	panelY       = screenHeight - 48
)

var (
	colorRunway    = color.RGBA{120, 120, 120, 255}
	colorWaypoint  = color.RGBA{0, 255, 255, 255}
	colorAircraft  = color.RGBA{0, 255, 0, 255}
	colorEmergency = color.RGBA{255, 60, 60, 255}
	colorSelected  = color.RGBA{255, 255, 255, 255}
	colorConflict  = color.RGBA{255, 0, 0, 100}
	colorBoundary  = color.RGBA{0, 100, 0, 255}
)

type Camera struct {
	X, Y                 float64
	PanStartX, PanStartY int
	Scale                float64
}

type Game struct {
	width, height int
	camera        *Camera
	sim           *simulation.Simulation

	commandSel  *ui.Selector
	subSel      *ui.Selector
	locationSel *ui.Selector
	sendButton  *ui.Button
	callsignBox *ui.TextInput
}

func NewGame(sim *simulation.Simulation, screenWidth, screenHeight int) *Game {
	g := &Game{
		sim:    sim,
		camera: &Camera{0, 0, 0, 0, 1.0},
		width:  screenWidth,
		height: screenHeight,
	}

	g.commandSel = ui.NewSelector("CMD", 10, panelY, 200, 30, func(string) { g.refreshOptions() })
	g.subSel = ui.NewSelector("SUB", 220, panelY, 240, 30, func(string) { g.refreshOptions() })
	g.locationSel = ui.NewSelector("LOC", 470, panelY, 200, 30, nil)
	g.sendButton = &ui.Button{Label: "SEND", X: 680, Y: panelY, Width: 60, Height: 30, OnClick: g.send}
	g.callsignBox = ui.NewTextInput(screenWidth-210, panelY, 200, 30, "callsign + ENTER", func(cs string) {
		if cs != "" {
			_ = g.sim.SelectCallsign(types.Callsign(cs))
		}
	})
	g.commandSel.SetOptions(sim.Dispatcher.TypeOptions())
	g.refreshOptions()
	return g
}

// refreshOptions rebuilds the dependent option lists after a change
// upstream.
func (g *Game) refreshOptions() {
	cmd := g.commandSel.Selected()
	g.subSel.SetOptions(g.sim.Dispatcher.SubCommandOptions(cmd))
	g.locationSel.SetOptions(g.sim.Dispatcher.LocationOptions(cmd, g.subSel.Selected()))
}

func (g *Game) send() {
	if err := g.sim.Dispatcher.ExecuteText(g.commandSel.Selected(), g.subSel.Selected(), g.locationSel.Selected()); err != nil {
		log.Debugf("client: %v", err)
		return
	}
	g.commandSel.Index = 0
	g.refreshOptions()
}

func (g *Game) Update() error {
	g.sim.Update(1 / float64(ebiten.TPS()))

	g.handleInput()
	g.callsignBox.Update()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255})

	g.drawAirspace(screen)

	for _, ac := range g.sim.Roster.Active() {
		g.drawAircraft(screen, ac)
	}

	g.drawUI(screen)
	ebitenutil.DebugPrint(screen, "FPS: "+strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && !g.callsignBox.IsActive {
		g.sim.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.sim.Deselect()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.sim.Session.IsOver() {
		g.sim.Restart()
		g.refreshOptions()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.handleClick(x, y)
	}

	_, wy := ebiten.Wheel()
	if wy != 0 {
		cursorX, cursorY := ebiten.CursorPosition()
		worldX, worldY := g.screenToWorld(float64(cursorX), float64(cursorY))

		scale := g.camera.Scale
		if wy > 0 {
			scale *= 1.1
		} else {
			scale /= 1.1
		}
		g.camera.Scale = types.Clamp(scale, 0.5, 3.0)

		newWorldX, newWorldY := g.screenToWorld(float64(cursorX), float64(cursorY))
		g.camera.X -= (newWorldX - worldX)
		g.camera.Y -= (newWorldY - worldY)
	}

	// Right mouse button for pan
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		dx, dy := ebiten.CursorPosition()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		} else {
			g.camera.X -= float64(dx-g.camera.PanStartX) / g.camera.Scale
			g.camera.Y -= float64(dy-g.camera.PanStartY) / g.camera.Scale
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		}
	}
}

func (g *Game) handleClick(x, y int) {
	g.callsignBox.IsActive = g.callsignBox.IsClicked(x, y)
	if g.callsignBox.IsActive {
		return
	}

	if g.sim.Display.CommandPanelVisible {
		for _, sel := range []*ui.Selector{g.commandSel, g.subSel, g.locationSel} {
			if sel.IsClicked(x, y) {
				sel.Next()
				return
			}
		}
		if g.sendButton.IsClicked(x, y) {
			g.sendButton.Click()
			return
		}
	}
	if y >= panelY {
		return
	}

	wx, wy := g.screenToWorld(float64(x), float64(y))
	clicked := types.NewVec2(wx, wy)
	for _, ac := range g.sim.Roster.Active() {
		if ac.Position.DistanceTo(clicked) <= 2*ac.Perf.HitRadius {
			_ = g.sim.SelectCallsign(ac.ID)
			log.Debugf("Selected aircraft: %s", ac.ID)
			return
		}
	}
	g.sim.Deselect()
}

// Helper: Convert screen coordinates to world coordinates
func (g *Game) screenToWorld(sx, sy float64) (wx, wy float64) {
	wx = sx/g.camera.Scale + g.camera.X
	wy = sy/g.camera.Scale + g.camera.Y
	return
}

// Helper: Convert world coordinates to screen coordinates
func (g *Game) worldToScreen(wx, wy float64) (sx, sy float64) {
	sx = (wx - g.camera.X) * g.camera.Scale
	sy = (wy - g.camera.Y) * g.camera.Scale
	return
}

func (g *Game) drawAircraft(screen *ebiten.Image, ac *aircraft.Aircraft) {
	screenX, screenY := g.worldToScreen(ac.Position.X, ac.Position.Y)

	clr := colorAircraft
	if ac.HasEmergency {
		clr = colorEmergency
	}

	// Triangle pointing along the heading.
	size := 8 * g.camera.Scale
	var path vector.Path
	for i, off := range []float64{0, 140, 220} {
		p := types.HeadingVector(ac.Heading + off).Scale(size)
		if i == 0 {
			path.MoveTo(float32(screenX+p.X), float32(screenY+p.Y))
		} else {
			path.LineTo(float32(screenX+p.X), float32(screenY+p.Y))
		}
	}
	path.Close()
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		r, gr, b, a := clr.RGBA()
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = float32(r)/0xffff, float32(gr)/0xffff, float32(b)/0xffff, float32(a)/0xffff
	}
	screen.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{})

	if ac.IsSelected {
		half := float32(12 * g.camera.Scale)
		vector.StrokeRect(screen, float32(screenX)-half, float32(screenY)-half, 2*half, 2*half, 1, colorSelected, false)
	}

	lineLength := 30.0
	end := ac.Position.Add(types.HeadingVector(ac.Heading).Scale(lineLength))
	endScreenX, endScreenY := g.worldToScreen(end.X, end.Y)
	vector.StrokeLine(screen, float32(screenX), float32(screenY), float32(endScreenX), float32(endScreenY), 1, color.RGBA{100, 100, 255, 255}, false)

	tagText := fmt.Sprintf("%s %s\nSPD:%.0f HDG:%03.0f\nSTS: %s",
		ac.ID, ac.Kind, ac.Speed, ac.Heading, aircraft.StateStringMap[ac.State])
	if ac.HasEmergency {
		tagText += fmt.Sprintf("\nMAYDAY %.0fs", ac.EmergencyTimeRemaining)
	}
	ebitenutil.DebugPrintAt(screen, tagText, int(screenX)+10, int(screenY)-20)

	if ac.IsConflicting {
		vector.DrawFilledCircle(screen, float32(screenX), float32(screenY), float32(20*g.camera.Scale), colorConflict, false)
	}
}

func (g *Game) drawAirspace(screen *ebiten.Image) {
	as := g.sim.Airspace
	ap := as.Airport

	cx, cy := g.worldToScreen(ap.Center.X, ap.Center.Y)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(ap.SpawnRadius*g.camera.Scale), 1, colorBoundary, false)

	for _, pv := range ap.Pavements {
		a, b := as.Position(pv.Ends[0]), as.Position(pv.Ends[1])
		ax, ay := g.worldToScreen(a.X, a.Y)
		bx, by := g.worldToScreen(b.X, b.Y)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), float32(6*g.camera.Scale), colorRunway, false)
	}

	for _, t := range []types.WaypointType{types.Runway, types.Gate} {
		for _, wp := range as.WaypointsOfType(t) {
			screenX, screenY := g.worldToScreen(wp.Position.X, wp.Position.Y)
			vector.DrawFilledCircle(screen, float32(screenX), float32(screenY), float32(3*g.camera.Scale), colorWaypoint, false)
			ebitenutil.DebugPrintAt(screen, wp.Name, int(screenX)+5, int(screenY)+5)
		}
	}
}

func (g *Game) drawUI(screen *ebiten.Image) {
	s := g.sim.Session
	status := fmt.Sprintf("%s  %s  landed %d  departed %d  missed %d", g.sim.Airspace.Airport.ID, s.FormatElapsed(),
		s.Landings, s.Departures, s.Missed)
	if g.sim.IsPaused() {
		status += "  [PAUSED]"
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 20)

	selectedAcText := "Selected: None"
	if sel := g.sim.Dispatcher.Selected(); sel != nil {
		selectedAcText = "Selected: " + string(sel.Callsign())
	}
	ebitenutil.DebugPrintAt(screen, selectedAcText, 10, panelY-20)

	if g.sim.Display.CommandPanelVisible {
		g.commandSel.Draw(screen)
		g.subSel.Draw(screen)
		g.locationSel.Draw(screen)
		g.sendButton.Draw(screen)
	}
	g.callsignBox.Draw(screen)

	if p := g.sim.Display.Panel; p.Visible {
		clr := color.RGBA{20, 20, 20, 220}
		if p.Kind == comms.Notice {
			clr = color.RGBA{90, 60, 0, 220}
		}
		vector.DrawFilledRect(screen, 200, 40, float32(g.width-400), 30, clr, false)
		ebitenutil.DebugPrintAt(screen, p.Text, 210, 47)
	}

	radio := g.sim.RadioLog
	if len(radio) > 8 {
		radio = radio[len(radio)-8:]
	}
	for i, msg := range radio {
		line := msg.Message
		if msg.IsUrgent {
			line = "!! " + line
		}
		ebitenutil.DebugPrintAt(screen, line, g.width-360, 20+16*i)
	}

	if s.IsOver() {
		vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height), color.RGBA{0, 0, 0, 160}, false)
		msg := fmt.Sprintf("%s\n\nTime %s  landed %d  departed %d\n\nPress R to play again", s.EndReason.Describe(),
			s.FormatElapsed(), s.Landings, s.Departures)
		ebitenutil.DebugPrintAt(screen, msg, g.width/2-120, g.height/2-40)
	}
}

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img
}()

func main() {
	settings, err := config.Parse("atc-client", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	closer, err := logging.Setup(settings.LogLevel, settings.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	sim, err := simulation.NewSimulation(settings)
	if err != nil {
		log.Fatal(err)
	}
	defer sim.Teardown()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("ATC Tower - %s", sim.Airspace.Airport.Name))
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(int(math.Round(settings.TickRate)))

	if err := ebiten.RunGame(NewGame(sim, screenWidth, screenHeight)); err != nil {
		log.Fatal(err)
	}
}
