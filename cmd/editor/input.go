package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilemap/editor"
)

type pointerState struct {
	inside bool
	down   bool
	// panning is a middle-button drag, which pans regardless of the tool.
	panning bool
	x, y    int
}

// handlePointer forwards mouse input over the canvas to the session in canvas
// coordinates.
func (g *Game) handlePointer(canvas image.Rectangle) {
	cx, cy := ebiten.CursorPosition()
	x, y := cx-canvas.Min.X, cy-canvas.Min.Y
	inside := image.Pt(cx, cy).In(canvas)
	p := &g.pointer

	if !inside && !p.down && !p.panning {
		g.pointerLeft()
		return
	}
	dx, dy := x-p.x, y-p.y
	moved := !p.inside || dx != 0 || dy != 0
	p.inside = true
	p.x, p.y = x, y

	if moved {
		if p.panning {
			g.session.Pan(dx, dy)
		}
		g.session.PointerMove(float64(x), float64(y), dx, dy)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		p.panning = true
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle):
		p.panning = false
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inside {
		p.down = true
		g.session.PointerDown(float64(x), float64(y))
	} else if p.down && !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		p.down = false
		g.session.PointerUp()
	}

	if _, wy := ebiten.Wheel(); wy != 0 && inside {
		if wy > 0 {
			g.session.ZoomIn()
		} else {
			g.session.ZoomOut()
		}
	}
}

func (g *Game) pointerLeft() {
	p := &g.pointer
	if p.down {
		p.down = false
		g.session.PointerUp()
	}
	p.panning = false
	if p.inside {
		p.inside = false
		g.session.PointerLeave()
	}
}

func pressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

var toolKeys = map[ebiten.Key]editor.Tool{
	ebiten.KeyP: editor.ToolPen,
	ebiten.KeyA: editor.ToolArea,
	ebiten.KeyF: editor.ToolFill,
	ebiten.KeyS: editor.ToolSelection,
}

// handleKeys applies keyboard shortcuts.
func (g *Game) handleKeys() error {
	s := g.session
	ctrl := pressed(ebiten.KeyControl, ebiten.KeyMeta)
	alt := pressed(ebiten.KeyAlt)
	just := inpututil.IsKeyJustPressed

	s.SetDragMode(pressed(ebiten.KeySpace))

	if ctrl {
		switch {
		case just(ebiten.KeyQ):
			return errQuit
		case just(ebiten.KeyZ):
			s.Undo()
		case just(ebiten.KeyC):
			if s.Copy() {
				g.exportClipboard()
			}
		case just(ebiten.KeyX):
			if s.Cut() {
				g.exportClipboard()
			}
		case just(ebiten.KeyV):
			g.importClipboard()
			s.Paste()
		case just(ebiten.KeyS):
			if err := g.saver.Flush(g.ctx); err == nil {
				g.log.Info("editor: map saved")
			}
		case just(ebiten.KeyN) && alt:
			g.newMap()
		case just(ebiten.KeyArrowUp):
			s.IncrementLevel()
		case just(ebiten.KeyArrowDown):
			s.DecrementLevel()
		}
		return nil
	}

	for key, tool := range toolKeys {
		if just(key) {
			s.ChangeTool(tool)
		}
	}
	switch {
	case just(ebiten.KeyG):
		s.ToggleGrid()
	case just(ebiten.KeyC):
		s.ToggleRenderOnlyCurrentLevel()
	case just(ebiten.KeyEscape):
		if !s.CancelPaste() {
			s.ClearSelection()
		}
	case just(ebiten.KeyDelete), just(ebiten.KeyBackspace):
		s.Delete()
	case just(ebiten.KeyEqual), just(ebiten.KeyNumpadAdd):
		s.ZoomIn()
	case just(ebiten.KeyMinus), just(ebiten.KeyNumpadSubtract):
		s.ZoomOut()
	case just(ebiten.KeyDigit0), just(ebiten.KeyNumpad0):
		s.ResetZoom()
	case just(ebiten.KeyBracketLeft):
		g.panel.Cycle(-1)
	case just(ebiten.KeyBracketRight):
		g.panel.Cycle(1)
	}
	return nil
}

func (g *Game) exportClipboard() {
	data, err := g.session.ClipboardJSON()
	if err != nil {
		g.log.WithError(err).Debug("editor: clipboard not exported")
		return
	}
	g.clip.Write(data)
}

// importClipboard adopts a clip copied by another editor instance. Anything
// else on the system clipboard is ignored.
func (g *Game) importClipboard() {
	data := g.clip.Read()
	if data == nil {
		return
	}
	if err := g.session.SetClipboardFromJSON(data); err != nil {
		g.log.WithError(err).Debug("editor: system clipboard does not hold a clip")
	}
}
