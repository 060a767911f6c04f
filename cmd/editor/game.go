package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/tilemap/editor"
	"github.com/milk9111/tilemap/persistence"
	"github.com/milk9111/tilemap/tileset"
	"github.com/sirupsen/logrus"
)

// errQuit ends RunGame without reporting a failure.
var errQuit = errors.New("editor: quit")

var canvasBackground = color.RGBA{R: 18, G: 18, B: 24, A: 255}

// Game hosts one editing session in an Ebiten window: the tool bar on top,
// the map canvas below it and the tile-set panel on the right.
type Game struct {
	ctx     context.Context
	session *editor.Session
	images  *tileset.Provider
	saver   *persistence.Saver
	watcher *tileset.Watcher
	clip    *osClipboard
	log     logrus.FieldLogger

	ui      *ebitenui.UI
	toolBar *ToolBar
	panel   *TilesetPanel

	canvas        *ebiten.Image
	width, height int

	pointer pointerState
}

func NewGame(ctx context.Context, session *editor.Session, images *tileset.Provider, saver *persistence.Saver, watcher *tileset.Watcher, clip *osClipboard, log logrus.FieldLogger) *Game {
	g := &Game{
		ctx:     ctx,
		session: session,
		images:  images,
		saver:   saver,
		watcher: watcher,
		clip:    clip,
		log:     log,
		panel:   NewTilesetPanel(session, images),
	}

	g.ui, g.toolBar = BuildEditorUI(toolbarActions{
		toolSelected:    session.ChangeTool,
		levelDown:       session.DecrementLevel,
		levelUp:         session.IncrementLevel,
		toggleGrid:      session.ToggleGrid,
		toggleOnlyLevel: session.ToggleRenderOnlyCurrentLevel,
		zoomOut:         session.ZoomOut,
		zoomIn:          session.ZoomIn,
		newMap:          g.newMap,
	}, session.Tool())
	g.toolBar.SetLevel(session.Level())
	g.toolBar.SetFlags(session.GridShown(), session.RenderOnlyCurrentLevel())

	session.OnChange(func(e editor.Event) {
		switch e.Kind {
		case editor.ToolChanged:
			g.toolBar.SetTool(e.Tool)
		case editor.LevelChanged:
			g.toolBar.SetLevel(e.Level)
		case editor.MapReplaced:
			g.toolBar.SetLevel(e.Level)
			g.images.Sync(g.ctx, g.session.Map())
		case editor.MapEdited:
			g.images.Sync(g.ctx, g.session.Map())
		}
	})
	return g
}

func (g *Game) canvasBounds() image.Rectangle {
	return image.Rect(0, toolbarHeight, max(g.width-panelWidth, 1), max(g.height, toolbarHeight+1))
}

func (g *Game) panelBounds() image.Rectangle {
	return image.Rect(max(g.width-panelWidth, 1), toolbarHeight, g.width, g.height)
}

func (g *Game) newMap() {
	if err := g.session.NewMap(); err != nil {
		g.log.WithError(err).Error("editor: could not create a new map")
	}
}

func (g *Game) Update() error {
	g.ui.Update()

	canvas := g.canvasBounds()
	g.session.Resize(canvas.Dx(), canvas.Dy())

	for _, id := range g.images.Poll() {
		g.session.RefreshTileSet(id)
	}
	g.drainWatcher()

	if err := g.handleKeys(); err != nil {
		return err
	}
	if g.panel.Update(g.panelBounds()) {
		g.pointerLeft()
	} else {
		g.handlePointer(canvas)
	}
	g.toolBar.SetFlags(g.session.GridShown(), g.session.RenderOnlyCurrentLevel())
	g.saver.Poll(g.ctx)
	return nil
}

// drainWatcher applies tile-set files edited on disk. A file whose name matches
// a registered tile set replaces its content; other images are added.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reloadTileSet(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.WithError(err).Warn("editor: tile-set watcher error")
			}
		default:
			return
		}
	}
}

func (g *Game) reloadTileSet(path string) {
	ts, err := tileset.LoadFile(path)
	if err != nil {
		g.log.WithError(err).WithField("path", path).Warn("editor: could not reload tile set")
		return
	}
	if _, err := tileset.Decode(ts.Content); err != nil {
		g.log.WithError(err).WithField("path", path).Warn("editor: changed tile set is not a readable image")
		return
	}
	m := g.session.Map()
	for _, id := range m.TileSetIDs() {
		if m.TileSets[id].Name == filepath.Base(path) {
			if g.session.ReplaceTileSetContent(id, ts.Content) {
				g.log.WithFields(logrus.Fields{"tileSet": id, "path": path}).Info("editor: tile set reloaded")
			}
			return
		}
	}
	g.session.AddTileSet(ts)
}

// upload copies the rendered surface into the canvas image when it changed.
func (g *Game) upload() {
	r := g.session.Renderer()
	surface := r.Surface()
	size := surface.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return
	}
	if g.canvas == nil || g.canvas.Bounds().Size() != size {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(size.X, size.Y)
	} else if !r.Dirty() {
		return
	}
	g.canvas.WritePixels(surface.Pix)
	r.ClearDirty()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(canvasBackground)
	g.upload()

	canvas := g.canvasBounds()
	if g.canvas != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(canvas.Min.X), float64(canvas.Min.Y))
		screen.DrawImage(g.canvas, op)
	}
	g.panel.Draw(screen, g.panelBounds())

	status := fmt.Sprintf("%s  level %d  zoom %.2fx", g.session.Tool(), g.session.Level(), g.session.Viewport().Scale)
	if g.session.InPasteMode() {
		status += "  PASTE (esc cancels)"
	}
	if g.session.DragMode() {
		status += "  DRAG"
	}
	if g.saver.Pending() {
		status += "  *"
	}
	ebitenutil.DebugPrintAt(screen, status, canvas.Min.X+8, canvas.Max.Y-20)

	g.ui.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
