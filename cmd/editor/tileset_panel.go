package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilemap/editor"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/milk9111/tilemap/tileset"
)

// headerHeight leaves room for the tile-set name and key hints.
const headerHeight = 40

// TilesetPanel shows the selected tile set and turns clicks on it into brush
// selections.
type TilesetPanel struct {
	session *editor.Session
	images  *tileset.Provider

	// uploaded caches one ebiten image per decoded source image.
	uploaded map[tilemap.TileSetID]uploadedImage
	scrollY  int
	dragging bool
}

type uploadedImage struct {
	src image.Image
	img *ebiten.Image
}

func NewTilesetPanel(session *editor.Session, images *tileset.Provider) *TilesetPanel {
	return &TilesetPanel{
		session:  session,
		images:   images,
		uploaded: make(map[tilemap.TileSetID]uploadedImage),
	}
}

func (p *TilesetPanel) tileSetImage(id tilemap.TileSetID) *ebiten.Image {
	src := p.images.TileSetImage(id)
	if src == nil {
		delete(p.uploaded, id)
		return nil
	}
	if u, ok := p.uploaded[id]; ok && u.src == src {
		return u.img
	}
	img := ebiten.NewImageFromImage(src)
	p.uploaded[id] = uploadedImage{src: src, img: img}
	return img
}

// Cycle selects the next (delta > 0) or previous tile set.
func (p *TilesetPanel) Cycle(delta int) {
	ids := p.session.Map().TileSetIDs()
	if len(ids) == 0 {
		return
	}
	current := 0
	for i, id := range ids {
		if id == p.session.SelectedTileSet() {
			current = i
			break
		}
	}
	next := ((current+delta)%len(ids) + len(ids)) % len(ids)
	p.session.SelectTileSet(ids[next])
	p.scrollY = 0
}

// imagePoint maps a screen point inside bounds to tile-set pixels.
func (p *TilesetPanel) imagePoint(bounds image.Rectangle, x, y int) (int, int, bool) {
	origin := image.Pt(bounds.Min.X+8, bounds.Min.Y+headerHeight-p.scrollY)
	px, py := x-origin.X, y-origin.Y
	img := p.tileSetImage(p.session.SelectedTileSet())
	if img == nil {
		return 0, 0, false
	}
	size := img.Bounds().Size()
	if px < 0 || py < 0 || px >= size.X || py >= size.Y {
		return px, py, false
	}
	return px, py, true
}

// Update handles input inside bounds and reports whether the pointer is over
// the panel.
func (p *TilesetPanel) Update(bounds image.Rectangle) bool {
	x, y := ebiten.CursorPosition()
	over := image.Pt(x, y).In(bounds)
	if !over {
		p.dragging = false
		return false
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		p.scrollY = max(p.scrollY-int(wy*24), 0)
	}

	px, py, inside := p.imagePoint(bounds, x, y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inside:
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			p.session.ExpandTileSetSelection(px, py)
		} else {
			p.session.SelectTileSetTile(px, py)
		}
		p.dragging = true
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		p.session.ClearTileSetSelection()
	case p.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		p.session.ExpandTileSetSelection(px, py)
	case !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		p.dragging = false
	}
	return true
}

func (p *TilesetPanel) Draw(screen *ebiten.Image, bounds image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(bounds.Min.X), float64(bounds.Min.Y), float64(bounds.Dx()), float64(bounds.Dy()), panelBackground)

	id := p.session.SelectedTileSet()
	ts, ok := p.session.Map().TileSets[id]
	if !ok {
		ebitenutil.DebugPrintAt(screen, "No tile set", bounds.Min.X+8, bounds.Min.Y+4)
		return
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%d)", ts.Name, id), bounds.Min.X+8, bounds.Min.Y+4)
	ebitenutil.DebugPrintAt(screen, "[ ] switch, shift-click extends", bounds.Min.X+8, bounds.Min.Y+20)

	img := p.tileSetImage(id)
	if img == nil {
		ebitenutil.DebugPrintAt(screen, "Loading...", bounds.Min.X+8, bounds.Min.Y+headerHeight)
		return
	}
	ox := float64(bounds.Min.X + 8)
	oy := float64(bounds.Min.Y + headerHeight - p.scrollY)
	panel := screen.SubImage(image.Rect(bounds.Min.X, bounds.Min.Y+headerHeight, bounds.Max.X, bounds.Max.Y)).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(ox, oy)
	panel.DrawImage(img, op)

	if sel, ok := p.session.TileSetSelection(); ok {
		vector.StrokeRect(panel, float32(ox)+float32(sel.X), float32(oy)+float32(sel.Y),
			float32(sel.Width), float32(sel.Height), 2, color.RGBA{R: 255, G: 200, B: 0, A: 255}, false)
	}
}
