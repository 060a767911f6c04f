package render

import (
	"image"
	"image/color"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/milk9111/tilemap/viewport"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
	xdraw "golang.org/x/image/draw"
)

// Source is the editor state a render pass reads. The renderer never mutates
// it.
type Source interface {
	Map() *tilemap.TileMap
	Viewport() *viewport.Viewport
	Level() int
	RenderOnlyCurrentLevel() bool
	GridShown() bool
}

// Options tunes the renderer.
type Options struct {
	// UpperLevelAlpha is the opacity of levels above the current one.
	UpperLevelAlpha float64
	// GridThinThreshold is the scaled tile size below which grid lines are
	// drawn 1px wide instead of 2px.
	GridThinThreshold float64
	// CacheBytes bounds the tile raster cache.
	CacheBytes int64

	EmptyColor     color.Color
	GridColor      color.Color
	SelectionColor color.Color
	HoverColor     color.Color
}

// DefaultOptions mirrors the editor's stock look.
func DefaultOptions() Options {
	return Options{
		UpperLevelAlpha:   0.4,
		GridThinThreshold: 16,
		CacheBytes:        64 << 20,
		EmptyColor:        colornames.White,
		GridColor:         colornames.Black,
		SelectionColor:    colornames.Dodgerblue,
		HoverColor:        colornames.Orange,
	}
}

// Renderer draws the visible part of the map into an off-screen surface.
type Renderer struct {
	src    Source
	images ImageSource
	cache  *TileCache
	opts   Options
	log    logrus.FieldLogger

	surface *image.RGBA
	dirty   bool
}

// New creates a renderer sized to src's viewport.
func New(src Source, images ImageSource, opts Options, log logrus.FieldLogger) (*Renderer, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	def := DefaultOptions()
	if opts.UpperLevelAlpha <= 0 {
		opts.UpperLevelAlpha = def.UpperLevelAlpha
	}
	if opts.GridThinThreshold <= 0 {
		opts.GridThinThreshold = def.GridThinThreshold
	}
	if opts.EmptyColor == nil {
		opts.EmptyColor = def.EmptyColor
	}
	if opts.GridColor == nil {
		opts.GridColor = def.GridColor
	}
	if opts.SelectionColor == nil {
		opts.SelectionColor = def.SelectionColor
	}
	if opts.HoverColor == nil {
		opts.HoverColor = def.HoverColor
	}
	cache, err := NewTileCache(opts.CacheBytes)
	if err != nil {
		return nil, err
	}
	r := &Renderer{src: src, images: images, cache: cache, opts: opts, log: log}
	r.fitSurface()
	return r, nil
}

// Close releases the tile cache.
func (r *Renderer) Close() {
	r.cache.Close()
}

// Surface is the image the host presents.
func (r *Renderer) Surface() *image.RGBA {
	return r.surface
}

// Dirty reports whether the surface changed since ClearDirty.
func (r *Renderer) Dirty() bool {
	return r.dirty
}

func (r *Renderer) ClearDirty() {
	r.dirty = false
}

// SetImageSource swaps the tile-set image provider.
func (r *Renderer) SetImageSource(images ImageSource) {
	r.images = images
	r.cache.Clear()
}

// InvalidateTileSet forgets cached rasters of id, e.g. after its image changed.
func (r *Renderer) InvalidateTileSet(id tilemap.TileSetID) {
	r.cache.Invalidate(id)
}

// fitSurface reallocates the surface when the viewport size changed and
// reports whether it did.
func (r *Renderer) fitSurface() bool {
	vp := r.src.Viewport()
	want := image.Rect(0, 0, max(vp.Width, 0), max(vp.Height, 0))
	if r.surface != nil && r.surface.Bounds() == want {
		return false
	}
	r.surface = image.NewRGBA(want)
	r.dirty = true
	return true
}

// RenderTile repaints one cell. A non-nil replacement at a level is drawn
// instead of the stored tile; nil entries fall back to the cell's own tile.
func (r *Renderer) RenderTile(pos common.CellPosition, replacements tilemap.MultiLayerTile) {
	r.renderTile(pos, replacements, r.surface.Bounds())
	r.dirty = true
}

func (r *Renderer) renderTile(pos common.CellPosition, replacements tilemap.MultiLayerTile, clip image.Rectangle) {
	vp := r.src.Viewport()
	cellRect := vp.CellRect(pos)
	clip = clip.Intersect(cellRect).Intersect(r.surface.Bounds())
	if clip.Empty() {
		return
	}
	dst := r.surface.SubImage(clip).(*image.RGBA)
	xdraw.Draw(dst, clip, image.NewUniform(r.opts.EmptyColor), image.Point{}, xdraw.Src)

	m := r.src.Map()
	current := r.src.Level()
	cell := m.RetrieveMultiLayerTile(pos)

	drawLevel := func(level int) {
		t := replacements.At(level)
		if t == nil {
			t = cell.At(level)
		}
		if t == nil {
			return
		}
		img := r.cache.Tile(r.images, *t, m.TileSize)
		if img == nil {
			return
		}
		var opts *xdraw.Options
		if level > current && r.opts.UpperLevelAlpha < 1 {
			opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha16{A: uint16(r.opts.UpperLevelAlpha * 0xffff)})}
		}
		xdraw.NearestNeighbor.Scale(dst, cellRect, img, img.Bounds(), xdraw.Over, opts)
	}

	if r.src.RenderOnlyCurrentLevel() {
		drawLevel(current)
		return
	}
	for level := 0; level <= max(len(cell)-1, current); level++ {
		drawLevel(level)
	}
}

// RenderArea repaints the inclusive cell rectangle a and the grid over it.
func (r *Renderer) RenderArea(a common.FromTo) {
	rect := r.src.Viewport().AreaRect(a).Intersect(r.surface.Bounds())
	if rect.Empty() {
		return
	}
	r.repaint(rect)
}

// RenderAll repaints the whole surface.
func (r *Renderer) RenderAll() {
	r.fitSurface()
	r.repaint(r.surface.Bounds())
}

// repaint redraws every cell touching rect, clipped to rect, then the grid.
func (r *Renderer) repaint(rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	cells := r.src.Viewport().CellsIn(rect).CellArea()
	cells.Each(func(_, pos common.CellPosition) bool {
		r.renderTile(pos, nil, rect)
		return true
	})
	r.RenderGrid(rect)
	r.dirty = true
}

// RenderGrid draws cell boundary lines inside rect when the grid is shown.
func (r *Renderer) RenderGrid(rect image.Rectangle) {
	if !r.src.GridShown() {
		return
	}
	rect = rect.Intersect(r.surface.Bounds())
	if rect.Empty() {
		return
	}
	vp := r.src.Viewport()
	tw, th := vp.ScaledTileSize()
	thin := tw < r.opts.GridThinThreshold || th < r.opts.GridThinThreshold
	line := func(at int) (int, int) {
		if thin {
			return at, at + 1
		}
		return at - 1, at + 1
	}
	ink := image.NewUniform(r.opts.GridColor)
	cells := vp.CellsIn(rect)
	first := cells.From
	for k := int64(0); ; k++ {
		x := vp.CellRect(first.Offset(0, k)).Min.X
		if x > rect.Max.X {
			break
		}
		x0, x1 := line(x)
		band := image.Rect(x0, rect.Min.Y, x1, rect.Max.Y).Intersect(rect)
		xdraw.Draw(r.surface, band, ink, image.Point{}, xdraw.Src)
	}
	for k := int64(0); ; k++ {
		y := vp.CellRect(first.Offset(k, 0)).Min.Y
		if y > rect.Max.Y {
			break
		}
		y0, y1 := line(y)
		band := image.Rect(rect.Min.X, y0, rect.Max.X, y1).Intersect(rect)
		xdraw.Draw(r.surface, band, ink, image.Point{}, xdraw.Src)
	}
	r.dirty = true
}

// Apply brings the surface up to date after the viewport changed. Pans reuse
// the retained pixels and repaint only the exposed strips; rescales, resizes
// and pans larger than the surface repaint everything.
func (r *Renderer) Apply(change viewport.Change) {
	if r.fitSurface() || change.Rescaled {
		r.RenderAll()
		return
	}
	if change.DX == 0 && change.DY == 0 {
		return
	}
	b := r.surface.Bounds()
	dx, dy := change.DX, change.DY
	if abs(dx) >= b.Dx() || abs(dy) >= b.Dy() {
		r.log.WithFields(logrus.Fields{"dx": dx, "dy": dy}).Debug("render: pan exceeds surface, repainting")
		r.RenderAll()
		return
	}

	d := image.Pt(dx, dy)
	kept := b.Intersect(b.Add(d))
	xdraw.Copy(r.surface, kept.Min, r.surface, kept.Sub(d), xdraw.Src, nil)

	// exposed columns, exposed rows minus the shared corner, then the corner
	var columns, rowsStrip, corner image.Rectangle
	switch {
	case dx > 0:
		columns = image.Rect(b.Min.X, kept.Min.Y, kept.Min.X, kept.Max.Y)
	case dx < 0:
		columns = image.Rect(kept.Max.X, kept.Min.Y, b.Max.X, kept.Max.Y)
	}
	switch {
	case dy > 0:
		rowsStrip = image.Rect(kept.Min.X, b.Min.Y, kept.Max.X, kept.Min.Y)
	case dy < 0:
		rowsStrip = image.Rect(kept.Min.X, kept.Max.Y, kept.Max.X, b.Max.Y)
	}
	if dx != 0 && dy != 0 {
		corner = image.Rect(columns.Min.X, rowsStrip.Min.Y, columns.Max.X, rowsStrip.Max.Y)
	}
	for _, strip := range []image.Rectangle{columns, rowsStrip, corner} {
		r.repaint(strip)
	}
	r.dirty = true
}

// RenderSelection outlines the cell rectangle a.
func (r *Renderer) RenderSelection(a common.CellArea) {
	r.outline(a, r.opts.SelectionColor)
}

// RenderHover outlines the cell rectangle a in the hover colour.
func (r *Renderer) RenderHover(a common.CellArea) {
	r.outline(a, r.opts.HoverColor)
}

func (r *Renderer) outline(a common.CellArea, c color.Color) {
	rect := r.src.Viewport().AreaRect(a.FromTo())
	if rect.Intersect(r.surface.Bounds()).Empty() {
		return
	}
	const w = 2
	ink := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+w),
		image.Rect(rect.Min.X, rect.Max.Y-w, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+w, rect.Max.Y),
		image.Rect(rect.Max.X-w, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		xdraw.Draw(r.surface, e.Intersect(r.surface.Bounds()), ink, image.Point{}, xdraw.Src)
	}
	r.dirty = true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
