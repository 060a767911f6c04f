package viewport

import (
	"image"
	"math"
	"math/big"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
)

// prec is the mantissa precision used for pixel math on big offsets.
const prec = 256

// DefaultZoomSteps are the discrete scales ZoomIn and ZoomOut walk through.
var DefaultZoomSteps = []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4, 5}

// Change describes how a viewport mutation moved the content on screen. A
// renderer can reuse retained pixels for pure pans; Rescaled forces a full
// repaint.
type Change struct {
	DX, DY   int
	Rescaled bool
}

// IsZero reports whether nothing moved.
func (c Change) IsZero() bool {
	return c.DX == 0 && c.DY == 0 && !c.Rescaled
}

// Merge folds a later change into c.
func (c Change) Merge(o Change) Change {
	return Change{DX: c.DX + o.DX, DY: c.DY + o.DY, Rescaled: c.Rescaled || o.Rescaled}
}

// Viewport maps world cells to screen pixels:
//
//	screen = cell * tileSize * Scale - offset
//
// X and Y are the pixel offset of the world origin at the current scale.
type Viewport struct {
	X, Y     *big.Int
	Scale    float64
	TileSize tilemap.Size
	Width    int
	Height   int
	Steps    []float64
}

// New returns a viewport at the origin with scale 1.
func New(tileSize tilemap.Size, width, height int) *Viewport {
	return &Viewport{
		X:        new(big.Int),
		Y:        new(big.Int),
		Scale:    1,
		TileSize: tileSize,
		Width:    width,
		Height:   height,
		Steps:    DefaultZoomSteps,
	}
}

// Clone returns an independent copy.
func (v *Viewport) Clone() *Viewport {
	out := *v
	out.X = new(big.Int).Set(v.X)
	out.Y = new(big.Int).Set(v.Y)
	return &out
}

// ScaledTileSize is the on-screen size of one cell.
func (v *Viewport) ScaledTileSize() (w, h float64) {
	return float64(v.TileSize.Width) * v.Scale, float64(v.TileSize.Height) * v.Scale
}

func axisToScreen(index *big.Int, scaledTile float64, offset *big.Int) float64 {
	f := new(big.Float).SetPrec(prec).SetInt(index)
	f.Mul(f, big.NewFloat(scaledTile))
	f.Sub(f, new(big.Float).SetPrec(prec).SetInt(offset))
	x, _ := f.Float64()
	return x
}

func axisToCell(pixel float64, offset *big.Int, scaledTile float64) *big.Int {
	f := new(big.Float).SetPrec(prec).SetInt(offset)
	f.Add(f, big.NewFloat(pixel))
	return common.FloorQuo(f, scaledTile)
}

// CellToScreen returns the screen position of pos's top-left corner.
func (v *Viewport) CellToScreen(pos common.CellPosition) (x, y float64) {
	tw, th := v.ScaledTileSize()
	return axisToScreen(pos.Column, tw, v.X), axisToScreen(pos.Row, th, v.Y)
}

// ScreenToCell returns the cell under the screen pixel (x, y), flooring
// toward negative infinity on both axes.
func (v *Viewport) ScreenToCell(x, y float64) common.CellPosition {
	tw, th := v.ScaledTileSize()
	return common.CellPosition{
		Row:    axisToCell(y, v.Y, th),
		Column: axisToCell(x, v.X, tw),
	}
}

// CellRect is the screen rectangle covered by pos. Adjacent cells share their
// edges so tiling never leaves gaps at fractional scales.
func (v *Viewport) CellRect(pos common.CellPosition) image.Rectangle {
	x0, y0 := v.CellToScreen(pos)
	x1, y1 := v.CellToScreen(pos.Offset(1, 1))
	return image.Rect(clampPixel(x0), clampPixel(y0), clampPixel(x1), clampPixel(y1))
}

// AreaRect is the screen rectangle covered by the inclusive cell rectangle a.
func (v *Viewport) AreaRect(a common.FromTo) image.Rectangle {
	x0, y0 := v.CellToScreen(a.From)
	x1, y1 := v.CellToScreen(a.To.Offset(1, 1))
	return image.Rect(clampPixel(x0), clampPixel(y0), clampPixel(x1), clampPixel(y1))
}

// clampPixel floors x and keeps cells far off screen within int range.
func clampPixel(x float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(x):
		return 0
	case x < -limit:
		return -limit
	case x > limit:
		return limit
	}
	return int(math.Floor(x))
}

// Bounds is the screen rectangle.
func (v *Viewport) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.Width, v.Height)
}

// Pan moves the content with the pointer by (dx, dy) screen pixels.
func (v *Viewport) Pan(dx, dy int) Change {
	if dx == 0 && dy == 0 {
		return Change{}
	}
	v.X.Sub(v.X, big.NewInt(int64(dx)))
	v.Y.Sub(v.Y, big.NewInt(int64(dy)))
	return Change{DX: dx, DY: dy}
}

// ZoomAt changes the scale keeping the world point under (px, py) fixed on
// screen. The pointer's fractional offset inside its cell is carried over to
// the new scale and the offset is solved so the point does not jump.
func (v *Viewport) ZoomAt(scale, px, py float64) Change {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) || scale == v.Scale {
		return Change{}
	}
	cell := v.ScreenToCell(px, py)
	oldX, oldY := v.CellToScreen(cell)
	otw, oth := v.ScaledTileSize()
	fracX := (px - oldX) / otw
	fracY := (py - oldY) / oth

	v.Scale = scale
	ntw, nth := v.ScaledTileSize()
	v.X = solveOffset(cell.Column, ntw, px-fracX*ntw)
	v.Y = solveOffset(cell.Row, nth, py-fracY*nth)
	return Change{Rescaled: true}
}

// solveOffset returns the offset that puts index's origin at screen.
func solveOffset(index *big.Int, scaledTile, screen float64) *big.Int {
	f := new(big.Float).SetPrec(prec).SetInt(index)
	f.Mul(f, big.NewFloat(scaledTile))
	f.Sub(f, big.NewFloat(screen))
	// round half away from zero
	if f.Sign() < 0 {
		f.Sub(f, big.NewFloat(0.5))
	} else {
		f.Add(f, big.NewFloat(0.5))
	}
	i, _ := f.Int(nil)
	return i
}

func (v *Viewport) steps() []float64 {
	if len(v.Steps) == 0 {
		return DefaultZoomSteps
	}
	return v.Steps
}

// ZoomIn moves to the step after the one closest to the current scale.
func (v *Viewport) ZoomIn(px, py float64) Change {
	steps := v.steps()
	i := common.FindIndexOfClosest(steps, v.Scale)
	return v.ZoomAt(steps[min(i+1, len(steps)-1)], px, py)
}

// ZoomOut moves to the step before the one closest to the current scale.
func (v *Viewport) ZoomOut(px, py float64) Change {
	steps := v.steps()
	i := common.FindIndexOfClosest(steps, v.Scale)
	return v.ZoomAt(steps[max(i-1, 0)], px, py)
}

// ResetZoom returns to scale 1.
func (v *Viewport) ResetZoom(px, py float64) Change {
	return v.ZoomAt(1, px, py)
}

// VisibleArea is the inclusive range of cells touching the screen.
func (v *Viewport) VisibleArea() common.FromTo {
	return common.FromTo{
		From: v.ScreenToCell(0, 0),
		To:   v.ScreenToCell(float64(v.Width-1), float64(v.Height-1)),
	}
}

// CellsIn is the inclusive range of cells touching the screen rectangle r.
func (v *Viewport) CellsIn(r image.Rectangle) common.FromTo {
	return common.FromTo{
		From: v.ScreenToCell(float64(r.Min.X), float64(r.Min.Y)),
		To:   v.ScreenToCell(float64(r.Max.X-1), float64(r.Max.Y-1)),
	}
}

// IsCellVisible reports whether pos's top-left corner lies on screen.
func (v *Viewport) IsCellVisible(pos common.CellPosition) bool {
	x, y := v.CellToScreen(pos)
	return x >= 0 && x < float64(v.Width) && y >= 0 && y < float64(v.Height)
}

// Resize changes the screen size. Content does not move.
func (v *Viewport) Resize(width, height int) {
	v.Width = width
	v.Height = height
}

// SetTileSize switches to the tile size of a newly loaded map.
func (v *Viewport) SetTileSize(size tilemap.Size) Change {
	if v.TileSize == size {
		return Change{}
	}
	v.TileSize = size
	return Change{Rescaled: true}
}
