package viewport

import (
	"math"
	"math/big"
	"testing"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
)

func bigString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big int %q", s)
	}
	return v
}

func TestScreenToCellFloorsTowardNegativeInfinity(t *testing.T) {
	v := New(tilemap.Size{Width: 32, Height: 32}, 640, 480)
	cases := []struct {
		x, y        float64
		row, column int64
	}{
		{0, 0, 0, 0},
		{31.9, 31.9, 0, 0},
		{32, 0, 0, 1},
		{-0.5, -0.5, -1, -1},
		{-32, -33, -2, -1},
		{-64.1, 0, 0, -3},
	}
	for _, c := range cases {
		got := v.ScreenToCell(c.x, c.y)
		if !got.Equal(common.NewCellPosition(c.row, c.column)) {
			t.Fatalf("ScreenToCell(%v, %v) = %v, want (%d, %d)", c.x, c.y, got, c.row, c.column)
		}
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	offsets := []string{"0", "-37", "45", "1000000000000000000000000000007", "-999999999999999999999999999991"}
	for _, scale := range DefaultZoomSteps {
		for _, offset := range offsets {
			v := New(tilemap.Size{Width: 32, Height: 24}, 800, 600)
			v.Scale = scale
			v.X = bigString(t, offset)
			v.Y = new(big.Int).Neg(bigString(t, offset))
			tw, th := v.ScaledTileSize()
			for px := -400.0; px <= 400; px += 37 {
				for py := -300.0; py <= 300; py += 41 {
					cell := v.ScreenToCell(px, py)
					x, y := v.CellToScreen(cell)
					if px < x || px >= x+tw || py < y || py >= y+th {
						t.Fatalf("scale=%v offset=%s: pixel (%v,%v) outside footprint of %v at (%v,%v)", scale, offset, px, py, cell, x, y)
					}
					inside := v.ScreenToCell(x+tw/2, y+th/2)
					if !inside.Equal(cell) {
						t.Fatalf("scale=%v offset=%s: round trip %v -> %v", scale, offset, cell, inside)
					}
				}
			}
		}
	}
}

func TestPanMovesContentWithPointer(t *testing.T) {
	v := New(tilemap.Size{Width: 16, Height: 16}, 320, 240)
	before := v.ScreenToCell(0.5, 0.5)
	if c := v.Pan(10, -5); c.DX != 10 || c.DY != -5 || c.Rescaled {
		t.Fatalf("unexpected change %+v", c)
	}
	if v.X.Int64() != -10 || v.Y.Int64() != 5 {
		t.Fatalf("offset = (%s, %s), want (-10, 5)", v.X, v.Y)
	}
	after := v.ScreenToCell(10.5, -4.5)
	if !after.Equal(before) {
		t.Fatalf("content under pointer moved: %v -> %v", before, after)
	}
	if !v.Pan(0, 0).IsZero() {
		t.Fatalf("empty pan should report no change")
	}
}

func TestZoomAtKeepsPointerContentFixed(t *testing.T) {
	cases := []struct {
		name     string
		offX     int64
		offY     int64
		from, to float64
		px, py   float64
	}{
		{"in", -37, 50, 1, 2, 100, 60},
		{"out", 123, -77, 2, 0.5, 311, 17},
		{"fractional", 5, 5, 0.75, 1.5, 250.5, 199.25},
		{"far_offset", 4000, 4000, 1, 3, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := New(tilemap.Size{Width: 32, Height: 32}, 640, 480)
			v.X = big.NewInt(c.offX)
			v.Y = big.NewInt(c.offY)
			v.Scale = c.from

			worldX := func() float64 { return (c.px + float64(v.X.Int64())) / (32 * v.Scale) }
			worldY := func() float64 { return (c.py + float64(v.Y.Int64())) / (32 * v.Scale) }
			wx, wy := worldX(), worldY()

			if ch := v.ZoomAt(c.to, c.px, c.py); !ch.Rescaled {
				t.Fatalf("zoom should report a rescale")
			}
			tolerance := 0.5/(32*c.to) + 1e-9
			if math.Abs(worldX()-wx) > tolerance || math.Abs(worldY()-wy) > tolerance {
				t.Fatalf("world point moved: (%v,%v) -> (%v,%v)", wx, wy, worldX(), worldY())
			}
		})
	}
}

func TestZoomSteps(t *testing.T) {
	v := New(tilemap.Size{Width: 32, Height: 32}, 100, 100)
	v.ZoomIn(0, 0)
	if v.Scale != 1.5 {
		t.Fatalf("zoom in from 1 = %v, want 1.5", v.Scale)
	}
	v.ZoomOut(0, 0)
	v.ZoomOut(0, 0)
	if v.Scale != 0.75 {
		t.Fatalf("two zoom outs from 1.5 = %v, want 0.75", v.Scale)
	}
	v.Scale = 1.2
	v.ZoomIn(0, 0)
	if v.Scale != 1.5 {
		t.Fatalf("zoom in from 1.2 = %v, want 1.5", v.Scale)
	}
	v.Scale = 5
	if !v.ZoomIn(0, 0).IsZero() || v.Scale != 5 {
		t.Fatalf("zoom in at the last step must be a no-op")
	}
	v.Scale = 0.25
	if !v.ZoomOut(0, 0).IsZero() || v.Scale != 0.25 {
		t.Fatalf("zoom out at the first step must be a no-op")
	}
	v.ResetZoom(10, 10)
	if v.Scale != 1 {
		t.Fatalf("reset = %v, want 1", v.Scale)
	}
}

func TestVisibleArea(t *testing.T) {
	v := New(tilemap.Size{Width: 32, Height: 32}, 100, 64)
	a := v.VisibleArea()
	if !a.From.Equal(common.NewCellPosition(0, 0)) || !a.To.Equal(common.NewCellPosition(1, 3)) {
		t.Fatalf("visible area %v..%v", a.From, a.To)
	}
	v.Pan(16, 16)
	a = v.VisibleArea()
	if !a.From.Equal(common.NewCellPosition(-1, -1)) || !a.To.Equal(common.NewCellPosition(1, 2)) {
		t.Fatalf("visible area after pan %v..%v", a.From, a.To)
	}
	if !v.IsCellVisible(common.NewCellPosition(0, 0)) || v.IsCellVisible(common.NewCellPosition(-1, 0)) {
		t.Fatalf("visibility is decided by the cell origin")
	}
}

func TestCellRectsTile(t *testing.T) {
	v := New(tilemap.Size{Width: 32, Height: 32}, 300, 300)
	v.Scale = 0.75
	v.X = big.NewInt(-7)
	left := v.CellRect(common.NewCellPosition(0, 0))
	right := v.CellRect(common.NewCellPosition(0, 1))
	if left.Max.X != right.Min.X {
		t.Fatalf("adjacent cells leave a gap: %v %v", left, right)
	}
	if left.Dx() < 23 || left.Dx() > 25 {
		t.Fatalf("unexpected scaled width %d", left.Dx())
	}
}
