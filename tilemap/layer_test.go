package tilemap

import (
	"testing"

	"github.com/milk9111/tilemap/common"
)

func pos(row, column int64) common.CellPosition {
	return common.NewCellPosition(row, column)
}

func TestTileLayerSetTile(t *testing.T) {
	cases := []struct {
		name  string
		first Tile
		then  Tile
		want  bool
	}{
		{"equal_tile_is_noop", Tile{X: 0, Y: 0, TileSet: 1}, Tile{X: 0, Y: 0, TileSet: 1}, false},
		{"different_x", Tile{X: 0, Y: 0}, Tile{X: 32, Y: 0}, true},
		{"different_y", Tile{X: 0, Y: 0}, Tile{X: 0, Y: 32}, true},
		{"different_tileset", Tile{TileSet: 0}, Tile{TileSet: 1}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := NewTileLayer()
			if !l.SetTile(pos(0, 0), c.first) {
				t.Fatalf("setting a tile on an empty cell should report a change")
			}
			if got := l.SetTile(pos(0, 0), c.then); got != c.want {
				t.Fatalf("second SetTile = %v, want %v", got, c.want)
			}
			got, ok := l.RetrieveTile(pos(0, 0))
			if !ok || !got.Equal(c.then) {
				t.Fatalf("expected %+v stored, got %+v ok=%v", c.then, got, ok)
			}
			if l.Len() != 1 {
				t.Fatalf("expected one stored tile, got %d", l.Len())
			}
		})
	}
}

func TestTileLayerRemoveTile(t *testing.T) {
	for _, p := range []common.CellPosition{pos(0, 0), pos(-3, 7), pos(1<<40, -(1 << 40))} {
		l := NewTileLayer()
		l.SetTile(p, Tile{X: 16})
		l.RemoveTile(p)
		if l.Tile(p) != nil {
			t.Fatalf("tile at %v should be gone", p)
		}
		if l.Len() != 0 || len(l.rows) != 0 {
			t.Fatalf("layer should hold no empty rows after removal")
		}
	}
	l := NewTileLayer()
	if l.RemoveTile(pos(5, 5)) {
		t.Fatalf("removing an absent tile should report false")
	}
}

func TestTileLayerRetrieveArea(t *testing.T) {
	l := NewTileLayer()
	l.SetTile(pos(-1, -1), Tile{X: 1})
	l.SetTile(pos(0, 0), Tile{X: 2})
	l.SetTile(pos(1, 2), Tile{X: 3})
	l.SetTile(pos(5, 5), Tile{X: 4})

	from, to := pos(-1, -1), pos(1, 2)
	area := l.RetrieveArea(from, to)
	if area.Len() != 3 {
		t.Fatalf("expected 3 tiles in area, got %d", area.Len())
	}
	if tile := area.Tile(pos(0, 0)); tile == nil || tile.X != 1 {
		t.Fatalf("from should map to (0,0), got %+v", tile)
	}
	if tile := area.Tile(pos(2, 3)); tile == nil || tile.X != 3 {
		t.Fatalf("(1,2) should map to (2,3), got %+v", tile)
	}

	target := NewTileLayer()
	target.PutArea(from, area)
	for p, tile := range l.RetrieveArea(from, to).Entries() {
		got := target.Tile(p.Add(from))
		if got == nil || !got.Equal(tile) {
			t.Fatalf("round trip mismatch at %v", p)
		}
	}
	if target.Tile(pos(5, 5)) != nil {
		t.Fatalf("cells outside the area must not be copied")
	}
}

func TestTileLayerCopyIsIndependent(t *testing.T) {
	l := NewTileLayer()
	l.SetTile(pos(0, 0), Tile{X: 1})
	c := l.Copy()
	c.SetTile(pos(0, 0), Tile{X: 2})
	c.SetTile(pos(0, 1), Tile{X: 3})
	if l.Tile(pos(0, 0)).X != 1 || l.Tile(pos(0, 1)) != nil {
		t.Fatalf("mutating the copy changed the original")
	}
	l.RemoveTile(pos(0, 0))
	if c.Tile(pos(0, 0)) == nil {
		t.Fatalf("mutating the original changed the copy")
	}
}

func TestTileLayerEntriesOrder(t *testing.T) {
	l := NewTileLayer()
	l.SetTile(pos(0, 0), Tile{X: 1})
	l.SetTile(pos(1, 1), Tile{X: 2})
	l.SetTile(pos(0, -4), Tile{X: 3})

	want := []common.CellPosition{pos(0, 0), pos(0, -4), pos(1, 1)}
	for round := 0; round < 2; round++ {
		var got []common.CellPosition
		for p := range l.Entries() {
			got = append(got, p)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(got))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Fatalf("entry %d = %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestTileLayerOrderAfterChurn(t *testing.T) {
	const width = 10_000
	l := NewTileLayer()
	for column := int64(0); column < width; column++ {
		l.SetTile(pos(0, column), Tile{X: int(column)})
	}
	// Drop every column but the last two, back to front is the slow direction
	// for a linear scan.
	for column := int64(width - 3); column >= 0; column-- {
		if !l.RemoveTile(pos(0, column)) {
			t.Fatalf("column %d should have been removed", column)
		}
	}
	l.SetTile(pos(0, 0), Tile{X: -1})
	l.SetTile(pos(2, 0), Tile{X: -2})

	r := l.rows["0"]
	if got := len(r.order.keys); got > 64 {
		t.Fatalf("row order kept %d slots for 3 columns", got)
	}
	if l.Len() != 4 {
		t.Fatalf("expected 4 tiles, got %d", l.Len())
	}

	want := []common.CellPosition{pos(0, width-2), pos(0, width-1), pos(0, 0), pos(2, 0)}
	var got []common.CellPosition
	for p := range l.Entries() {
		got = append(got, p)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	data, err := l.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back := NewTileLayer()
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	i := 0
	for p := range back.Entries() {
		if !p.Equal(want[i]) {
			t.Fatalf("decoded entry %d = %v, want %v", i, p, want[i])
		}
		i++
	}
}

func TestTileLayerBounds(t *testing.T) {
	l := NewTileLayer()
	if _, ok := l.Bounds(); ok {
		t.Fatalf("empty layer has no bounds")
	}
	l.SetTile(pos(2, -1), Tile{})
	l.SetTile(pos(-3, 4), Tile{})
	b, ok := l.Bounds()
	if !ok || !b.From.Equal(pos(-3, -1)) || !b.To.Equal(pos(2, 4)) {
		t.Fatalf("unexpected bounds %v..%v", b.From, b.To)
	}
}
