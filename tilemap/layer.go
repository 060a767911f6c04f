package tilemap

import (
	"iter"
	"math/big"

	"github.com/milk9111/tilemap/common"
)

type cell struct {
	column *big.Int
	tile   Tile
}

type row struct {
	index   *big.Int
	columns map[string]cell
	order   keyOrder
}

// TileLayer is the sparse storage of one level: row -> column -> tile. Empty
// cells are never stored. Iteration follows insertion order.
type TileLayer struct {
	rows  map[string]*row
	order keyOrder
	count int
}

// NewTileLayer returns an empty layer.
func NewTileLayer() *TileLayer {
	return &TileLayer{rows: make(map[string]*row)}
}

// SetTile stores t at pos and reports whether the cell changed.
func (l *TileLayer) SetTile(pos common.CellPosition, t Tile) bool {
	rk := pos.Row.String()
	r, ok := l.rows[rk]
	if !ok {
		r = &row{index: new(big.Int).Set(pos.Row), columns: make(map[string]cell)}
		l.rows[rk] = r
		l.order.add(rk)
	}
	ck := pos.Column.String()
	prev, ok := r.columns[ck]
	if ok {
		if prev.tile.Equal(t) {
			return false
		}
		r.columns[ck] = cell{column: prev.column, tile: t}
		return true
	}
	r.columns[ck] = cell{column: new(big.Int).Set(pos.Column), tile: t}
	r.order.add(ck)
	l.count++
	return true
}

// RemoveTile deletes the tile at pos and reports whether there was one.
func (l *TileLayer) RemoveTile(pos common.CellPosition) bool {
	rk := pos.Row.String()
	r, ok := l.rows[rk]
	if !ok {
		return false
	}
	ck := pos.Column.String()
	if _, ok := r.columns[ck]; !ok {
		return false
	}
	delete(r.columns, ck)
	r.order.remove(ck)
	l.count--
	if len(r.columns) == 0 {
		delete(l.rows, rk)
		l.order.remove(rk)
	}
	return true
}

// RetrieveTile returns the tile at pos.
func (l *TileLayer) RetrieveTile(pos common.CellPosition) (Tile, bool) {
	r, ok := l.rows[pos.Row.String()]
	if !ok {
		return Tile{}, false
	}
	c, ok := r.columns[pos.Column.String()]
	return c.tile, ok
}

// Tile is RetrieveTile returning nil for an empty cell.
func (l *TileLayer) Tile(pos common.CellPosition) *Tile {
	if l == nil {
		return nil
	}
	t, ok := l.RetrieveTile(pos)
	if !ok {
		return nil
	}
	return &t
}

// Len is the number of stored tiles.
func (l *TileLayer) Len() int {
	return l.count
}

// RetrieveArea extracts the inclusive rectangle from..to into a new layer in
// which from is (0, 0).
func (l *TileLayer) RetrieveArea(from, to common.CellPosition) *TileLayer {
	area := common.FromTo{From: from, To: to}
	out := NewTileLayer()
	for pos, t := range l.Entries() {
		if area.Contains(pos) {
			out.SetTile(pos.Sub(from), t)
		}
	}
	return out
}

// PutArea writes every tile of area into l offset by at; the inverse of
// RetrieveArea. Cells absent from area are left untouched.
func (l *TileLayer) PutArea(at common.CellPosition, area *TileLayer) bool {
	changed := false
	for pos, t := range area.Entries() {
		if l.SetTile(pos.Add(at), t) {
			changed = true
		}
	}
	return changed
}

// RemoveArea deletes every tile inside a and reports whether any was removed.
func (l *TileLayer) RemoveArea(a common.CellArea) bool {
	ft := a.FromTo()
	var doomed []common.CellPosition
	for pos := range l.Entries() {
		if ft.Contains(pos) {
			doomed = append(doomed, pos)
		}
	}
	for _, pos := range doomed {
		l.RemoveTile(pos)
	}
	return len(doomed) > 0
}

// Copy returns an independent layer with the same content and order.
func (l *TileLayer) Copy() *TileLayer {
	out := &TileLayer{
		rows:  make(map[string]*row, len(l.rows)),
		order: l.order.clone(),
		count: l.count,
	}
	for k, r := range l.rows {
		columns := make(map[string]cell, len(r.columns))
		for ck, c := range r.columns {
			columns[ck] = c
		}
		out.rows[k] = &row{index: r.index, columns: columns, order: r.order.clone()}
	}
	return out
}

// Entries yields every stored (position, tile) pair. The returned positions
// are fresh values the caller may keep.
func (l *TileLayer) Entries() iter.Seq2[common.CellPosition, Tile] {
	return func(yield func(common.CellPosition, Tile) bool) {
		if l == nil {
			return
		}
		for rk := range l.order.all() {
			r := l.rows[rk]
			for ck := range r.order.all() {
				c := r.columns[ck]
				pos := common.CellPosition{Row: new(big.Int).Set(r.index), Column: new(big.Int).Set(c.column)}
				if !yield(pos, c.tile) {
					return
				}
			}
		}
	}
}

// Bounds returns the inclusive bounding rectangle of the stored tiles.
func (l *TileLayer) Bounds() (common.FromTo, bool) {
	var b common.FromTo
	found := false
	for pos := range l.Entries() {
		if !found {
			b = common.FromTo{From: pos.Clone(), To: pos.Clone()}
			found = true
			continue
		}
		b.From.Row = common.Min(b.From.Row, pos.Row)
		b.From.Column = common.Min(b.From.Column, pos.Column)
		b.To.Row = common.Max(b.To.Row, pos.Row)
		b.To.Column = common.Max(b.To.Column, pos.Column)
	}
	return b, found
}
