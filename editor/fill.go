package editor

import (
	"math/big"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

// sameFillTile compares the tile found at a cell with the origin's pre-fill
// tile. Two empty cells are equal.
func sameFillTile(a, b *tilemap.Tile) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// fillOffset is a cell relative to the fill origin.
type fillOffset struct{ row, column int64 }

// neighbors returns the 4-connected neighbours in up, right, down, left order.
func (o fillOffset) neighbors() [4]fillOffset {
	return [4]fillOffset{
		{o.row - 1, o.column},
		{o.row, o.column + 1},
		{o.row + 1, o.column},
		{o.row, o.column - 1},
	}
}

// fillPlacements grows a region breadth-first from origin over cells holding
// the origin's tile on the current level. Growth is capped at FillMaxDistance
// cells per axis; onlyVisible further limits it to cells on screen.
func (s *Session) fillPlacements(origin common.CellPosition, onlyVisible bool) []placement {
	sel, _, _, ok := s.brush()
	if !ok {
		return nil
	}
	tile := s.brushTile(sel, 0, 0)
	layer := s.tileMap.Layer(s.level)
	target := layer.Tile(origin)
	limit := s.cfg.FillMaxDistance

	// Candidates share their row and column indices; accepted cells are cloned.
	rows := map[int64]*big.Int{0: origin.Row}
	columns := map[int64]*big.Int{0: origin.Column}
	index := func(cache map[int64]*big.Int, base *big.Int, d int64) *big.Int {
		v, ok := cache[d]
		if !ok {
			v = new(big.Int).Add(base, big.NewInt(d))
			cache[d] = v
		}
		return v
	}
	position := func(o fillOffset) common.CellPosition {
		return common.CellPosition{
			Row:    index(rows, origin.Row, o.row),
			Column: index(columns, origin.Column, o.column),
		}
	}

	// A cell is checked once: its outcome does not depend on the path to it.
	checked := map[fillOffset]struct{}{{}: {}}
	queue := []fillOffset{{}}
	var out []placement
	for head := 0; head < len(queue); head++ {
		o := queue[head]
		out = append(out, placement{pos: position(o).Clone(), tile: tile})
		for _, n := range o.neighbors() {
			if n.row < -limit || n.row > limit || n.column < -limit || n.column > limit {
				continue
			}
			if _, seen := checked[n]; seen {
				continue
			}
			checked[n] = struct{}{}
			candidate := position(n)
			if onlyVisible && !s.vp.IsCellVisible(candidate) {
				continue
			}
			if !sameFillTile(target, layer.Tile(candidate)) {
				continue
			}
			queue = append(queue, n)
		}
	}
	return out
}

// fill commits a flood fill from origin.
func (s *Session) fill(origin common.CellPosition) bool {
	ps := s.fillPlacements(origin, false)
	if len(ps) == 0 {
		return false
	}
	changed := s.edit(func() bool { return s.apply(ps) })
	s.log.WithFields(logrus.Fields{
		"origin":  origin.String(),
		"cells":   len(ps),
		"changed": changed,
	}).Debug("editor: fill")
	if changed {
		s.renderPlacements(ps)
	}
	return changed
}

// FillAt runs the fill tool at a map cell regardless of the active tool.
func (s *Session) FillAt(origin common.CellPosition) bool {
	s.clearPreview()
	return s.fill(origin)
}
