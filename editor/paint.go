package editor

import (
	"math/big"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

// placement is one cell write. A single tile goes to the current level; a
// MultiLayerTile is applied level by level with nil entries deleting.
type placement struct {
	pos   common.CellPosition
	tile  *tilemap.Tile
	tiles tilemap.MultiLayerTile
}

func (p placement) replacements(level int) tilemap.MultiLayerTile {
	if p.tiles != nil {
		return p.tiles
	}
	return tilemap.Replacement(level, p.tile)
}

// apply writes ps and reports whether any cell changed.
func (s *Session) apply(ps []placement) bool {
	changed := false
	for _, p := range ps {
		var c bool
		switch {
		case p.tiles != nil:
			c = s.tileMap.SetMultiLayerTile(p.pos, p.tiles)
		case p.tile != nil:
			c = s.tileMap.SetTile(p.pos, *p.tile, s.level)
		}
		changed = changed || c
	}
	return changed
}

// brush returns the selected tile-set rectangle in tiles.
func (s *Session) brush() (sel common.Area, rows, columns int, ok bool) {
	if s.tileSetSelection == nil {
		return common.Area{}, 0, 0, false
	}
	sel = *s.tileSetSelection
	size := s.tileMap.TileSize
	rows = max(sel.Height/size.Height, 1)
	columns = max(sel.Width/size.Width, 1)
	return sel, rows, columns, true
}

// brushTile is the tile at brush cell (row, column).
func (s *Session) brushTile(sel common.Area, row, column int) *tilemap.Tile {
	size := s.tileMap.TileSize
	return &tilemap.Tile{
		X:       sel.X + column*size.Width,
		Y:       sel.Y + row*size.Height,
		TileSet: s.tileSet,
	}
}

// penPlacements stamps the whole brush with its top-left tile at at.
func (s *Session) penPlacements(at common.CellPosition) []placement {
	sel, rows, columns, ok := s.brush()
	if !ok {
		return nil
	}
	out := make([]placement, 0, rows*columns)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			out = append(out, placement{
				pos:  at.Offset(int64(r), int64(c)),
				tile: s.brushTile(sel, r, c),
			})
		}
	}
	return out
}

// isNineSlice reports whether the brush is a 3x3 tile template.
func (s *Session) isNineSlice() bool {
	_, rows, columns, ok := s.brush()
	return ok && rows == 3 && columns == 3
}

// areaPlacements covers a with the brush, repeating it with 2-D modulo
// wrapping, or by 9-slice roles when the brush is 3x3 tiles.
func (s *Session) areaPlacements(a common.CellArea) []placement {
	sel, rows, columns, ok := s.brush()
	if !ok || a.IsEmpty() {
		return nil
	}
	nineSlice := rows == 3 && columns == 3
	bigRows, bigColumns := big.NewInt(int64(rows)), big.NewInt(int64(columns))
	lastRow := new(big.Int).Sub(a.Height, big.NewInt(1))
	lastColumn := new(big.Int).Sub(a.Width, big.NewInt(1))

	var out []placement
	a.Each(func(offset, pos common.CellPosition) bool {
		var r, c int
		if nineSlice {
			r = sliceRole(offset.Row, lastRow)
			c = sliceRole(offset.Column, lastColumn)
		} else {
			r = int(new(big.Int).Mod(offset.Row, bigRows).Int64())
			c = int(new(big.Int).Mod(offset.Column, bigColumns).Int64())
		}
		out = append(out, placement{pos: pos, tile: s.brushTile(sel, r, c)})
		return true
	})
	return out
}

// sliceRole maps an offset along one axis to the template row or column: 0 at
// the start, 2 at the end, 1 in between. The start wins for a length of 1.
func sliceRole(offset, last *big.Int) int {
	switch {
	case offset.Sign() == 0:
		return 0
	case offset.Cmp(last) == 0:
		return 2
	default:
		return 1
	}
}

func (s *Session) beginStroke() {
	s.backUp()
	s.stroke = &stroke{}
}

func (s *Session) endStroke() {
	if s.stroke == nil {
		return
	}
	if !s.stroke.changed {
		s.discardBackup()
	}
	s.stroke = nil
}

// paintAt stamps the brush during a pen stroke.
func (s *Session) paintAt(at common.CellPosition) {
	if s.stroke == nil {
		return
	}
	key := at.Key()
	if key == s.stroke.last {
		return
	}
	s.stroke.last = key
	ps := s.penPlacements(at)
	if !s.apply(ps) {
		return
	}
	s.stroke.changed = true
	s.mapEdited()
	s.renderPlacements(ps)
}

// stampArea commits the area tool over a.
func (s *Session) stampArea(a common.CellArea) bool {
	ps := s.areaPlacements(a)
	if len(ps) == 0 {
		return false
	}
	changed := s.edit(func() bool { return s.apply(ps) })
	s.log.WithFields(logrus.Fields{
		"cells":     len(ps),
		"nineSlice": s.isNineSlice(),
		"changed":   changed,
	}).Debug("editor: area stamped")
	if changed {
		s.renderPlacements(ps)
	}
	return changed
}

// bounds is the inclusive rectangle around ps.
func bounds(ps []placement) (common.FromTo, bool) {
	if len(ps) == 0 {
		return common.FromTo{}, false
	}
	from, to := ps[0].pos.Clone(), ps[0].pos.Clone()
	for _, p := range ps[1:] {
		from.Row = common.Min(from.Row, p.pos.Row)
		from.Column = common.Min(from.Column, p.pos.Column)
		to.Row = common.Max(to.Row, p.pos.Row)
		to.Column = common.Max(to.Column, p.pos.Column)
	}
	return common.FromTo{From: from.Clone(), To: to.Clone()}, true
}

// renderPlacements repaints the cells touched by ps.
func (s *Session) renderPlacements(ps []placement) {
	area, ok := bounds(ps)
	if !ok {
		return
	}
	s.renderer.RenderArea(area)
	s.renderOverlays()
}

// previewPlacements draws ps over the canvas without touching the map.
func (s *Session) previewPlacements(ps []placement) {
	s.clearPreview()
	screen := s.vp.Bounds()
	for _, p := range ps {
		rect := s.vp.CellRect(p.pos)
		if rect.Intersect(screen).Empty() {
			continue
		}
		s.renderer.RenderTile(p.pos, p.replacements(s.level))
		s.renderer.RenderGrid(rect)
		s.preview = append(s.preview, p.pos)
	}
	s.renderOverlays()
}

// clearPreview repaints the previewed cells from the map.
func (s *Session) clearPreview() {
	s.hoverKey = ""
	if len(s.preview) == 0 {
		return
	}
	for _, pos := range s.preview {
		s.renderer.RenderTile(pos, nil)
		s.renderer.RenderGrid(s.vp.CellRect(pos))
	}
	s.preview = nil
	s.renderOverlays()
}

func (s *Session) renderOverlays() {
	if s.selection != nil {
		s.renderer.RenderSelection(*s.selection)
	}
	if s.pasteMode && s.pasteAt != nil && s.clipboard != nil {
		s.renderer.RenderHover(s.pasteArea(*s.pasteAt))
	}
}
