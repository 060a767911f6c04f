package editor

import (
	"image"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

// SelectedTileSet is the tile set brushes are taken from.
func (s *Session) SelectedTileSet() tilemap.TileSetID {
	return s.tileSet
}

// TileSetSelection is the brush rectangle in tile-set pixels.
func (s *Session) TileSetSelection() (common.Area, bool) {
	if s.tileSetSelection == nil {
		return common.Area{}, false
	}
	return *s.tileSetSelection, true
}

// SelectTileSet switches the brush source. Unknown ids are ignored.
func (s *Session) SelectTileSet(id tilemap.TileSetID) bool {
	if _, ok := s.tileMap.TileSets[id]; !ok {
		return false
	}
	if id == s.tileSet {
		return true
	}
	s.tileSet = id
	s.tileSetSelection = nil
	s.clearPreview()
	s.emit(TileSetSelectionChanged)
	return true
}

// SelectTileSetTile selects the single tile under pixel (px, py) of the tile
// set image.
func (s *Session) SelectTileSetTile(px, py int) {
	size := s.tileMap.TileSize
	x := common.AdjustToStepInt(max(px, 0), size.Width)
	y := common.AdjustToStepInt(max(py, 0), size.Height)
	s.tileSetAnchor = image.Pt(x, y)
	s.setTileSetSelection(common.Area{X: x, Y: y, Width: size.Width, Height: size.Height})
}

// ExpandTileSetSelection grows the brush from the tile picked by
// SelectTileSetTile to the tile under (px, py).
func (s *Session) ExpandTileSetSelection(px, py int) {
	if s.tileSetSelection == nil {
		s.SelectTileSetTile(px, py)
		return
	}
	size := s.tileMap.TileSize
	x := common.AdjustToStepInt(max(px, 0), size.Width)
	y := common.AdjustToStepInt(max(py, 0), size.Height)
	x0, x1 := min(s.tileSetAnchor.X, x), max(s.tileSetAnchor.X, x)+size.Width
	y0, y1 := min(s.tileSetAnchor.Y, y), max(s.tileSetAnchor.Y, y)+size.Height
	s.setTileSetSelection(common.Area{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0})
}

// SelectTileSetArea selects a brush rectangle directly. It is snapped outwards
// to whole tiles.
func (s *Session) SelectTileSetArea(a common.Area) {
	if a.Width <= 0 || a.Height <= 0 {
		s.ClearTileSetSelection()
		return
	}
	size := s.tileMap.TileSize
	x0 := common.AdjustToStepInt(max(a.X, 0), size.Width)
	y0 := common.AdjustToStepInt(max(a.Y, 0), size.Height)
	x1 := common.AdjustToStepInt(a.X+a.Width-1, size.Width) + size.Width
	y1 := common.AdjustToStepInt(a.Y+a.Height-1, size.Height) + size.Height
	s.tileSetAnchor = image.Pt(x0, y0)
	s.setTileSetSelection(common.Area{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0})
}

func (s *Session) ClearTileSetSelection() {
	if s.tileSetSelection == nil {
		return
	}
	s.tileSetSelection = nil
	s.clearPreview()
	s.emit(TileSetSelectionChanged)
}

func (s *Session) setTileSetSelection(a common.Area) {
	if s.tileSetSelection != nil && s.tileSetSelection.Equal(a) {
		return
	}
	s.tileSetSelection = &a
	s.hoverKey = ""
	s.emit(TileSetSelectionChanged)
}

// AddTileSet registers ts and selects it.
func (s *Session) AddTileSet(ts tilemap.TileSet) tilemap.TileSetID {
	s.backUp()
	id := s.tileMap.AddTileSet(ts)
	s.log.WithFields(logrus.Fields{"id": id, "name": ts.Name}).Info("editor: tile set added")
	s.mapEdited()
	s.SelectTileSet(id)
	return id
}

// RemoveTileSet unregisters id. Tiles that use it stay in the map and render
// empty. When it was selected the lowest remaining id is selected instead.
func (s *Session) RemoveTileSet(id tilemap.TileSetID) bool {
	s.backUp()
	if !s.tileMap.RemoveTileSet(id) {
		s.discardBackup()
		return false
	}
	s.log.WithField("id", id).Info("editor: tile set removed")
	if id == s.tileSet {
		s.tileSetSelection = nil
		if ids := s.tileMap.TileSetIDs(); len(ids) > 0 {
			s.tileSet = ids[0]
		}
		s.emit(TileSetSelectionChanged)
	}
	s.mapEdited()
	s.RefreshTileSet(id)
	return true
}

func (s *Session) RenameTileSet(id tilemap.TileSetID, name string) bool {
	s.backUp()
	if !s.tileMap.RenameTileSet(id, name) {
		s.discardBackup()
		return false
	}
	s.mapEdited()
	return true
}

// ReplaceTileSetContent swaps the image of id. The host reloads the image and
// calls RefreshTileSet once it is decoded.
func (s *Session) ReplaceTileSetContent(id tilemap.TileSetID, content string) bool {
	s.backUp()
	if !s.tileMap.ReplaceTileSetContent(id, content) {
		s.discardBackup()
		return false
	}
	s.log.WithField("id", id).Info("editor: tile set content replaced")
	s.mapEdited()
	s.RefreshTileSet(id)
	return true
}
