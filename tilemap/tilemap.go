package tilemap

import (
	"errors"
	"maps"
	"math/big"
	"slices"

	"github.com/milk9111/tilemap/common"
)

// ErrInvalidTileSize is returned for maps whose tile size is not positive.
var ErrInvalidTileSize = errors.New("tilemap: tile size must be positive")

// TileMap is an ordered stack of sparse layers sharing one cell grid. Level 0
// always exists; deeper levels appear when first written.
type TileMap struct {
	TileSize Size                  `json:"tileSize"`
	TileSets map[TileSetID]TileSet `json:"tileSets"`
	Tiles    []*TileLayer          `json:"tiles"`
}

// New returns an empty map with a single, empty floor level.
func New(tileSize Size) *TileMap {
	return &TileMap{
		TileSize: tileSize,
		TileSets: make(map[TileSetID]TileSet),
		Tiles:    []*TileLayer{NewTileLayer()},
	}
}

// Levels is the number of levels currently stored.
func (m *TileMap) Levels() int {
	return len(m.Tiles)
}

// Layer returns the layer at level or nil when it does not exist yet.
func (m *TileMap) Layer(level int) *TileLayer {
	if level < 0 || level >= len(m.Tiles) {
		return nil
	}
	return m.Tiles[level]
}

// EnsureLayer returns the layer at level, creating it and any missing levels
// below it.
func (m *TileMap) EnsureLayer(level int) *TileLayer {
	for len(m.Tiles) <= level {
		m.Tiles = append(m.Tiles, NewTileLayer())
	}
	if m.Tiles[level] == nil {
		m.Tiles[level] = NewTileLayer()
	}
	return m.Tiles[level]
}

// SetTile writes t at pos on level.
func (m *TileMap) SetTile(pos common.CellPosition, t Tile, level int) bool {
	return m.EnsureLayer(level).SetTile(pos, t)
}

// RemoveTile deletes the tile at pos on level.
func (m *TileMap) RemoveTile(pos common.CellPosition, level int) bool {
	l := m.Layer(level)
	if l == nil {
		return false
	}
	return l.RemoveTile(pos)
}

// RetrieveMultiLayerTile returns pos across every stored level.
func (m *TileMap) RetrieveMultiLayerTile(pos common.CellPosition) MultiLayerTile {
	out := make(MultiLayerTile, len(m.Tiles))
	for level, l := range m.Tiles {
		out[level] = l.Tile(pos)
	}
	return out
}

// SetMultiLayerTile applies every level of mlt at pos. A nil entry deletes that
// level's tile. Reports whether any level changed.
func (m *TileMap) SetMultiLayerTile(pos common.CellPosition, mlt MultiLayerTile) bool {
	changed := false
	for level, t := range mlt {
		var c bool
		if t == nil {
			c = m.RemoveTile(pos, level)
		} else {
			c = m.SetTile(pos, *t, level)
		}
		changed = changed || c
	}
	return changed
}

// Resize keeps the cells that fit into a map of newPixelSize starting at (0, 0)
// and drops everything else.
func (m *TileMap) Resize(newPixelSize Size) {
	if !m.TileSize.Valid() {
		return
	}
	rows := big.NewInt(int64(newPixelSize.Height / m.TileSize.Height))
	columns := big.NewInt(int64(newPixelSize.Width / m.TileSize.Width))
	for _, l := range m.Tiles {
		var doomed []common.CellPosition
		for pos := range l.Entries() {
			if pos.Row.Sign() < 0 || pos.Column.Sign() < 0 || pos.Row.Cmp(rows) >= 0 || pos.Column.Cmp(columns) >= 0 {
				doomed = append(doomed, pos)
			}
		}
		for _, pos := range doomed {
			l.RemoveTile(pos)
		}
	}
}

// Copy deep-copies the layers. Tile-set entries are immutable so the registry
// is copied shallowly.
func (m *TileMap) Copy() *TileMap {
	out := &TileMap{
		TileSize: m.TileSize,
		TileSets: maps.Clone(m.TileSets),
		Tiles:    make([]*TileLayer, len(m.Tiles)),
	}
	if out.TileSets == nil {
		out.TileSets = make(map[TileSetID]TileSet)
	}
	for i, l := range m.Tiles {
		out.Tiles[i] = l.Copy()
	}
	return out
}

// TileSetIDs returns the registered ids in ascending order.
func (m *TileMap) TileSetIDs() []TileSetID {
	return slices.Sorted(maps.Keys(m.TileSets))
}

// NextTileSetID is one above the highest registered id, 0 for an empty registry.
func (m *TileMap) NextTileSetID() TileSetID {
	ids := m.TileSetIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1] + 1
}

// AddTileSet registers ts under the next free id.
func (m *TileMap) AddTileSet(ts TileSet) TileSetID {
	if m.TileSets == nil {
		m.TileSets = make(map[TileSetID]TileSet)
	}
	id := m.NextTileSetID()
	m.TileSets[id] = ts
	return id
}

// RemoveTileSet unregisters id. Tiles referencing it are kept and render empty.
func (m *TileMap) RemoveTileSet(id TileSetID) bool {
	if _, ok := m.TileSets[id]; !ok {
		return false
	}
	delete(m.TileSets, id)
	return true
}

// RenameTileSet replaces the name of id.
func (m *TileMap) RenameTileSet(id TileSetID, name string) bool {
	ts, ok := m.TileSets[id]
	if !ok || ts.Name == name {
		return false
	}
	m.TileSets[id] = TileSet{Name: name, Content: ts.Content}
	return true
}

// ReplaceTileSetContent swaps the image of id.
func (m *TileMap) ReplaceTileSetContent(id TileSetID, content string) bool {
	ts, ok := m.TileSets[id]
	if !ok || ts.Content == content {
		return false
	}
	m.TileSets[id] = TileSet{Name: ts.Name, Content: content}
	return true
}

// Migrate upgrades maps saved before the tile-set registry existed by
// registering fallback as tile set 0 and filling in missing layers.
func Migrate(m *TileMap, fallback TileSet) *TileMap {
	if m.TileSets == nil {
		m.TileSets = make(map[TileSetID]TileSet)
	}
	if len(m.TileSets) == 0 {
		m.TileSets[0] = fallback
	}
	if len(m.Tiles) == 0 {
		m.Tiles = []*TileLayer{NewTileLayer()}
	}
	for i, l := range m.Tiles {
		if l == nil {
			m.Tiles[i] = NewTileLayer()
		}
	}
	return m
}

// HighestPopulatedLevel is the deepest level holding at least one tile, -1
// for an empty map.
func (m *TileMap) HighestPopulatedLevel() int {
	for level := len(m.Tiles) - 1; level >= 0; level-- {
		if m.Tiles[level] != nil && m.Tiles[level].Len() > 0 {
			return level
		}
	}
	return -1
}
