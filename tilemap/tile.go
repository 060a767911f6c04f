package tilemap

// TileSetID identifies a tile set in a map's registry.
type TileSetID int

// Tile references a tile-sized region of a tile-set image by its pixel offset.
type Tile struct {
	X       int       `json:"x"`
	Y       int       `json:"y"`
	TileSet TileSetID `json:"tileSet"`
}

// Equal reports whether a and b reference the same region of the same tile set.
func (t Tile) Equal(o Tile) bool {
	return t.X == o.X && t.Y == o.Y && t.TileSet == o.TileSet
}

// TileSet is a named tile-set image. Content holds the encoded image, usually
// as a data URL. Entries are replaced, never mutated, once registered.
type TileSet struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// MultiLayerTile is one cell's content across all levels; index = level and a
// nil entry means the level is empty at that cell.
type MultiLayerTile []*Tile

// TilePtr returns a pointer to a copy of t, handy for building MultiLayerTiles.
func TilePtr(t Tile) *Tile {
	return &t
}

// At returns the tile at level, nil when absent or out of range.
func (m MultiLayerTile) At(level int) *Tile {
	if level < 0 || level >= len(m) {
		return nil
	}
	return m[level]
}

// Replacement builds a MultiLayerTile that only carries t at level.
func Replacement(level int, t *Tile) MultiLayerTile {
	m := make(MultiLayerTile, level+1)
	m[level] = t
	return m
}
