package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/milk9111/tilemap/tilemap"
)

// ImageSource resolves tile-set ids to decoded images. A nil image means the
// tile set is not (yet) available and its tiles are skipped.
type ImageSource interface {
	TileSetImage(id tilemap.TileSetID) image.Image
}

// TileCache keeps every distinct (tileSet, x, y) region rasterised once at the
// unscaled tile size so that each repaint only performs the scaled blit.
type TileCache struct {
	cache *ristretto.Cache[string, *image.RGBA]
	gens  map[tilemap.TileSetID]uint64
}

// NewTileCache returns a cache bounded to maxBytes of tile pixels.
func NewTileCache(maxBytes int64) (*TileCache, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, *image.RGBA]{
		NumCounters: 100_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create tile cache: %w", err)
	}
	return &TileCache{cache: c, gens: make(map[tilemap.TileSetID]uint64)}, nil
}

func (c *TileCache) key(t tilemap.Tile, size tilemap.Size) string {
	return fmt.Sprintf("%d:%d:%d:%d:%dx%d", c.gens[t.TileSet], t.TileSet, t.X, t.Y, size.Width, size.Height)
}

// Tile returns the raster of t, building it from images on a miss. Returns nil
// when the tile set has no image.
func (c *TileCache) Tile(images ImageSource, t tilemap.Tile, size tilemap.Size) *image.RGBA {
	key := c.key(t, size)
	if img, ok := c.cache.Get(key); ok {
		return img
	}
	if images == nil {
		return nil
	}
	src := images.TileSetImage(t.TileSet)
	if src == nil {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	sp := src.Bounds().Min.Add(image.Pt(t.X, t.Y))
	draw.Draw(out, out.Bounds(), src, sp, draw.Src)
	c.cache.Set(key, out, int64(len(out.Pix)))
	return out
}

// Invalidate drops every raster of tile set id. Old entries become
// unreachable and age out of the cache.
func (c *TileCache) Invalidate(id tilemap.TileSetID) {
	c.gens[id]++
}

// Clear drops every raster.
func (c *TileCache) Clear() {
	c.cache.Clear()
}

// Close releases the cache's background goroutines.
func (c *TileCache) Close() {
	c.cache.Close()
}
