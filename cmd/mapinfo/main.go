// Command mapinfo prints a summary of a stored or exported tile map.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/milk9111/tilemap/config"
	"github.com/milk9111/tilemap/persistence"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "tilemap.yaml", "Path to the YAML settings file")
	file := flag.String("file", "", "Read this map file (JSON or zstd) instead of the configured store")
	key := flag.String("key", "", "Override storage.key")
	flag.Parse()

	log := logrus.New()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("mapinfo: could not load settings")
	}
	if *key != "" {
		cfg.Storage.Key = *key
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := load(ctx, cfg.Storage, *file)
	if err != nil {
		log.WithError(err).Fatal("mapinfo: could not load map")
	}
	if m == nil {
		log.WithField("key", cfg.Storage.Key).Fatal("mapinfo: no map stored")
	}
	if err := describe(os.Stdout, m); err != nil {
		log.WithError(err).Fatal("mapinfo: write summary")
	}
}

func load(ctx context.Context, storage config.Storage, path string) (*tilemap.TileMap, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("mapinfo: read %s: %w", path, err)
		}
		if tilemap.IsCompressed(data) {
			return tilemap.UnmarshalCompressed(data)
		}
		return tilemap.Unmarshal(data)
	}
	store, err := persistence.Open(ctx, storage)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return persistence.LoadMap(ctx, store, storage.Key)
}

// describe writes the tile size, the tile-set registry and per-level counts
// and bounds of m.
func describe(w io.Writer, m *tilemap.TileMap) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "tile size\t%dx%d\n", m.TileSize.Width, m.TileSize.Height)
	fmt.Fprintf(tw, "tile sets\t%d\n", len(m.TileSets))
	for _, id := range m.TileSetIDs() {
		ts := m.TileSets[id]
		fmt.Fprintf(tw, "  %d\t%s\t%d bytes\n", id, ts.Name, len(ts.Content))
	}
	fmt.Fprintf(tw, "levels\t%d\n", m.Levels())
	for level := 0; level < m.Levels(); level++ {
		layer := m.Layer(level)
		bounds, ok := layer.Bounds()
		if !ok {
			fmt.Fprintf(tw, "  %d\t%d tiles\t-\n", level, layer.Len())
			continue
		}
		fmt.Fprintf(tw, "  %d\t%d tiles\t%s .. %s\n", level, layer.Len(), bounds.From, bounds.To)
	}
	return tw.Flush()
}
