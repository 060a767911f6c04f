package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/config"
	"github.com/milk9111/tilemap/editor"
	"github.com/milk9111/tilemap/persistence"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/milk9111/tilemap/tileset"
	"github.com/sirupsen/logrus"
)

const (
	toolbarHeight = 48
	panelWidth    = 280
)

func main() {
	configPath := flag.String("config", "tilemap.yaml", "Path to the YAML settings file")
	mapPath := flag.String("map", "", "Open a map file (JSON or zstd) instead of the stored map")
	storeKind := flag.String("store", "", "Override storage.kind (file, postgres or memory)")
	logLevel := flag.String("log-level", "", "Override log.level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *storeKind != "" {
		cfg.Storage.Kind = *storeKind
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log, logFile, err := newLogger(cfg.Log, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := run(cfg, *mapPath, log); err != nil {
		log.WithError(err).Fatal("editor: exiting")
	}
}

func run(cfg config.Config, mapPath string, log *logrus.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	log.WithField("kind", cfg.Storage.Kind).Info("editor: store opened")

	m, err := openMap(ctx, store, cfg.Storage.Key, mapPath)
	if err != nil {
		return err
	}

	images := tileset.NewProvider(log)
	saver := persistence.NewSaver(store, cfg.Storage.Key, cfg.SaveDelay, cfg.Storage.Compress, log)
	width, height := cfg.Window.Width-panelWidth, cfg.Window.Height-toolbarHeight
	session, err := editor.New(m, editor.Options{
		Config: cfg,
		Images: images,
		Saver:  saver,
		Log:    log,
		Width:  max(width, 1),
		Height: max(height, 1),
	})
	if err != nil {
		return err
	}
	defer session.Close()

	// Decode the map's tile sets before the first frame so it opens painted.
	images.Sync(ctx, session.Map())
	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	for _, id := range images.Wait(waitCtx) {
		session.RefreshTileSet(id)
	}
	waitCancel()

	var watcher *tileset.Watcher
	if len(cfg.TileSetDirs) > 0 {
		watcher, err = tileset.NewWatcher(cfg.TileSetDirs...)
		if err != nil {
			log.WithError(err).Warn("editor: tile-set directories are not watched")
		} else {
			defer watcher.Close()
		}
	}

	game := NewGame(ctx, session, images, saver, watcher, newOSClipboard(log), log)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Tile Map Editor")
	runErr := ebiten.RunGame(game)
	if errors.Is(runErr, errQuit) {
		runErr = nil
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := saver.Flush(flushCtx); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// openMap reads the map at path, or the stored map when path is empty. A nil
// map makes the session start from the default palette.
func openMap(ctx context.Context, store persistence.Store, key, path string) (*tilemap.TileMap, error) {
	if path == "" {
		return persistence.LoadMap(ctx, store, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("editor: open map: %w", err)
	}
	var m *tilemap.TileMap
	if tilemap.IsCompressed(data) {
		m, err = tilemap.UnmarshalCompressed(data)
	} else {
		m, err = tilemap.Unmarshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("editor: open map %s: %w", path, err)
	}
	return m, nil
}
