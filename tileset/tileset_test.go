package tileset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{G: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	raw := pngBytes(t, 4, 3)
	b64 := base64.StdEncoding.EncodeToString(raw)
	cases := []struct {
		name    string
		content string
		wantErr error
	}{
		{"data_url", "data:image/png;base64," + b64, nil},
		{"bare_base64", b64, nil},
		{"unpadded_base64", strings.TrimRight(b64, "="), nil},
		{"not_base64_url", "data:image/svg+xml,<svg/>", ErrUnsupportedContent},
		{"garbage", "%%%", ErrUnsupportedContent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			img, err := Decode(c.content)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Fatalf("unexpected bounds %v", img.Bounds())
			}
		})
	}
}

func TestDefaultPalette(t *testing.T) {
	size := tilemap.Size{Width: 8, Height: 8}
	ts, err := Default(size)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	img, err := Decode(ts.Content)
	if err != nil {
		t.Fatalf("decode default: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("unexpected palette size %v", img.Bounds())
	}
	if ts.Name != DefaultName {
		t.Fatalf("unexpected name %q", ts.Name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grass.png")
	if err := os.WriteFile(path, pngBytes(t, 2, 2), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ts, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ts.Name != "grass.png" || !strings.HasPrefix(ts.Content, "data:image/png;base64,") {
		t.Fatalf("unexpected tile set %q %.40s", ts.Name, ts.Content)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestProviderResolve(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewProvider(logger)
	ctx := context.Background()
	good := DataURL("image/png", pngBytes(t, 2, 2))

	res := <-p.Load(ctx, 0, good)
	if !p.Resolve(res) || p.TileSetImage(0) == nil {
		t.Fatalf("good content should resolve")
	}

	stale := p.Load(ctx, 1, good)
	fresh := p.Load(ctx, 1, "%%%")
	if p.Resolve(<-stale) {
		t.Fatalf("a superseded load must be dropped")
	}
	p.Resolve(<-fresh)
	if p.TileSetImage(1) != nil {
		t.Fatalf("failed decode must leave the id unresolved")
	}
	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("expected one warning, got %d entries", len(hook.Entries))
	}
}

func TestProviderSync(t *testing.T) {
	p := NewProvider(nil)
	m := tilemap.New(tilemap.Size{Width: 2, Height: 2})
	a := m.AddTileSet(tilemap.TileSet{Name: "a", Content: DataURL("image/png", pngBytes(t, 2, 2))})
	b := m.AddTileSet(tilemap.TileSet{Name: "b", Content: DataURL("image/png", pngBytes(t, 4, 4))})

	p.Sync(context.Background(), m)
	if p.Pending() != 2 {
		t.Fatalf("expected two loads, got %d", p.Pending())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	changed := p.Wait(ctx)
	if len(changed) != 2 || p.TileSetImage(a) == nil || p.TileSetImage(b) == nil {
		t.Fatalf("both tile sets should resolve, changed=%v", changed)
	}

	p.Sync(context.Background(), m)
	if p.Pending() != 0 {
		t.Fatalf("unchanged content must not reload")
	}
	m.RemoveTileSet(b)
	p.Sync(context.Background(), m)
	if p.TileSetImage(b) != nil {
		t.Fatalf("removed tile set should be forgotten")
	}
}

func TestWatcherReportsImageWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "tiles.png")
	if err := os.WriteFile(target, pngBytes(t, 2, 2), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case got := <-w.Events:
		if got != target {
			t.Fatalf("unexpected event for %s", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", target)
	}
}

func TestWatcherWaitsForWritesToSettle(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	target := filepath.Join(dir, "tiles.png")
	data := pngBytes(t, 4, 4)
	f, err := os.Create(target)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	third := len(data) / 3
	for i, chunk := range [][]byte{data[:third], data[third : 2*third], data[2*third:]} {
		if i > 0 {
			time.Sleep(quiet / 3)
		}
		if _, err := f.Write(chunk); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}
	finished := time.Now()
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != target {
			t.Fatalf("unexpected event for %s", got)
		}
		if time.Since(finished) < quiet/2 {
			t.Fatalf("reported %s before its writes settled", got)
		}
		ts, err := LoadFile(got)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if _, err := Decode(ts.Content); err != nil {
			t.Fatalf("reported a partially written image: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", target)
	}

	select {
	case got := <-w.Events:
		t.Fatalf("expected a single event, got another for %s", got)
	case <-time.After(3 * quiet):
	}
}
