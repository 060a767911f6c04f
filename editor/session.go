package editor

import (
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/config"
	"github.com/milk9111/tilemap/render"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/milk9111/tilemap/tileset"
	"github.com/milk9111/tilemap/viewport"
	"github.com/sirupsen/logrus"
)

// ErrNegativeLevel is returned by SetLevel for levels below the floor.
var ErrNegativeLevel = errors.New("editor: only levels greater than or equal to 0 are supported")

// Saver receives the map after every edit. persistence.Saver implements it.
type Saver interface {
	Schedule(m *tilemap.TileMap)
}

// Options configures a Session.
type Options struct {
	Config config.Config
	// Images resolves tile-set ids for the renderer; may be nil.
	Images render.ImageSource
	Saver  Saver
	Log    logrus.FieldLogger
	// Width and Height are the canvas size in pixels.
	Width, Height int
}

// Session is one open map together with everything the user is doing to it.
// It is not safe for concurrent use; the host drives it from its update loop.
type Session struct {
	cfg    config.Config
	log    logrus.FieldLogger
	saver  Saver
	images render.ImageSource

	tileMap  *tilemap.TileMap
	vp       *viewport.Viewport
	renderer *render.Renderer

	level            int
	tool             Tool
	onlyCurrentLevel bool
	gridShown        bool
	dragMode         bool

	tileSet          tilemap.TileSetID
	tileSetSelection *common.Area
	tileSetAnchor    image.Point

	pointerDown        bool
	hovering           bool
	pointerX, pointerY float64
	first              *common.CellPosition
	selection          *common.CellArea
	stroke             *stroke
	preview            []common.CellPosition
	hoverKey           string

	pasteMode bool
	pasteAt   *common.CellPosition
	clipboard *Clipboard

	backups   []*tilemap.TileMap
	listeners []func(Event)
}

type stroke struct {
	changed bool
	last    string
}

// New opens m for editing. A nil map starts a fresh one with the default
// palette.
func New(m *tilemap.TileMap, opts Options) (*Session, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Session{
		cfg:       cfg,
		log:       log,
		saver:     opts.Saver,
		images:    opts.Images,
		gridShown: cfg.ShowGrid,
	}
	s.vp = viewport.New(cfg.TileSize(), opts.Width, opts.Height)
	s.vp.Steps = cfg.ZoomSteps

	if m == nil {
		var err error
		if m, err = s.defaultMap(); err != nil {
			return nil, err
		}
	}
	s.tileMap = m

	r, err := render.New(s, opts.Images, render.Options{
		UpperLevelAlpha:   cfg.UpperLevelAlpha,
		GridThinThreshold: cfg.GridThinThreshold,
		CacheBytes:        cfg.TileCacheMB << 20,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	s.renderer = r
	if err := s.replaceMap(m); err != nil {
		r.Close()
		return nil, err
	}
	s.RenderAll()
	return s, nil
}

// Close releases the renderer.
func (s *Session) Close() {
	s.renderer.Close()
}

func (s *Session) defaultMap() (*tilemap.TileMap, error) {
	size := s.cfg.TileSize()
	ts, err := tileset.Default(size)
	if err != nil {
		return nil, fmt.Errorf("editor: create default tile set: %w", err)
	}
	m := tilemap.New(size)
	m.AddTileSet(ts)
	return m, nil
}

// replaceMap installs m and resets everything that belonged to the previous
// map.
func (s *Session) replaceMap(m *tilemap.TileMap) error {
	if !m.TileSize.Valid() {
		return tilemap.ErrInvalidTileSize
	}
	var fallback tilemap.TileSet
	if len(m.TileSets) == 0 {
		ts, err := tileset.Default(m.TileSize)
		if err != nil {
			return fmt.Errorf("editor: create default tile set: %w", err)
		}
		fallback = ts
	}
	tilemap.Migrate(m, fallback)

	s.tileMap = m
	s.vp.SetTileSize(m.TileSize)
	s.renderer.SetImageSource(s.images)

	s.first = nil
	s.selection = nil
	s.stroke = nil
	s.preview = nil
	s.hoverKey = ""
	s.pasteMode = false
	s.pasteAt = nil
	s.clipboard = nil
	s.backups = nil
	s.tileSetSelection = nil
	s.tileSet = 0
	if ids := m.TileSetIDs(); len(ids) > 0 {
		s.tileSet = ids[0]
	}
	if s.level >= m.Levels() {
		s.level = max(m.HighestPopulatedLevel(), 0)
	}
	return nil
}

// Map is the map being edited.
func (s *Session) Map() *tilemap.TileMap {
	return s.tileMap
}

func (s *Session) Viewport() *viewport.Viewport {
	return s.vp
}

func (s *Session) Renderer() *render.Renderer {
	return s.renderer
}

func (s *Session) Level() int {
	return s.level
}

func (s *Session) RenderOnlyCurrentLevel() bool {
	return s.onlyCurrentLevel
}

func (s *Session) GridShown() bool {
	return s.gridShown
}

func (s *Session) Tool() Tool {
	return s.tool
}

func (s *Session) DragMode() bool {
	return s.dragMode
}

func (s *Session) InPasteMode() bool {
	return s.pasteMode
}

// Selection is the marquee selection in map cells.
func (s *Session) Selection() (common.CellArea, bool) {
	if s.selection == nil {
		return common.CellArea{}, false
	}
	return *s.selection, true
}

// NewMap replaces the open map with an empty one using the default palette.
func (s *Session) NewMap() error {
	m, err := s.defaultMap()
	if err != nil {
		return err
	}
	if err := s.LoadMap(m); err != nil {
		return err
	}
	s.scheduleSave()
	return nil
}

// LoadMap replaces the open map. Undo history and every transient selection
// are dropped.
func (s *Session) LoadMap(m *tilemap.TileMap) error {
	if m == nil {
		return errors.New("editor: load map: nil map")
	}
	if err := s.replaceMap(m); err != nil {
		return fmt.Errorf("editor: load map: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"tileWidth":  m.TileSize.Width,
		"tileHeight": m.TileSize.Height,
		"levels":     m.Levels(),
		"tileSets":   len(m.TileSets),
	}).Info("editor: map loaded")
	s.emit(MapReplaced)
	s.RenderAll()
	return nil
}

// ChangeTool switches the active tool. A real change drops the marquee.
func (s *Session) ChangeTool(t Tool) {
	if t == s.tool {
		return
	}
	s.tool = t
	s.clearPreview()
	s.setSelection(nil)
	s.emit(ToolChanged)
}

// SetLevel makes level the one edits apply to.
func (s *Session) SetLevel(level int) error {
	if level < 0 {
		return ErrNegativeLevel
	}
	if level == s.level {
		return nil
	}
	s.level = level
	s.emit(LevelChanged)
	s.RenderAll()
	return nil
}

func (s *Session) IncrementLevel() {
	_ = s.SetLevel(s.level + 1)
}

// DecrementLevel stops at the floor.
func (s *Session) DecrementLevel() {
	if s.level > 0 {
		_ = s.SetLevel(s.level - 1)
	}
}

func (s *Session) ToggleGrid() {
	s.gridShown = !s.gridShown
	s.RenderAll()
}

func (s *Session) ToggleRenderOnlyCurrentLevel() {
	s.onlyCurrentLevel = !s.onlyCurrentLevel
	s.RenderAll()
}

// SetDragMode routes pointer drags to panning while enabled.
func (s *Session) SetDragMode(enabled bool) {
	if enabled == s.dragMode {
		return
	}
	s.dragMode = enabled
	if enabled {
		s.clearPreview()
	}
}

func (s *Session) ZoomIn() {
	s.applyViewport(s.vp.ZoomIn(s.pointerX, s.pointerY))
}

func (s *Session) ZoomOut() {
	s.applyViewport(s.vp.ZoomOut(s.pointerX, s.pointerY))
}

func (s *Session) ResetZoom() {
	s.applyViewport(s.vp.ResetZoom(s.pointerX, s.pointerY))
}

// Pan moves the content by (dx, dy) screen pixels.
func (s *Session) Pan(dx, dy int) {
	s.applyViewport(s.vp.Pan(dx, dy))
}

// Resize adapts the canvas to a new window size.
func (s *Session) Resize(width, height int) {
	if width == s.vp.Width && height == s.vp.Height {
		return
	}
	s.vp.Resize(width, height)
	s.preview = nil
	s.renderer.Apply(viewport.Change{})
	s.renderOverlays()
	s.emit(ViewportChanged)
}

func (s *Session) applyViewport(change viewport.Change) {
	if change.IsZero() {
		return
	}
	s.clearPreview()
	// the paste outline is redrawn for the cell now under the pointer
	s.pasteAt = nil
	s.renderer.Apply(change)
	s.renderOverlays()
	s.emit(ViewportChanged)
	if !s.hovering || s.dragMode {
		return
	}
	if s.pasteMode {
		s.previewPaste(s.pointerCell())
		return
	}
	if !s.pointerDown {
		s.hover(s.pointerCell())
	}
}

// RenderAll repaints the canvas and the overlays.
func (s *Session) RenderAll() {
	s.preview = nil
	s.hoverKey = ""
	s.renderer.RenderAll()
	s.renderOverlays()
}

// RefreshTileSet repaints after the image of id changed or finished loading.
func (s *Session) RefreshTileSet(id tilemap.TileSetID) {
	s.renderer.InvalidateTileSet(id)
	s.RenderAll()
}

// SetImageSource swaps the tile-set image provider and repaints.
func (s *Session) SetImageSource(images render.ImageSource) {
	s.images = images
	s.renderer.SetImageSource(images)
	s.RenderAll()
}

func (s *Session) scheduleSave() {
	if s.saver != nil {
		s.saver.Schedule(s.tileMap)
	}
}

func (s *Session) pointerCell() common.CellPosition {
	return s.vp.ScreenToCell(s.pointerX, s.pointerY)
}
