package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

// ErrEmptyClipboard is returned when there is nothing to export.
var ErrEmptyClipboard = errors.New("editor: clipboard is empty")

// MaxClipboardCells caps the footprint of an imported clip. Pasting visits
// every footprint cell.
const MaxClipboardCells = 1 << 20

// Clipboard is a copied rectangle. Levels holds one layer per copied level,
// re-indexed so the rectangle's top-left cell is (0, 0).
type Clipboard struct {
	Levels      []*tilemap.TileLayer
	SingleLevel bool
	Rows        *big.Int
	Columns     *big.Int
}

type clipboardJSON struct {
	Levels      []*tilemap.TileLayer `json:"levels"`
	SingleLevel bool                 `json:"singleLevel"`
	Rows        string               `json:"rows"`
	Columns     string               `json:"columns"`
}

func (s *Session) Clipboard() *Clipboard {
	return s.clipboard
}

// ClipboardJSON exports the clipboard for the system clipboard.
func (s *Session) ClipboardJSON() ([]byte, error) {
	if s.clipboard == nil {
		return nil, ErrEmptyClipboard
	}
	data, err := json.Marshal(clipboardJSON{
		Levels:      s.clipboard.Levels,
		SingleLevel: s.clipboard.SingleLevel,
		Rows:        s.clipboard.Rows.String(),
		Columns:     s.clipboard.Columns.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("editor: encode clipboard: %w", err)
	}
	return data, nil
}

// SetClipboardFromJSON replaces the clipboard with data written by
// ClipboardJSON.
func (s *Session) SetClipboardFromJSON(data []byte) error {
	var raw clipboardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("editor: decode clipboard: %w", err)
	}
	rows, ok := new(big.Int).SetString(raw.Rows, 10)
	if !ok || rows.Sign() <= 0 {
		return fmt.Errorf("editor: decode clipboard: bad rows %q", raw.Rows)
	}
	columns, ok := new(big.Int).SetString(raw.Columns, 10)
	if !ok || columns.Sign() <= 0 {
		return fmt.Errorf("editor: decode clipboard: bad columns %q", raw.Columns)
	}
	if cells := new(big.Int).Mul(rows, columns); cells.Cmp(big.NewInt(MaxClipboardCells)) > 0 {
		return fmt.Errorf("editor: decode clipboard: %s x %s cells exceeds %d", rows, columns, MaxClipboardCells)
	}
	if len(raw.Levels) == 0 {
		return errors.New("editor: decode clipboard: no levels")
	}
	for i, l := range raw.Levels {
		if l == nil {
			raw.Levels[i] = tilemap.NewTileLayer()
			continue
		}
		b, ok := l.Bounds()
		if !ok {
			continue
		}
		if b.From.Row.Sign() < 0 || b.From.Column.Sign() < 0 || b.To.Row.Cmp(rows) >= 0 || b.To.Column.Cmp(columns) >= 0 {
			return fmt.Errorf("editor: decode clipboard: level %d tiles %s .. %s lie outside %s x %s", i, b.From, b.To, rows, columns)
		}
	}
	s.clipboard = &Clipboard{
		Levels:      raw.Levels,
		SingleLevel: raw.SingleLevel,
		Rows:        rows,
		Columns:     columns,
	}
	s.emit(ClipboardChanged)
	return nil
}

// copyArea extracts a from the current level only when just that level is
// shown, otherwise from every level.
func (s *Session) copyArea(a common.CellArea) *Clipboard {
	ft := a.FromTo()
	retrieve := func(l *tilemap.TileLayer) *tilemap.TileLayer {
		if l == nil {
			return tilemap.NewTileLayer()
		}
		return l.RetrieveArea(ft.From, ft.To)
	}
	clip := &Clipboard{
		SingleLevel: s.onlyCurrentLevel,
		Rows:        new(big.Int).Set(a.Height),
		Columns:     new(big.Int).Set(a.Width),
	}
	if s.onlyCurrentLevel {
		clip.Levels = []*tilemap.TileLayer{retrieve(s.tileMap.Layer(s.level))}
		return clip
	}
	for level := 0; level < s.tileMap.Levels(); level++ {
		clip.Levels = append(clip.Levels, retrieve(s.tileMap.Layer(level)))
	}
	return clip
}

// removeArea deletes a from the current level only when just that level is
// shown, otherwise from every level.
func (s *Session) removeArea(a common.CellArea) bool {
	if s.onlyCurrentLevel {
		l := s.tileMap.Layer(s.level)
		return l != nil && l.RemoveArea(a)
	}
	changed := false
	for level := 0; level < s.tileMap.Levels(); level++ {
		if s.tileMap.Layer(level).RemoveArea(a) {
			changed = true
		}
	}
	return changed
}

// Copy puts the marquee selection on the clipboard.
func (s *Session) Copy() bool {
	if s.tool != ToolSelection || s.selection == nil {
		return false
	}
	s.clipboard = s.copyArea(*s.selection)
	s.log.WithFields(logrus.Fields{
		"rows":        s.clipboard.Rows.String(),
		"columns":     s.clipboard.Columns.String(),
		"singleLevel": s.clipboard.SingleLevel,
	}).Debug("editor: copied")
	s.emit(ClipboardChanged)
	return true
}

// Cut copies the marquee selection and removes it from the map.
func (s *Session) Cut() bool {
	if !s.Copy() {
		return false
	}
	s.deleteSelection()
	return true
}

// Delete removes the tiles inside the marquee selection.
func (s *Session) Delete() bool {
	if s.selection == nil {
		return false
	}
	return s.deleteSelection()
}

func (s *Session) deleteSelection() bool {
	a := *s.selection
	if !s.edit(func() bool { return s.removeArea(a) }) {
		return false
	}
	s.renderer.RenderArea(a.FromTo())
	s.renderOverlays()
	return true
}

// Paste arms paste mode. The clipboard follows the pointer until the next
// pointer release commits it or CancelPaste drops it.
func (s *Session) Paste() bool {
	if s.clipboard == nil {
		return false
	}
	if !s.pasteMode {
		s.pasteMode = true
		s.emit(PasteModeChanged)
	}
	if s.hovering {
		s.previewPaste(s.pointerCell())
	}
	return true
}

// CancelPaste leaves paste mode without writing anything.
func (s *Session) CancelPaste() bool {
	if !s.pasteMode {
		return false
	}
	s.pasteMode = false
	s.pasteAt = nil
	s.clearPreview()
	s.emit(PasteModeChanged)
	return true
}

// pasteArea is the clipboard footprint centred under at.
func (s *Session) pasteArea(at common.CellPosition) common.CellArea {
	one := big.NewInt(1)
	halfRows := common.HalfOfCeiled(s.clipboard.Rows)
	halfColumns := common.HalfOfCeiled(s.clipboard.Columns)
	return common.CellArea{
		Row:    new(big.Int).Sub(at.Row, halfRows.Sub(halfRows, one)),
		Column: new(big.Int).Sub(at.Column, halfColumns.Sub(halfColumns, one)),
		Width:  new(big.Int).Set(s.clipboard.Columns),
		Height: new(big.Int).Set(s.clipboard.Rows),
	}
}

// pastePlacements lists every footprint cell. Single-level clips only carry
// their stored tiles, aimed at the current level.
func (s *Session) pastePlacements(at common.CellPosition) []placement {
	clip := s.clipboard
	var out []placement
	s.pasteArea(at).Each(func(offset, pos common.CellPosition) bool {
		if clip.SingleLevel {
			out = append(out, placement{pos: pos, tile: clip.Levels[0].Tile(offset)})
			return true
		}
		tiles := make(tilemap.MultiLayerTile, len(clip.Levels))
		for level, l := range clip.Levels {
			tiles[level] = l.Tile(offset)
		}
		out = append(out, placement{pos: pos, tiles: tiles})
		return true
	})
	return out
}

func (s *Session) previewPaste(at common.CellPosition) {
	if s.pasteAt != nil && s.pasteAt.Equal(at) && len(s.preview) > 0 {
		return
	}
	s.pasteAt = &at
	s.previewPlacements(s.pastePlacements(at))
}

// PasteAt commits the clipboard centred under at and leaves paste mode.
func (s *Session) PasteAt(at common.CellPosition) bool {
	if s.clipboard == nil {
		return false
	}
	wasPasting := s.pasteMode
	s.pasteMode = false
	s.pasteAt = nil
	s.clearPreview()
	ps := s.pastePlacements(at)
	changed := s.edit(func() bool { return s.apply(ps) })
	s.log.WithFields(logrus.Fields{"at": at.String(), "changed": changed}).Debug("editor: pasted")
	if wasPasting {
		s.emit(PasteModeChanged)
	}
	if changed {
		s.renderer.RenderArea(s.pasteArea(at).FromTo())
	}
	s.renderOverlays()
	return changed
}
