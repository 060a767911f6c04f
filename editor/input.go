package editor

import (
	"github.com/milk9111/tilemap/common"
)

// PointerDown handles a primary button press at canvas pixel (x, y).
func (s *Session) PointerDown(x, y float64) {
	s.pointerX, s.pointerY = x, y
	s.hovering = true
	s.pointerDown = true
	if s.pasteMode || s.dragMode {
		return
	}
	cell := s.pointerCell()
	s.clearPreview()
	if s.tool == ToolFill {
		s.fill(cell)
		return
	}
	s.first = &cell
	s.setSelection(ptr(common.SingleCell(cell)))
	if s.tool == ToolPen {
		if _, _, _, ok := s.brush(); ok {
			s.beginStroke()
			s.paintAt(cell)
		}
	}
}

// PointerMove handles pointer motion to (x, y); (dx, dy) is the movement since
// the previous event.
func (s *Session) PointerMove(x, y float64, dx, dy int) {
	s.pointerX, s.pointerY = x, y
	s.hovering = true
	if s.dragMode {
		if s.pointerDown {
			s.Pan(dx, dy)
		}
		return
	}
	cell := s.pointerCell()
	if s.pasteMode {
		s.previewPaste(cell)
		return
	}
	if s.pointerDown {
		if s.first == nil {
			return
		}
		switch s.tool {
		case ToolArea:
			if s.expandSelection(cell) {
				s.previewPlacements(s.areaPlacements(*s.selection))
			}
		case ToolPen:
			s.paintAt(cell)
		case ToolSelection:
			s.expandSelection(cell)
		}
		return
	}
	s.hover(cell)
}

// PointerUp handles the release of the primary button.
func (s *Session) PointerUp() {
	if !s.pointerDown {
		return
	}
	s.pointerDown = false
	if s.pasteMode {
		s.endStroke()
		s.first = nil
		if s.tool != ToolSelection {
			s.setSelection(nil)
		}
		s.PasteAt(s.pointerCell())
		return
	}
	s.clearPreview()
	if s.tool == ToolArea && s.first != nil && s.selection != nil {
		s.stampArea(*s.selection)
	}
	s.endStroke()
	s.first = nil
	if s.tool != ToolSelection {
		s.setSelection(nil)
	}
	if s.hovering && !s.dragMode {
		s.hover(s.pointerCell())
	}
}

// PointerLeave handles the pointer leaving the canvas.
func (s *Session) PointerLeave() {
	s.hovering = false
	s.clearPreview()
}

// hover previews what a press at cell would do.
func (s *Session) hover(cell common.CellPosition) {
	key := cell.Key()
	if key == s.hoverKey {
		return
	}
	switch s.tool {
	case ToolPen, ToolArea:
		s.previewPlacements(s.penPlacements(cell))
	case ToolFill:
		s.previewPlacements(s.fillPlacements(cell, true))
	default:
		return
	}
	s.hoverKey = key
}

// expandSelection stretches the marquee from the pressed cell to cell and
// reports whether it changed.
func (s *Session) expandSelection(cell common.CellPosition) bool {
	a := common.AreaBetween(*s.first, cell)
	if s.selection != nil && s.selection.Equal(a) {
		return false
	}
	s.setSelection(&a)
	return true
}

// setSelection replaces the marquee, repainting under the old one.
func (s *Session) setSelection(a *common.CellArea) {
	old := s.selection
	if old == nil && a == nil {
		return
	}
	s.selection = a
	if old != nil {
		s.renderer.RenderArea(old.FromTo())
	}
	s.renderOverlays()
	s.emit(SelectionChanged)
}

// SelectArea sets the marquee directly, e.g. from a select-all shortcut.
func (s *Session) SelectArea(a common.CellArea) {
	if a.IsEmpty() {
		s.setSelection(nil)
		return
	}
	s.setSelection(&a)
}

// ClearSelection drops the marquee.
func (s *Session) ClearSelection() {
	s.setSelection(nil)
}

func ptr[T any](v T) *T {
	return &v
}
