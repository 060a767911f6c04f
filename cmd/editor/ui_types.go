package main

import (
	"strconv"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/milk9111/tilemap/editor"
)

// ToolBar holds the widgets that mirror session state.
type ToolBar struct {
	group     *widget.RadioGroup
	buttons   []*widget.Button
	level     *widget.Label
	grid      *widget.Button
	onlyLevel *widget.Button
}

func (tb *ToolBar) SetTool(t editor.Tool) {
	idx := int(t)
	if tb == nil || tb.group == nil || idx < 0 || idx >= len(tb.buttons) {
		return
	}
	tb.group.SetActive(tb.buttons[idx])
}

func (tb *ToolBar) SetLevel(level int) {
	if tb == nil || tb.level == nil {
		return
	}
	tb.level.Label = "Level " + strconv.Itoa(level)
}

// SetFlags syncs the toggle buttons with the session's display flags.
func (tb *ToolBar) SetFlags(gridShown, onlyLevel bool) {
	if tb == nil {
		return
	}
	setChecked(tb.grid, gridShown)
	setChecked(tb.onlyLevel, onlyLevel)
}

func setChecked(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	state := widget.WidgetUnchecked
	if on {
		state = widget.WidgetChecked
	}
	if b.State() != state {
		b.SetState(state)
	}
}
