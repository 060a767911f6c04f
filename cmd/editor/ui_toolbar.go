package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilemap/editor"
)

// toolbarActions are the session operations the tool bar triggers.
type toolbarActions struct {
	toolSelected    func(tool editor.Tool)
	levelDown       func()
	levelUp         func()
	toggleGrid      func()
	toggleOnlyLevel func()
	zoomOut         func()
	zoomIn          func()
	newMap          func()
}

func newButton(theme *widget.Theme, fontFace *text.Face, label string, width int, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, fontFace, buttonTextColor()),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, 40),
		),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func newToggle(theme *widget.Theme, fontFace *text.Face, label string, width int, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, fontFace, buttonTextColor()),
		widget.ButtonOpts.ToggleMode(),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, 40),
		),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, actions toolbarActions, initialTool editor.Tool) (*widget.Container, *ToolBar) {
	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, toolbarHeight),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(4)),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(toolbarBackground)),
	)

	var toolButtons []*widget.Button
	for _, tool := range editor.Tools {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(tool.String(), fontFace, buttonTextColor()),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(72, 40),
			),
		)
		toolButtons = append(toolButtons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(toolButtons))
	for _, b := range toolButtons {
		elements = append(elements, b)
	}

	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if actions.toolSelected == nil {
				return
			}
			for idx, b := range toolButtons {
				if args.Active == b {
					actions.toolSelected(editor.Tools[idx])
					return
				}
			}
		}),
	)

	level := widget.NewLabel(
		widget.LabelOpts.Text("Level 0", fontFace, theme.LabelTheme.Color),
		widget.LabelOpts.TextOpts(
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.MinSize(72, 40)),
			widget.TextOpts.Position(widget.TextPositionCenter, widget.TextPositionCenter),
		),
	)
	grid := newToggle(theme, fontFace, "Grid", 56, actions.toggleGrid)
	onlyLevel := newToggle(theme, fontFace, "Only level", 96, actions.toggleOnlyLevel)

	toolbar.AddChild(newButton(theme, fontFace, "-", 32, actions.levelDown))
	toolbar.AddChild(level)
	toolbar.AddChild(newButton(theme, fontFace, "+", 32, actions.levelUp))
	toolbar.AddChild(grid)
	toolbar.AddChild(onlyLevel)
	toolbar.AddChild(newButton(theme, fontFace, "Zoom -", 64, actions.zoomOut))
	toolbar.AddChild(newButton(theme, fontFace, "Zoom +", 64, actions.zoomIn))
	toolbar.AddChild(newButton(theme, fontFace, "New", 56, actions.newMap))

	tb := &ToolBar{group: group, buttons: toolButtons, level: level, grid: grid, onlyLevel: onlyLevel}
	tb.SetTool(initialTool)
	return toolbar, tb
}
