package editor

import (
	"testing"

	"github.com/milk9111/tilemap/common"
	"github.com/milk9111/tilemap/tilemap"
)

// paintBlock paints the 2x2 brush starting at tile-set tile (0, 0) with its
// top-left at cell (0, 0).
func paintBlock(f *fixture) {
	f.brush(0, 0, 2, 2)
	f.ChangeTool(ToolPen)
	f.click(0, 0)
}

func TestCutAndPasteBlock(t *testing.T) {
	f := newFixture(t, nil, nil)
	paintBlock(f)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 1, 1)
	if !f.Cut() {
		t.Fatalf("cut should succeed with a marquee")
	}
	if f.Map().Layer(0).Len() != 0 {
		t.Fatalf("cut should empty the source cells")
	}

	if !f.Paste() || !f.InPasteMode() {
		t.Fatalf("paste should arm paste mode")
	}
	x, y := center(0, 2)
	f.PointerMove(x, y, 0, 0)
	if f.Map().Layer(0).Len() != 0 {
		t.Fatalf("the paste preview must not edit the map")
	}
	f.PointerDown(x, y)
	f.PointerUp()

	if f.InPasteMode() {
		t.Fatalf("committing must leave paste mode")
	}
	want := map[[2]int64]tilemap.Tile{
		{0, 2}: tileXY(0, 0),
		{0, 3}: tileXY(1, 0),
		{1, 2}: tileXY(0, 1),
		{1, 3}: tileXY(1, 1),
	}
	for cell, tile := range want {
		got := f.tileAt(0, cell[0], cell[1])
		if got == nil || !got.Equal(tile) {
			t.Fatalf("cell %v: expected %+v, got %+v", cell, tile, got)
		}
	}
	if f.Map().Layer(0).Len() != 4 {
		t.Fatalf("expected exactly the pasted block, got %d tiles", f.Map().Layer(0).Len())
	}

	// paint, cut and paste are three undo steps
	if f.BackupCount() != 3 {
		t.Fatalf("expected 3 backups, got %d", f.BackupCount())
	}
	f.Undo()
	if f.Map().Layer(0).Len() != 0 {
		t.Fatalf("undoing the paste should restore the cut state")
	}
}

func TestPasteCentresOddClip(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.brush(0, 0, 3, 3)
	f.click(0, 0)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 2, 2)
	f.Copy()
	f.PasteAt(common.NewCellPosition(10, 10))
	// a 3x3 clip is centred on its middle cell
	if got := f.tileAt(0, 9, 9); got == nil || !got.Equal(tileXY(0, 0)) {
		t.Fatalf("expected the clip's top-left at (9, 9), got %+v", got)
	}
	if got := f.tileAt(0, 11, 11); got == nil || !got.Equal(tileXY(2, 2)) {
		t.Fatalf("expected the clip's bottom-right at (11, 11), got %+v", got)
	}
}

func TestCopyNeedsSelectionTool(t *testing.T) {
	f := newFixture(t, nil, nil)
	paintBlock(f)
	f.SelectArea(common.AreaBetween(common.NewCellPosition(0, 0), common.NewCellPosition(1, 1)))
	if f.Copy() || f.Cut() {
		t.Fatalf("copy and cut only work with the selection tool")
	}
	if f.Paste() {
		t.Fatalf("paste needs a clipboard")
	}
}

func TestCancelPaste(t *testing.T) {
	f := newFixture(t, nil, nil)
	paintBlock(f)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 1, 1)
	f.Copy()
	f.Paste()
	x, y := center(5, 5)
	f.PointerMove(x, y, 0, 0)
	if !f.CancelPaste() || f.InPasteMode() {
		t.Fatalf("cancel should leave paste mode")
	}
	f.PointerDown(x, y)
	f.PointerUp()
	if f.tileAt(0, 5, 5) != nil {
		t.Fatalf("a cancelled paste must not write")
	}
	if f.CancelPaste() {
		t.Fatalf("nothing to cancel")
	}
}

func TestSingleLevelPasteKeepsEmptyCells(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.brush(0, 0, 1, 1)
	f.click(0, 0)
	f.Map().SetTile(common.NewCellPosition(5, 6), tileXY(4, 4), 0)

	f.ToggleRenderOnlyCurrentLevel()
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 0, 1)
	f.Copy()
	if !f.Clipboard().SingleLevel || len(f.Clipboard().Levels) != 1 {
		t.Fatalf("only the current level should be copied")
	}
	f.PasteAt(common.NewCellPosition(5, 5))
	if got := f.tileAt(0, 5, 5); got == nil || !got.Equal(tileXY(0, 0)) {
		t.Fatalf("expected the copied tile at (5, 5), got %+v", got)
	}
	if got := f.tileAt(0, 5, 6); got == nil || !got.Equal(tileXY(4, 4)) {
		t.Fatalf("an empty clip cell must not clear the target, got %+v", got)
	}
}

func TestMultiLevelPasteClearsEmptyCells(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.brush(0, 0, 1, 1)
	f.click(0, 0)
	f.SetLevel(1)
	f.click(0, 1)
	f.SetLevel(0)
	f.Map().SetTile(common.NewCellPosition(5, 6), tileXY(4, 4), 0)

	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 0, 1)
	f.Copy()
	if f.Clipboard().SingleLevel || len(f.Clipboard().Levels) != 2 {
		t.Fatalf("every level should be copied")
	}
	f.PasteAt(common.NewCellPosition(5, 5))
	if f.tileAt(0, 5, 6) != nil {
		t.Fatalf("an empty level-0 clip cell should clear the target")
	}
	if got := f.tileAt(1, 5, 6); got == nil || !got.Equal(tileXY(0, 0)) {
		t.Fatalf("expected the level-1 tile at (5, 6), got %+v", got)
	}
	if got := f.tileAt(0, 5, 5); got == nil || !got.Equal(tileXY(0, 0)) {
		t.Fatalf("expected the level-0 tile at (5, 5), got %+v", got)
	}
}

func TestDeleteSelection(t *testing.T) {
	f := newFixture(t, nil, nil)
	paintBlock(f)
	f.SetLevel(1)
	f.click(0, 0)
	f.SetLevel(0)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 0, 1)

	f.ToggleRenderOnlyCurrentLevel()
	if !f.Delete() {
		t.Fatalf("delete should remove the selected tiles")
	}
	if f.tileAt(0, 0, 0) != nil || f.tileAt(1, 0, 0) == nil {
		t.Fatalf("single-level delete must only touch the current level")
	}
	f.ToggleRenderOnlyCurrentLevel()
	if !f.Delete() || f.tileAt(1, 0, 0) != nil {
		t.Fatalf("delete should clear every level")
	}
	if f.Delete() {
		t.Fatalf("deleting empty cells is not an edit")
	}
	if f.tileAt(0, 1, 0) == nil {
		t.Fatalf("cells outside the marquee must survive")
	}
}

func TestClipboardJSON(t *testing.T) {
	f := newFixture(t, nil, nil)
	if _, err := f.ClipboardJSON(); err != ErrEmptyClipboard {
		t.Fatalf("expected %v, got %v", ErrEmptyClipboard, err)
	}
	paintBlock(f)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 1, 1)
	f.Copy()
	data, err := f.ClipboardJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	g := newFixture(t, nil, nil)
	if err := g.SetClipboardFromJSON(data); err != nil {
		t.Fatalf("import: %v", err)
	}
	clip := g.Clipboard()
	if clip.Rows.Int64() != 2 || clip.Columns.Int64() != 2 || clip.Levels[0].Len() != 4 {
		t.Fatalf("unexpected clipboard %+v", clip)
	}
	if !g.saw(ClipboardChanged) {
		t.Fatalf("expected a ClipboardChanged event")
	}
	g.PasteAt(common.NewCellPosition(0, 0))
	if got := g.tileAt(0, 1, 1); got == nil || !got.Equal(tileXY(1, 1)) {
		t.Fatalf("imported clip pasted wrong, got %+v", got)
	}

	for _, bad := range []string{`nope`, `{"levels":[{}],"rows":"0","columns":"1"}`, `{"levels":[],"rows":"1","columns":"1"}`} {
		if err := g.SetClipboardFromJSON([]byte(bad)); err == nil {
			t.Fatalf("expected an error for %s", bad)
		}
	}
}

func TestPastePreviewSurvivesZoom(t *testing.T) {
	f := newFixture(t, nil, nil)
	paintBlock(f)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 1, 1)
	f.Copy()
	// a 1x1 pen brush would preview a single cell
	f.brush(0, 0, 1, 1)
	f.ChangeTool(ToolPen)
	f.Paste()
	x, y := center(5, 5)
	f.PointerMove(x, y, 0, 0)
	if len(f.preview) != 4 {
		t.Fatalf("expected a 4 cell paste preview, got %d", len(f.preview))
	}

	for _, zoom := range []struct {
		name string
		do   func()
	}{
		{"in", f.ZoomIn},
		{"out", f.ZoomOut},
	} {
		t.Run(zoom.name, func(t *testing.T) {
			zoom.do()
			if !f.InPasteMode() {
				t.Fatalf("zooming must not leave paste mode")
			}
			if len(f.preview) != 4 {
				t.Fatalf("expected a 4 cell paste preview after zoom, got %d", len(f.preview))
			}
			if f.pasteAt == nil || !f.pasteAt.Equal(f.pointerCell()) {
				t.Fatalf("paste preview should follow the cell under the pointer")
			}
		})
	}
}

func TestPasteCommitEndsPenStroke(t *testing.T) {
	f := newFixture(t, nil, nil)
	paintBlock(f)
	f.ChangeTool(ToolSelection)
	f.drag(0, 0, 1, 1)
	f.Copy()
	f.ChangeTool(ToolPen)

	x, y := center(5, 5)
	f.PointerMove(x, y, 0, 0)
	f.PointerDown(x, y)
	f.Paste()
	x, y = center(8, 8)
	f.PointerMove(x, y, 0, 0)
	f.PointerUp()

	if f.stroke != nil {
		t.Fatalf("releasing the pointer must end the pen stroke")
	}
	if f.InPasteMode() || f.tileAt(0, 8, 8) == nil {
		t.Fatalf("expected the clip pasted at (8, 8)")
	}
	// paint, stroke and paste are three undo steps
	if f.BackupCount() != 3 {
		t.Fatalf("expected 3 backups, got %d", f.BackupCount())
	}
	f.Undo()
	if f.tileAt(0, 8, 8) != nil || f.tileAt(0, 5, 5) == nil {
		t.Fatalf("first undo should only revert the paste")
	}
	f.Undo()
	if f.tileAt(0, 5, 5) != nil {
		t.Fatalf("second undo should revert the stroke")
	}
}

func TestSetClipboardFromJSONRejectsOversizedClips(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"huge_footprint", `{"levels":[{}],"rows":"1000000000000","columns":"1000000000000"}`},
		{"just_over_cap", `{"levels":[{}],"rows":"1025","columns":"1024"}`},
		{"tile_below_footprint", `{"levels":[{"2":{"0":{"x":0,"y":0,"tileSet":0}}}],"rows":"2","columns":"2"}`},
		{"tile_left_of_footprint", `{"levels":[{"0":{"-1":{"x":0,"y":0,"tileSet":0}}}],"rows":"2","columns":"2"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, nil, nil)
			if err := f.SetClipboardFromJSON([]byte(c.data)); err == nil {
				t.Fatalf("expected an error for %s", c.data)
			}
			if f.Clipboard() != nil {
				t.Fatalf("a rejected clip must not replace the clipboard")
			}
		})
	}

	f := newFixture(t, nil, nil)
	ok := `{"levels":[{"1023":{"1023":{"x":0,"y":0,"tileSet":0}}}],"rows":"1024","columns":"1024"}`
	if err := f.SetClipboardFromJSON([]byte(ok)); err != nil {
		t.Fatalf("a clip at the cap should be accepted: %v", err)
	}
}
