package editor

// Tool is the active editing tool.
type Tool int

const (
	ToolPen Tool = iota
	ToolArea
	ToolFill
	ToolSelection
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "Pen"
	case ToolArea:
		return "Area"
	case ToolFill:
		return "Fill"
	case ToolSelection:
		return "Selection"
	default:
		return "Unknown"
	}
}

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPen, ToolArea, ToolFill, ToolSelection}

// EventKind classifies session notifications.
type EventKind int

const (
	ToolChanged EventKind = iota
	LevelChanged
	MapReplaced
	MapEdited
	ViewportChanged
	SelectionChanged
	ClipboardChanged
	TileSetSelectionChanged
	PasteModeChanged
)

func (k EventKind) String() string {
	switch k {
	case ToolChanged:
		return "ToolChanged"
	case LevelChanged:
		return "LevelChanged"
	case MapReplaced:
		return "MapReplaced"
	case MapEdited:
		return "MapEdited"
	case ViewportChanged:
		return "ViewportChanged"
	case SelectionChanged:
		return "SelectionChanged"
	case ClipboardChanged:
		return "ClipboardChanged"
	case TileSetSelectionChanged:
		return "TileSetSelectionChanged"
	case PasteModeChanged:
		return "PasteModeChanged"
	default:
		return "Unknown"
	}
}

// Event is delivered synchronously to every listener after the session state
// it describes is in place.
type Event struct {
	Kind  EventKind
	Tool  Tool
	Level int
}

// OnChange registers fn for every session event.
func (s *Session) OnChange(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) emit(kind EventKind) {
	e := Event{Kind: kind, Tool: s.tool, Level: s.level}
	for _, fn := range s.listeners {
		fn(e)
	}
}
