// internal/event/event.go
package event

import "github.com/bethropolis/tidetext/internal/journal"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeBufferModified // Fired after every successful buffer mutation
	TypeBufferLoaded   // Fired after a document is successfully loaded
	TypeBufferSaved    // Fired after a document is successfully saved
	TypeHistoryChanged // Fired after an undo or redo step

	// Application lifecycle events
	TypeAppReady // Fired when the application is fully initialized
	TypeAppQuit  // Fired just before application termination begins
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeBufferSaved:
		return "BufferSaved"
	case TypeHistoryChanged:
		return "HistoryChanged"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// Source tells subscribers who produced a buffer mutation.
type Source int

const (
	SourceEdit    Source = iota // editing surface, plugins, redo
	SourceHistory               // inverse applied by undo, not journaled
)

// BufferModifiedData describes one applied operation.
type BufferModifiedData struct {
	Op     journal.Operation
	Source Source
}

// BufferLoadedData contains info about the loaded document.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved document.
type BufferSavedData struct {
	FilePath string
}

// HistoryChangedData reports the outcome of an undo or redo step.
type HistoryChangedData struct {
	Undo    bool // false for redo
	Op      journal.Operation
	CanUndo bool
	CanRedo bool
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
