package app

import (
	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/logger"
)

// handleBufferLoaded reports a completed load.
func (a *App) handleBufferLoaded(e event.Event) bool {
	if data, ok := e.Data.(event.BufferLoadedData); ok {
		logger.Debugf("App: Buffer loaded from '%s'", data.FilePath)
	}
	return false // Not consumed
}

// handleBufferSaved runs for explicit saves and autosaves alike.
func (a *App) handleBufferSaved(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		logger.Debugf("App: Buffer saved to '%s'", data.FilePath)
	}
	return false // Not consumed
}

func (a *App) handleHistoryChanged(e event.Event) bool {
	data, ok := e.Data.(event.HistoryChangedData)
	if !ok {
		logger.Warnf("App: Received HistoryChanged event with unexpected data type: %T", e.Data)
		return false
	}
	step := "redo"
	if data.Undo {
		step = "undo"
	}
	logger.DebugTagf("history", "App: %s %s (can undo: %v, can redo: %v)", step, data.Op, data.CanUndo, data.CanRedo)
	return false
}
