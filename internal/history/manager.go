// Package history provides undo/redo on top of a document's edit journal.
package history

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/journal"
	"github.com/bethropolis/tidetext/internal/logger"
)

const DefaultMaxRedo = 100

// Target is what the manager needs from the buffer.
type Target interface {
	// Apply applies and journals an operation.
	Apply(op journal.Operation) error
	// Restore applies an operation without journaling it.
	Restore(op journal.Operation) error
}

// Manager turns the journal into an undo stack and keeps its own redo stack.
// Undo pops the last journaled operation and applies its inverse; Redo
// re-applies the original, which journals it again. Any forward edit that
// the manager did not issue itself clears the redo stack.
//
// The manager is the journal's single draining consumer.
type Manager struct {
	target  Target
	journal *journal.Journal
	events  *event.Manager

	mutex     sync.Mutex
	redo      []journal.Operation
	maxRedo   int
	replaying atomic.Bool // set while Redo applies, so our own edit doesn't clear redo
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxRedo bounds the redo stack.
func WithMaxRedo(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRedo = n
		}
	}
}

// NewManager creates a history manager. When events is non-nil the manager
// subscribes to TypeBufferModified to invalidate redo on forward edits, and
// dispatches TypeHistoryChanged after each step.
func NewManager(target Target, j *journal.Journal, events *event.Manager, opts ...Option) *Manager {
	m := &Manager{
		target:  target,
		journal: j,
		events:  events,
		maxRedo: DefaultMaxRedo,
	}
	for _, opt := range opts {
		opt(m)
	}
	if events != nil {
		events.Subscribe(event.TypeBufferModified, m.handleBufferModified)
	}
	return m
}

func (m *Manager) handleBufferModified(e event.Event) bool {
	data, ok := e.Data.(event.BufferModifiedData)
	if !ok || data.Source != event.SourceEdit || m.replaying.Load() {
		return false
	}
	m.ClearRedo()
	return false
}

// Undo reverts the last journaled operation.
// It returns false with no error when there is nothing to undo.
func (m *Manager) Undo() (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	op, ok := m.journal.PopLast()
	if !ok {
		logger.DebugTagf("history", "History: Nothing to undo.")
		return false, nil
	}

	if err := m.target.Restore(journal.Invert(op)); err != nil {
		m.journal.Record(op) // put it back, the buffer is unchanged
		logger.Errorf("History: Error undoing %s: %v", op, err)
		return false, fmt.Errorf("undo failed: %w", err)
	}

	m.redo = append(m.redo, op)
	if len(m.redo) > m.maxRedo {
		m.redo = m.redo[len(m.redo)-m.maxRedo:]
	}
	logger.DebugTagf("history", "History: Undid %s. Undo: %d, Redo: %d", op, m.journal.Size(), len(m.redo))

	m.dispatch(true, op)
	return true, nil
}

// Redo reapplies the last undone operation.
// It returns false with no error when there is nothing to redo.
func (m *Manager) Redo() (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.redo) == 0 {
		logger.DebugTagf("history", "History: Nothing to redo.")
		return false, nil
	}
	op := m.redo[len(m.redo)-1]

	m.replaying.Store(true)
	err := m.target.Apply(op)
	m.replaying.Store(false)
	if err != nil {
		logger.Errorf("History: Error redoing %s: %v", op, err)
		return false, fmt.Errorf("redo failed: %w", err)
	}

	m.redo = m.redo[:len(m.redo)-1]
	logger.DebugTagf("history", "History: Redid %s. Undo: %d, Redo: %d", op, m.journal.Size(), len(m.redo))

	m.dispatch(false, op)
	return true, nil
}

// ClearRedo drops the redo stack.
func (m *Manager) ClearRedo() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if len(m.redo) > 0 {
		logger.DebugTagf("history", "History: Forward edit, dropping %d redo entries.", len(m.redo))
	}
	m.redo = m.redo[:0]
}

// Clear resets undo and redo. Call this on document load.
func (m *Manager) Clear() {
	m.journal.Reset()
	m.ClearRedo()
	logger.DebugTagf("history", "History: Cleared.")
}

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool {
	return m.journal.Size() > 0
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.redo) > 0
}

// dispatch must be called with m.mutex held; handlers must not call back
// into Undo or Redo.
func (m *Manager) dispatch(undo bool, op journal.Operation) {
	if m.events == nil {
		return
	}
	m.events.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{
		Undo:    undo,
		Op:      op,
		CanUndo: m.journal.Size() > 0,
		CanRedo: len(m.redo) > 0,
	})
}
