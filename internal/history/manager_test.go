package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidetext/internal/buffer"
	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/journal"
	"github.com/bethropolis/tidetext/internal/types"
)

func setup(t *testing.T) (*buffer.TextBuffer, *journal.Journal, *Manager) {
	t.Helper()
	events := event.NewManager()
	j := journal.New()
	buf := buffer.New(j, buffer.WithEvents(events))
	return buf, j, NewManager(buf, j, events)
}

func TestUndoRedoInsert(t *testing.T) {
	buf, j, m := setup(t)
	_, err := buf.InsertText("hello", 0)
	require.NoError(t, err)

	ok, err := m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", buf.AsStr())
	assert.Equal(t, 0, j.Size())
	assert.True(t, m.CanRedo())

	ok, err = m.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", buf.AsStr())
	assert.Equal(t, 1, j.Size())
	assert.False(t, m.CanRedo())
}

func TestUndoDeleteRestoresText(t *testing.T) {
	buf, _, m := setup(t)
	_, _ = buf.InsertText("hello", 0)
	require.NoError(t, buf.DeleteCharRange(types.NewCharRange(1, 4)))
	assert.Equal(t, "ho", buf.AsStr())

	_, err := m.Undo()
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.AsStr())
}

func TestUndoAllThenRedoAll(t *testing.T) {
	buf, _, m := setup(t)
	_, _ = buf.InsertText("abc", 0)
	_, _ = buf.InsertText("XY", 1)
	_ = buf.Replace("new")
	final := buf.AsStr()

	for m.CanUndo() {
		_, err := m.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, "", buf.AsStr())

	for m.CanRedo() {
		_, err := m.Redo()
		require.NoError(t, err)
	}
	assert.Equal(t, final, buf.AsStr())
}

func TestForwardEditClearsRedo(t *testing.T) {
	buf, _, m := setup(t)
	_, _ = buf.InsertText("a", 0)
	_, _ = m.Undo()
	require.True(t, m.CanRedo())

	_, _ = buf.InsertText("b", 0)
	assert.False(t, m.CanRedo())
}

func TestNothingToUndoOrRedo(t *testing.T) {
	_, _, m := setup(t)
	ok, err := m.Undo()
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Redo()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUndoFailureKeepsJournal(t *testing.T) {
	j := journal.New()
	buf := buffer.New(j)
	m := NewManager(buf, j, nil)
	_, _ = buf.InsertText("abc", 0)
	buf.SetMutable(false)

	ok, err := m.Undo()
	assert.False(t, ok)
	assert.ErrorIs(t, err, buffer.ErrNotMutable)
	assert.Equal(t, 1, j.Size())
	assert.Equal(t, "abc", buf.AsStr())
}

func TestRedoFailureKeepsRedo(t *testing.T) {
	buf, _, m := setup(t)
	_, _ = buf.InsertText("abc", 0)
	_, _ = m.Undo()
	buf.SetMutable(false)

	ok, err := m.Redo()
	assert.False(t, ok)
	assert.Error(t, err)
	assert.True(t, m.CanRedo())
}

func TestUndoMarksDirty(t *testing.T) {
	buf, _, m := setup(t)
	_, _ = buf.InsertText("abc", 0)
	buf.SetEdited(false)

	_, _ = m.Undo()
	assert.True(t, buf.IsEdited())
}

func TestHistoryChangedEvent(t *testing.T) {
	events := event.NewManager()
	j := journal.New()
	buf := buffer.New(j, buffer.WithEvents(events))
	m := NewManager(buf, j, events)

	var got []event.HistoryChangedData
	events.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		got = append(got, e.Data.(event.HistoryChangedData))
		return false
	})

	_, _ = buf.InsertText("x", 0)
	_, _ = m.Undo()
	_, _ = m.Redo()

	require.Len(t, got, 2)
	assert.True(t, got[0].Undo)
	assert.False(t, got[0].CanUndo)
	assert.True(t, got[0].CanRedo)
	assert.False(t, got[1].Undo)
	assert.True(t, got[1].CanUndo)
}

func TestMaxRedoBound(t *testing.T) {
	events := event.NewManager()
	j := journal.New()
	buf := buffer.New(j, buffer.WithEvents(events))
	m := NewManager(buf, j, events, WithMaxRedo(1))

	_, _ = buf.InsertText("a", 0)
	_, _ = buf.InsertText("b", 1)
	_, _ = m.Undo()
	_, _ = m.Undo()

	ok, _ := m.Redo()
	assert.True(t, ok)
	assert.Equal(t, "a", buf.AsStr())
	ok, _ = m.Redo()
	assert.False(t, ok)
}

func TestClearResetsBothStacks(t *testing.T) {
	buf, j, m := setup(t)
	_, _ = buf.InsertText("a", 0)
	_, _ = buf.InsertText("b", 1)
	_, _ = m.Undo()

	m.Clear()
	assert.Equal(t, 0, j.Size())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}
