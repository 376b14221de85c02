package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/journal"
	"github.com/bethropolis/tidetext/internal/types"
)

func newBuffer(t *testing.T, content string) (*TextBuffer, *journal.Journal) {
	t.Helper()
	j := journal.New()
	return New(j, WithContent(content)), j
}

func TestInsertIntoNewBuffer(t *testing.T) {
	b, j := newBuffer(t, "")
	assert.False(t, b.IsEdited())

	n, err := b.InsertText("hello", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", b.AsStr())
	assert.True(t, b.IsEdited())
	assert.Equal(t, 1, j.Size())

	last, ok := j.PeekLast()
	require.True(t, ok)
	assert.Equal(t, journal.NewInsert("hello", 0), last)
}

func TestDeleteFirstCharacter(t *testing.T) {
	b, j := newBuffer(t, "hello")
	require.NoError(t, b.DeleteCharRange(types.NewCharRange(0, 1)))
	assert.Equal(t, "ello", b.AsStr())

	last, _ := j.PeekLast()
	assert.Equal(t, journal.NewDelete("h", 0), last)
}

func TestTakeEmptiesBuffer(t *testing.T) {
	b, j := newBuffer(t, "xyz")
	got, err := b.Take()
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)
	assert.Equal(t, "", b.AsStr())
	assert.True(t, b.IsEdited())

	last, _ := j.PeekLast()
	assert.Equal(t, journal.NewDelete("xyz", 0), last)
}

func TestInsertPastEndFails(t *testing.T) {
	b, j := newBuffer(t, "xy")
	n, err := b.InsertText("a", 10)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, 0, n)
	assert.Equal(t, "xy", b.AsStr())
	assert.Equal(t, 0, j.Size())
	assert.False(t, b.IsEdited())

	_, err = b.InsertText("a", -1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestInsertAtEndSucceeds(t *testing.T) {
	b, _ := newBuffer(t, "abc")
	_, err := b.InsertText("x", 3)
	require.NoError(t, err)
	assert.Equal(t, "abcx", b.AsStr())
}

func TestDeleteInvalidRanges(t *testing.T) {
	b, j := newBuffer(t, "hello")
	for _, r := range []types.CharRange{
		{Start: 3, End: 1},
		{Start: 0, End: 6},
		{Start: -1, End: 2},
	} {
		err := b.DeleteCharRange(r)
		assert.ErrorIs(t, err, ErrInvalidRange, "range %v", r)
	}
	assert.Equal(t, "hello", b.AsStr())
	assert.Equal(t, 0, j.Size())
	assert.False(t, b.IsEdited())
}

func TestCharacterIndexing(t *testing.T) {
	b, j := newBuffer(t, "añb€")
	assert.Equal(t, 4, b.Len())

	n, err := b.InsertText("ü", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "añüb€", b.AsStr())

	require.NoError(t, b.DeleteCharRange(types.NewCharRange(1, 3)))
	assert.Equal(t, "ab€", b.AsStr())

	last, _ := j.PeekLast()
	assert.Equal(t, journal.NewDelete("ñü", 1), last)
}

func TestClearRecordsRemovedContent(t *testing.T) {
	b, j := newBuffer(t, "abc")
	require.NoError(t, b.Clear())
	assert.Equal(t, "", b.AsStr())
	assert.True(t, b.IsEdited())

	last, _ := j.PeekLast()
	assert.Equal(t, journal.NewDelete("abc", 0), last)

	require.NoError(t, b.Clear())
	last, _ = j.PeekLast()
	assert.Equal(t, journal.NewDelete("", 0), last)
	assert.Equal(t, 2, j.Size())
}

func TestReplaceJournalsDeleteThenInsert(t *testing.T) {
	b, j := newBuffer(t, "old")
	require.NoError(t, b.Replace("new text"))
	assert.Equal(t, "new text", b.AsStr())
	assert.True(t, b.IsEdited())
	assert.Equal(t, []journal.Operation{
		journal.NewDelete("old", 0),
		journal.NewInsert("new text", 0),
	}, j.Operations())
}

func TestInvalidUTF8TextIsRejected(t *testing.T) {
	b, j := newBuffer(t, "")

	// Two halves of "中" must not fuse into one character across inserts.
	_, err := b.InsertText("\xe4\xb8", 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, "", b.AsStr())
	assert.False(t, b.IsEdited())
	assert.Zero(t, j.Size())

	n, err := b.InsertText("ab", 0)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = b.InsertText("\xad", 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.ErrorIs(t, b.Replace("x\xffy"), ErrInvalidRange)
	assert.Equal(t, "ab", b.AsStr())
	assert.Equal(t, 1, j.Size())

	// The journal still inverts cleanly back to the empty buffer.
	op, ok := j.PopLast()
	require.True(t, ok)
	require.NoError(t, b.Restore(journal.Invert(op)))
	assert.Equal(t, "", b.AsStr())
}

func TestReadOnlyBufferRejectsMutation(t *testing.T) {
	j := journal.New()
	b := New(j, WithContent("fixed"), ReadOnly())
	assert.False(t, b.IsMutable())

	_, err := b.InsertText("x", 0)
	assert.ErrorIs(t, err, ErrNotMutable)
	assert.ErrorIs(t, b.DeleteCharRange(types.NewCharRange(0, 1)), ErrNotMutable)
	assert.ErrorIs(t, b.Clear(), ErrNotMutable)
	_, err = b.Take()
	assert.ErrorIs(t, err, ErrNotMutable)
	assert.ErrorIs(t, b.Replace("y"), ErrNotMutable)
	assert.ErrorIs(t, b.Apply(journal.NewInsert("z", 0)), ErrNotMutable)

	assert.Equal(t, "fixed", b.AsStr())
	assert.Equal(t, 0, j.Size())
	assert.False(t, b.IsEdited())
}

func TestSetEditedIsNotJournaled(t *testing.T) {
	b, j := newBuffer(t, "")
	_, _ = b.InsertText("a", 0)
	b.SetEdited(false)
	assert.False(t, b.IsEdited())
	assert.Equal(t, 1, j.Size())
}

func TestReplayReproducesContent(t *testing.T) {
	b, j := newBuffer(t, "")
	_, _ = b.InsertText("hello world", 0)
	_ = b.DeleteCharRange(types.NewCharRange(5, 11))
	_, _ = b.InsertText(", there", 5)
	_ = b.Replace("größer")
	_, _ = b.InsertText("!", 6)
	_ = b.DeleteCharRange(types.NewCharRange(0, 1))

	got, err := j.Replay("")
	require.NoError(t, err)
	assert.Equal(t, b.AsStr(), got)
}

func TestRestoreDoesNotJournal(t *testing.T) {
	b, j := newBuffer(t, "")
	_, _ = b.InsertText("abc", 0)
	op, _ := j.PopLast()

	require.NoError(t, b.Restore(journal.Invert(op)))
	assert.Equal(t, "", b.AsStr())
	assert.Equal(t, 0, j.Size())
	assert.True(t, b.IsEdited())
}

func TestApplyRejectsMismatchedDelete(t *testing.T) {
	b, j := newBuffer(t, "abc")
	err := b.Apply(journal.NewDelete("zz", 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, "abc", b.AsStr())
	assert.Equal(t, 0, j.Size())
}

func TestResetKeepsDirtyFlagAndJournal(t *testing.T) {
	b, j := newBuffer(t, "")
	_, _ = b.InsertText("a", 0)
	b.Reset("loaded")
	assert.Equal(t, "loaded", b.AsStr())
	assert.True(t, b.IsEdited())
	assert.Equal(t, 1, j.Size())
}

func TestMutationDispatchesEvent(t *testing.T) {
	mgr := event.NewManager()
	var got []event.BufferModifiedData
	mgr.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		got = append(got, e.Data.(event.BufferModifiedData))
		return false
	})

	b := New(journal.New(), WithEvents(mgr))
	_, _ = b.InsertText("hi", 0)
	_, _ = b.InsertText("x", 99) // fails, no event
	_ = b.Restore(journal.NewDelete("hi", 0))

	require.Len(t, got, 2)
	assert.Equal(t, event.SourceEdit, got[0].Source)
	assert.Equal(t, journal.NewInsert("hi", 0), got[0].Op)
	assert.Equal(t, event.SourceHistory, got[1].Source)
}
