package journal

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvertIsInvolution(t *testing.T) {
	ops := []Operation{
		NewInsert("hello", 0),
		NewDelete("h", 0),
		NewInsert("", 3),
		NewDelete("ñé€", 7),
	}
	for _, op := range ops {
		assert.Equal(t, op, Invert(Invert(op)), "op %s", op)
	}
	assert.Equal(t, NewDelete("hello", 0), Invert(NewInsert("hello", 0)))
	assert.Equal(t, NewInsert("h", 2), Invert(NewDelete("h", 2)))
}

func TestApplyThenInvertRoundTrips(t *testing.T) {
	cases := []struct {
		content string
		op      Operation
	}{
		{"", NewInsert("hello", 0)},
		{"hello", NewInsert(" world", 5)},
		{"hello", NewDelete("ell", 1)},
		{"añb€", NewInsert("ü", 2)},
		{"añb€", NewDelete("b€", 2)},
	}
	for _, c := range cases {
		applied, err := c.op.Apply(c.content)
		require.NoError(t, err, "apply %s", c.op)
		back, err := Invert(c.op).Apply(applied)
		require.NoError(t, err, "invert %s", c.op)
		assert.Equal(t, c.content, back)
	}
}

func TestApplyRejectsInvalidPositions(t *testing.T) {
	_, err := NewInsert("a", 3).Apply("xy")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewInsert("a", -1).Apply("xy")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewDelete("z", 0).Apply("xy")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewDelete("xyz", 0).Apply("xy")
	assert.ErrorIs(t, err, ErrInvalidRange)

	content, err := NewInsert("\xad", 1).Apply("\u4e2d")
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, "\u4e2d", content)
}

func TestOperationLenAndEnd(t *testing.T) {
	op := NewInsert("ñé", 3)
	assert.Equal(t, 2, op.Len())
	assert.Equal(t, 5, op.End())
	assert.Equal(t, `Insert("ñé", 3)`, op.String())
}

func TestJournalRecordPeekPop(t *testing.T) {
	j := New()
	_, ok := j.PeekLast()
	assert.False(t, ok)
	_, ok = j.PopLast()
	assert.False(t, ok)

	j.Record(NewInsert("hello", 0))
	j.Record(NewDelete("h", 0))
	assert.Equal(t, 2, j.Size())

	last, ok := j.PeekLast()
	require.True(t, ok)
	assert.Equal(t, NewDelete("h", 0), last)
	assert.Equal(t, 2, j.Size())

	popped, ok := j.PopLast()
	require.True(t, ok)
	assert.Equal(t, NewDelete("h", 0), popped)
	assert.Equal(t, 1, j.Size())
}

func TestJournalOperationsIsACopy(t *testing.T) {
	j := New()
	j.Record(NewInsert("a", 0))
	ops := j.Operations()
	ops[0] = NewInsert("mutated", 0)

	want := []Operation{NewInsert("a", 0)}
	if diff := cmp.Diff(want, j.Operations()); diff != "" {
		t.Errorf("journal changed through returned slice (-want +got):\n%s", diff)
	}
}

func TestJournalReplay(t *testing.T) {
	j := New()
	j.Record(NewInsert("hello", 0))
	j.Record(NewDelete("h", 0))
	j.Record(NewInsert(" world", 4))

	got, err := j.Replay("")
	require.NoError(t, err)
	assert.Equal(t, "ello world", got)
}

func TestJournalReplayFailureReturnsBase(t *testing.T) {
	j := New()
	j.Record(NewDelete("zz", 0))
	got, err := j.Replay("abc")
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, "abc", got)
}

func TestJournalLimitKeepsNewest(t *testing.T) {
	j := New(WithLimit(2))
	j.Record(NewInsert("a", 0))
	j.Record(NewInsert("b", 1))
	j.Record(NewInsert("c", 2))

	want := []Operation{NewInsert("b", 1), NewInsert("c", 2)}
	if diff := cmp.Diff(want, j.Operations()); diff != "" {
		t.Errorf("unexpected retained ops (-want +got):\n%s", diff)
	}
}

func TestJournalLimitBoundsBackingArray(t *testing.T) {
	const limit = 3
	j := New(WithLimit(limit))
	for i := 0; i < 1000; i++ {
		j.Record(NewInsert("x", i))
		assert.LessOrEqual(t, j.Size(), limit)
	}
	assert.LessOrEqual(t, cap(j.ops), 2*limit)

	want := []Operation{NewInsert("x", 997), NewInsert("x", 998), NewInsert("x", 999)}
	if diff := cmp.Diff(want, j.Operations()); diff != "" {
		t.Errorf("unexpected retained ops (-want +got):\n%s", diff)
	}

	op, ok := j.PopLast()
	require.True(t, ok)
	assert.Equal(t, NewInsert("x", 999), op)
	last, ok := j.PeekLast()
	require.True(t, ok)
	assert.Equal(t, NewInsert("x", 998), last)
	assert.Equal(t, 2, j.Size())
}

func TestJournalReset(t *testing.T) {
	j := New(WithLimit(2))
	for i := 0; i < 5; i++ {
		j.Record(NewInsert("a", i))
	}
	j.Reset()
	assert.Equal(t, 0, j.Size())
	assert.Nil(t, j.ops)
	_, ok := j.PopLast()
	assert.False(t, ok)

	j.Record(NewInsert("b", 0))
	assert.Equal(t, []Operation{NewInsert("b", 0)}, j.Operations())
}

func TestJournalConcurrentRecord(t *testing.T) {
	j := New()
	const producers, perProducer = 8, 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				j.Record(NewInsert("x", 0))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, j.Size())
}
