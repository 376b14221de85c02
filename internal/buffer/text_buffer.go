// internal/buffer/text_buffer.go
package buffer

import (
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/journal"
	"github.com/bethropolis/tidetext/internal/logger"
	"github.com/bethropolis/tidetext/internal/types"
	"github.com/bethropolis/tidetext/internal/utils"
)

// TextBuffer holds one document's text, its dirty flag and its mutability.
// Every successful mutation is recorded in the journal before the content
// changes. It is not safe for concurrent mutation; the journal is.
type TextBuffer struct {
	content string
	edited  bool
	mutable bool

	journal *journal.Journal
	events  *event.Manager // optional
}

// Option configures a TextBuffer.
type Option func(*TextBuffer)

// WithContent sets the initial content. The buffer still starts clean.
func WithContent(content string) Option {
	return func(b *TextBuffer) { b.content = content }
}

// ReadOnly makes every mutation fail with ErrNotMutable.
func ReadOnly() Option {
	return func(b *TextBuffer) { b.mutable = false }
}

// WithEvents dispatches TypeBufferModified after each mutation.
func WithEvents(mgr *event.Manager) Option {
	return func(b *TextBuffer) { b.events = mgr }
}

// New creates an empty, clean, mutable buffer recording into j.
// A nil journal gets a private one.
func New(j *journal.Journal, opts ...Option) *TextBuffer {
	if j == nil {
		j = journal.New()
	}
	b := &TextBuffer{
		mutable: true,
		journal: j,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AsStr returns the current content.
func (b *TextBuffer) AsStr() string {
	return b.content
}

// String implements fmt.Stringer; same as AsStr.
func (b *TextBuffer) String() string {
	return b.content
}

// Len returns the content length in characters.
func (b *TextBuffer) Len() int {
	return utils.RuneCount(b.content)
}

// Journal returns the journal this buffer records into.
func (b *TextBuffer) Journal() *journal.Journal {
	return b.journal
}

// IsEdited reports whether the content changed since the last load or save.
func (b *TextBuffer) IsEdited() bool {
	return b.edited
}

// SetEdited sets the dirty flag. Load and save glue call SetEdited(false);
// it is never journaled.
func (b *TextBuffer) SetEdited(edited bool) {
	b.edited = edited
}

// IsMutable reports whether mutations are allowed.
func (b *TextBuffer) IsMutable() bool {
	return b.mutable
}

// SetMutable toggles the capability flag.
func (b *TextBuffer) SetMutable(mutable bool) {
	b.mutable = mutable
}

// InsertText inserts text at a character index in [0, Len()].
func (b *TextBuffer) InsertText(text string, index int) (int, error) {
	if err := b.apply(journal.NewInsert(text, index), event.SourceEdit, true); err != nil {
		return 0, fmt.Errorf("insert at %d: %w", index, err)
	}
	return utils.RuneCount(text), nil
}

// DeleteCharRange removes the characters in r. r must not be reversed and
// must lie within [0, Len()].
func (b *TextBuffer) DeleteCharRange(r types.CharRange) error {
	if !b.mutable {
		return fmt.Errorf("delete %v: %w", r, ErrNotMutable)
	}
	if !r.Within(b.Len()) {
		return fmt.Errorf("delete %v: %w: content length is %d", r, ErrInvalidRange, b.Len())
	}
	start := utils.RuneIndexToByteOffset(b.content, r.Start)
	end := utils.RuneIndexToByteOffset(b.content, r.End)
	removed := b.content[start:end]

	if err := b.apply(journal.NewDelete(removed, r.Start), event.SourceEdit, true); err != nil {
		return fmt.Errorf("delete %v: %w", r, err)
	}
	return nil
}

// Clear deletes the whole content. The removed text is always journaled,
// even when it is empty.
func (b *TextBuffer) Clear() error {
	return b.DeleteCharRange(types.NewCharRange(0, b.Len()))
}

// Take returns the content and empties the buffer. It counts as a mutation.
func (b *TextBuffer) Take() (string, error) {
	content := b.content
	if err := b.Clear(); err != nil {
		return "", err
	}
	return content, nil
}

// Replace substitutes the entire content. It is journaled as a Delete of the
// old content followed by an Insert of the new one, both at position 0, so
// replaying the journal stays exact. The content is swapped in one step, but
// two BufferModified events follow, and undoing only the Insert leaves the
// buffer empty.
func (b *TextBuffer) Replace(text string) error {
	if !b.mutable {
		return fmt.Errorf("replace: %w", ErrNotMutable)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("replace: %w: text is not valid UTF-8", ErrInvalidRange)
	}
	del := journal.NewDelete(b.content, 0)
	ins := journal.NewInsert(text, 0)

	b.journal.Record(del)
	b.journal.Record(ins)
	b.content = text
	b.edited = true

	b.notify(del, event.SourceEdit)
	b.notify(ins, event.SourceEdit)
	return nil
}

// Apply validates op against the current content and applies it through the
// same record-then-mutate path as the editing methods.
func (b *TextBuffer) Apply(op journal.Operation) error {
	return b.apply(op, event.SourceEdit, true)
}

// Restore applies op without journaling it. The undo manager uses it to apply
// the inverse of an operation it has just popped from the journal.
func (b *TextBuffer) Restore(op journal.Operation) error {
	return b.apply(op, event.SourceHistory, false)
}

// Reset replaces the content without journaling and without touching the
// dirty flag. Used by load glue, which resets the journal itself.
func (b *TextBuffer) Reset(content string) {
	b.content = content
}

// apply is the single mutation path: check, compute, record, then swap content.
func (b *TextBuffer) apply(op journal.Operation, source event.Source, record bool) error {
	if !b.mutable {
		return ErrNotMutable
	}
	next, err := op.Apply(b.content)
	if err != nil {
		return err
	}

	if record {
		b.journal.Record(op)
	}
	b.content = next
	b.edited = true

	b.notify(op, source)
	return nil
}

func (b *TextBuffer) notify(op journal.Operation, source event.Source) {
	logger.DebugTagf("buffer", "Buffer: applied %s", op)
	if b.events != nil {
		b.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Op: op, Source: source})
	}
}
