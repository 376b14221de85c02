// internal/buffer/buffer.go
package buffer

import (
	"errors"

	"github.com/bethropolis/tidetext/internal/journal"
	"github.com/bethropolis/tidetext/internal/types"
)

var (
	// ErrInvalidRange is returned when an index or range falls outside the content.
	ErrInvalidRange = journal.ErrInvalidRange
	// ErrNotMutable is returned when a read-only buffer is asked to change.
	ErrNotMutable = errors.New("buffer is not mutable")
)

// TextModel is the mutation contract an editing surface drives.
// Indices and ranges are in characters (runes), never bytes.
// A failed call leaves content and journal exactly as they were.
type TextModel interface {
	IsMutable() bool
	AsStr() string
	Clear() error
	Take() (string, error)
	// InsertText returns the number of characters inserted.
	InsertText(text string, index int) (int, error)
	DeleteCharRange(r types.CharRange) error
	Replace(text string) error
}

// Ensure TextBuffer satisfies the TextModel interface
var _ TextModel = (*TextBuffer)(nil)
