// Package journal records buffer mutations as ordered, invertible edit operations.
package journal

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/tidetext/internal/utils"
)

// ErrInvalidRange is returned when an operation's position or text does not
// fit the content it is applied to.
var ErrInvalidRange = errors.New("invalid range")

// Kind indicates whether text was inserted or deleted.
type Kind int

const (
	Insert Kind = iota
	Delete
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operation is a single, reversible text edit.
// Position is a character index valid against the content *before* the
// operation is applied. For a Delete, Text holds the removed characters.
type Operation struct {
	Kind     Kind
	Text     string
	Position int
}

// NewInsert returns an Insert operation.
func NewInsert(text string, position int) Operation {
	return Operation{Kind: Insert, Text: text, Position: position}
}

// NewDelete returns a Delete operation.
func NewDelete(text string, position int) Operation {
	return Operation{Kind: Delete, Text: text, Position: position}
}

// Invert maps Insert{t,p} to Delete{t,p} and back. It touches nothing else.
func Invert(op Operation) Operation {
	switch op.Kind {
	case Insert:
		op.Kind = Delete
	case Delete:
		op.Kind = Insert
	}
	return op
}

// Len returns the number of characters carried by the operation.
func (op Operation) Len() int {
	return utils.RuneCount(op.Text)
}

// End returns the character index just past the operation's text.
func (op Operation) End() int {
	return op.Position + op.Len()
}

// Apply returns content with the operation applied.
// Text must be valid UTF-8, otherwise its bytes could fuse with the
// neighbouring content into different characters.
// A Delete only applies when the characters at [Position, End) equal Text.
func (op Operation) Apply(content string) (string, error) {
	if !utf8.ValidString(op.Text) {
		return content, fmt.Errorf("%w: text %q is not valid UTF-8", ErrInvalidRange, op.Text)
	}
	start := utils.RuneIndexToByteOffset(content, op.Position)
	if start < 0 {
		return content, fmt.Errorf("%w: position %d outside content of length %d",
			ErrInvalidRange, op.Position, utils.RuneCount(content))
	}

	switch op.Kind {
	case Insert:
		return content[:start] + op.Text + content[start:], nil
	case Delete:
		end := start + len(op.Text)
		if end > len(content) || content[start:end] != op.Text {
			return content, fmt.Errorf("%w: %s does not match content at %d", ErrInvalidRange, op, op.Position)
		}
		return content[:start] + content[end:], nil
	default:
		return content, fmt.Errorf("unknown operation kind %v", op.Kind)
	}
}

func (op Operation) String() string {
	return fmt.Sprintf("%s(%q, %d)", op.Kind, op.Text, op.Position)
}
