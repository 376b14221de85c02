// internal/types/range.go
package types

import "fmt"

// CharRange is a half-open interval [Start, End) of character (rune) indices.
// Character indices count code points, never bytes.
type CharRange struct {
	Start int
	End   int
}

// NewCharRange builds a range without normalizing it. Reversed ranges are
// rejected by the buffer rather than silently swapped.
func NewCharRange(start, end int) CharRange {
	return CharRange{Start: start, End: end}
}

// Len returns the number of characters covered by the range.
func (r CharRange) Len() int {
	return r.End - r.Start
}

// Within reports whether the range is non-reversed and fits inside [0, length].
func (r CharRange) Within(length int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= length
}

func (r CharRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}
