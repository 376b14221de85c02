package journal

import (
	"sync"

	"github.com/bethropolis/tidetext/internal/logger"
)

// Journal is an ordered, append-only log of operations owned by one document.
//
// Record may be called from several goroutines; the lock is held only for
// the append. PopLast is meant for a single draining consumer at a time
// (the undo manager). Concurrent drains are the caller's problem.
type Journal struct {
	mu    sync.Mutex
	ops   []Operation // live entries are ops[head:]
	head  int
	limit int // 0 means unbounded
}

// Option configures a Journal.
type Option func(*Journal)

// WithLimit caps the number of retained operations; the oldest are dropped
// once the cap is exceeded. Zero or negative means unbounded.
func WithLimit(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.limit = n
		}
	}
}

// New creates an empty journal.
func New(opts ...Option) *Journal {
	j := &Journal{}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Record appends op. It never rewrites earlier entries.
func (j *Journal) Record(op Operation) {
	j.mu.Lock()
	j.ops = append(j.ops, op)
	if j.limit > 0 && len(j.ops)-j.head > j.limit {
		j.ops[j.head] = Operation{}
		j.head++
		// Compact once a full limit's worth of slots is dead, so the
		// backing array stays within twice the limit.
		if j.head >= j.limit {
			live := make([]Operation, len(j.ops)-j.head, 2*j.limit)
			copy(live, j.ops[j.head:])
			j.ops, j.head = live, 0
		}
	}
	size := len(j.ops) - j.head
	j.mu.Unlock()

	logger.DebugTagf("journal", "Journal: Recorded %s. Size: %d", op, size)
}

// Size returns the number of recorded operations.
func (j *Journal) Size() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.ops) - j.head
}

// PeekLast returns the most recently recorded operation without removing it.
func (j *Journal) PeekLast() (Operation, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.ops) == j.head {
		return Operation{}, false
	}
	return j.ops[len(j.ops)-1], true
}

// PopLast removes and returns the most recently recorded operation.
func (j *Journal) PopLast() (Operation, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.ops) == j.head {
		return Operation{}, false
	}
	last := len(j.ops) - 1
	op := j.ops[last]
	j.ops[last] = Operation{}
	j.ops = j.ops[:last]
	return op, true
}

// Operations returns a copy of the journal in application order.
func (j *Journal) Operations() []Operation {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Operation, len(j.ops)-j.head)
	copy(out, j.ops[j.head:])
	return out
}

// Reset drops every recorded operation. Call this when the document is
// discarded or replaced by a load.
func (j *Journal) Reset() {
	j.mu.Lock()
	j.ops, j.head = nil, 0
	j.mu.Unlock()
	logger.DebugTagf("journal", "Journal: Cleared.")
}

// Replay applies every recorded operation, in order, to base.
// Replaying a journal started from an empty buffer onto "" reproduces the
// buffer's content. A bounded journal that has dropped entries only replays
// correctly from the content as it was before its oldest retained entry.
func (j *Journal) Replay(base string) (string, error) {
	content := base
	for _, op := range j.Operations() {
		next, err := op.Apply(content)
		if err != nil {
			return base, err
		}
		content = next
	}
	return content, nil
}
