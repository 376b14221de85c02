// Package document ties a text buffer, its journal and its undo history to a
// storage backend, and owns the clean/dirty lifecycle around load and save.
package document

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/tidetext/internal/buffer"
	"github.com/bethropolis/tidetext/internal/event"
	"github.com/bethropolis/tidetext/internal/history"
	"github.com/bethropolis/tidetext/internal/journal"
	"github.com/bethropolis/tidetext/internal/logger"
	"github.com/bethropolis/tidetext/internal/storage"
	"github.com/bethropolis/tidetext/internal/types"
)

// ErrNoPath is returned by Save when neither an explicit nor a remembered path exists.
var ErrNoPath = errors.New("no path specified for saving")

// State is the dirty-state of a document.
type State int

const (
	StateClean State = iota
	StateDirty
)

func (s State) String() string {
	if s == StateDirty {
		return "dirty"
	}
	return "clean"
}

// Options configure a Document.
type Options struct {
	ReadOnly     bool
	JournalLimit int // 0 = unbounded
	MaxRedo      int // 0 = history.DefaultMaxRedo
	Events       *event.Manager
}

// Document is one open text document. Its public methods are serialized by
// a document-level mutex so background goroutines (autosave) can call them
// alongside the editing surface. That mutex is independent of the journal's.
type Document struct {
	mu      sync.Mutex
	store   storage.Storage
	events  *event.Manager
	journal *journal.Journal
	buf     *buffer.TextBuffer
	history *history.Manager
	path    string
}

// New creates an empty, clean document backed by store.
func New(store storage.Storage, opts Options) *Document {
	events := opts.Events
	if events == nil {
		events = event.NewManager()
	}
	j := journal.New(journal.WithLimit(opts.JournalLimit))

	bufOpts := []buffer.Option{buffer.WithEvents(events)}
	if opts.ReadOnly {
		bufOpts = append(bufOpts, buffer.ReadOnly())
	}
	buf := buffer.New(j, bufOpts...)

	return &Document{
		store:   store,
		events:  events,
		journal: j,
		buf:     buf,
		history: history.NewManager(buf, j, events, history.WithMaxRedo(opts.MaxRedo)),
	}
}

// Load replaces the document with the content at path. On success the
// journal and redo stack are reset and the document is clean. On failure
// nothing changes and the storage error is returned.
func (d *Document) Load(path string) error {
	d.mu.Lock()
	content, err := d.store.Load(path)
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("load document: %w", err)
	}

	d.buf.Reset(content)
	d.history.Clear()
	d.buf.SetEdited(false)
	d.path = path
	d.mu.Unlock()

	logger.InfoTagf("document", "Document: loaded '%s' (%d bytes)", path, len(content))
	d.events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: path})
	return nil
}

// Save writes the content to path, or to the remembered path when path is
// empty. On success the document is clean; on failure the dirty flag is
// left as it was.
func (d *Document) Save(path string) error {
	d.mu.Lock()
	if path == "" {
		path = d.path
	}
	if path == "" {
		d.mu.Unlock()
		return ErrNoPath
	}

	if err := d.store.Save(path, d.buf.AsStr()); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("save document: %w", err)
	}
	d.buf.SetEdited(false)
	d.path = path
	d.mu.Unlock()

	logger.InfoTagf("document", "Document: saved '%s'", path)
	d.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	return nil
}

// SaveIfEdited saves to the remembered path only when the document is dirty
// and has a path. It reports whether a save happened.
func (d *Document) SaveIfEdited() (bool, error) {
	d.mu.Lock()
	dirty, path := d.buf.IsEdited(), d.path
	d.mu.Unlock()
	if !dirty || path == "" {
		return false, nil
	}
	return true, d.Save(path)
}

// Discard empties the document, forgets its path and history, and leaves it clean.
func (d *Document) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Reset("")
	d.history.Clear()
	d.buf.SetEdited(false)
	d.path = ""
}

// --- Editing, delegated to the buffer under the document lock ---

func (d *Document) InsertText(text string, index int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.InsertText(text, index)
}

func (d *Document) DeleteCharRange(r types.CharRange) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.DeleteCharRange(r)
}

func (d *Document) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Clear()
}

func (d *Document) Take() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Take()
}

func (d *Document) Replace(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Replace(text)
}

// Undo reverts the last edit. See history.Manager.Undo.
func (d *Document) Undo() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Undo()
}

// Redo reapplies the last undone edit. See history.Manager.Redo.
func (d *Document) Redo() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Redo()
}

// --- Queries ---

// Content returns the current text.
func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.AsStr()
}

// IsEdited reports unsaved modifications.
func (d *Document) IsEdited() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.IsEdited()
}

// State reports StateDirty or StateClean.
func (d *Document) State() State {
	if d.IsEdited() {
		return StateDirty
	}
	return StateClean
}

// SetReadOnly switches the buffer's mutable flag. Content, journal and
// dirty state are left alone.
func (d *Document) SetReadOnly(readOnly bool) {
	d.mu.Lock()
	d.buf.SetMutable(!readOnly)
	d.mu.Unlock()
	logger.InfoTagf("document", "Document: read-only set to %v", readOnly)
}

// IsReadOnly reports whether mutations are currently refused.
func (d *Document) IsReadOnly() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.buf.IsMutable()
}

// SetPath sets the path a later Save("") writes to, without loading it.
func (d *Document) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
}

// Path returns the path of the last successful load or save.
func (d *Document) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

// Buffer exposes the underlying buffer as the editing contract. Calls made
// through it bypass the document lock and must stay on the editing goroutine.
func (d *Document) Buffer() buffer.TextModel { return d.buf }

// Journal returns the document's edit journal.
func (d *Document) Journal() *journal.Journal { return d.journal }

// History returns the document's undo manager.
func (d *Document) History() *history.Manager { return d.history }

// Events returns the event bus the document dispatches on.
func (d *Document) Events() *event.Manager { return d.events }
