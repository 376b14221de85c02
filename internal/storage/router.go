package storage

import (
	"errors"
	"strings"
)

// Router dispatches a path to a backend by prefix:
// "clipboard:" goes to Clipboard, "db:<name>" to DB with the prefix
// stripped, anything else to Files.
type Router struct {
	Files     Storage
	Clipboard Storage // optional
	DB        Storage // optional
}

var errNoBackend = errors.New("no storage backend configured for this path")

// NewRouter returns a Router with file storage and the system clipboard.
// DB is left nil until a database is opened.
func NewRouter() *Router {
	return &Router{
		Files:     NewFileStorage(),
		Clipboard: NewClipboardStorage(),
	}
}

func (r *Router) resolve(path string) (Storage, string) {
	switch {
	case strings.HasPrefix(path, ClipboardScheme):
		return r.Clipboard, path
	case strings.HasPrefix(path, SQLiteScheme):
		return r.DB, strings.TrimPrefix(path, SQLiteScheme)
	default:
		return r.Files, path
	}
}

// Load loads path from the matching backend.
func (r *Router) Load(path string) (string, error) {
	backend, key := r.resolve(path)
	if backend == nil {
		return "", loadError(path, errNoBackend)
	}
	return backend.Load(key)
}

// Save saves content to the matching backend.
func (r *Router) Save(path, content string) error {
	backend, key := r.resolve(path)
	if backend == nil {
		return saveError(path, errNoBackend)
	}
	return backend.Save(key, content)
}
