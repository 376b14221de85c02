// Package storage implements the load/save collaborators a document uses to
// move its content in and out of external storage.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrIO matches every *IOError via errors.Is.
	ErrIO = errors.New("i/o error")
	// ErrNotFound is wrapped when the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	errInvalidUTF8 = errors.New("content is not valid UTF-8")
)

// Storage loads and saves whole documents. Implementations never retry.
type Storage interface {
	Load(path string) (string, error)
	Save(path, content string) error
}

// IOError reports a failed load or save.
type IOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIO) match any IOError.
func (e *IOError) Is(target error) bool { return target == ErrIO }

func loadError(path string, err error) error {
	return &IOError{Op: "load", Path: path, Err: err}
}

func saveError(path string, err error) error {
	return &IOError{Op: "save", Path: path, Err: err}
}
