package storage

import (
	"errors"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/tidetext/internal/logger"
)

// ClipboardScheme is the path prefix routed to the system clipboard.
const ClipboardScheme = "clipboard:"

// ClipboardStorage loads from and saves to the system clipboard.
// The path is only used in error messages.
type ClipboardStorage struct {
	readAll  func() (string, error)
	writeAll func(string) error
	system   bool
}

// NewClipboardStorage returns a ClipboardStorage bound to the system clipboard.
func NewClipboardStorage() *ClipboardStorage {
	return &ClipboardStorage{
		readAll:  clipboard.ReadAll,
		writeAll: clipboard.WriteAll,
		system:   true,
	}
}

var errClipboardUnsupported = errors.New("system clipboard is not available")

// Load returns the clipboard text.
func (s *ClipboardStorage) Load(path string) (string, error) {
	if s.system && clipboard.Unsupported {
		return "", loadError(path, errClipboardUnsupported)
	}
	text, err := s.readAll()
	if err != nil {
		return "", loadError(path, err)
	}
	if !utf8.ValidString(text) {
		return "", loadError(path, errInvalidUTF8)
	}
	logger.DebugTagf("storage", "ClipboardStorage: loaded %d bytes", len(text))
	return text, nil
}

// Save replaces the clipboard text with content.
func (s *ClipboardStorage) Save(path, content string) error {
	if s.system && clipboard.Unsupported {
		return saveError(path, errClipboardUnsupported)
	}
	if err := s.writeAll(content); err != nil {
		return saveError(path, err)
	}
	logger.DebugTagf("storage", "ClipboardStorage: wrote %d bytes", len(content))
	return nil
}
