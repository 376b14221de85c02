package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/bethropolis/tidetext/internal/logger"
)

// FileStorage reads and writes plain files.
type FileStorage struct {
	Perm fs.FileMode
}

// NewFileStorage returns a FileStorage writing files with mode 0644.
func NewFileStorage() *FileStorage {
	return &FileStorage{Perm: 0o644}
}

// Load reads the whole file. Missing files are an error wrapping ErrNotFound
// and fs.ErrNotExist; content that is not valid UTF-8 is rejected.
func (s *FileStorage) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", loadError(path, fmt.Errorf("%w: %w", ErrNotFound, err))
		}
		return "", loadError(path, err)
	}
	if !utf8.Valid(data) {
		return "", loadError(path, errInvalidUTF8)
	}
	logger.DebugTagf("storage", "FileStorage: loaded %d bytes from %s", len(data), path)
	return string(data), nil
}

// Save writes content, creating parent directories as needed.
func (s *FileStorage) Save(path, content string) error {
	if path == "" {
		return saveError(path, errors.New("no file path specified for saving"))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return saveError(path, err)
		}
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return saveError(path, err)
	}
	logger.DebugTagf("storage", "FileStorage: wrote %d bytes to %s", len(content), path)
	return nil
}
