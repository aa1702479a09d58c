// Package artifact persists rendered PDF documents on the filesystem.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates no artifact exists for the document number.
var ErrNotFound = errors.New("artifact: not found")

// Store writes and reads whole PDF files under a single directory. The file
// name is derived from the document number; re-rendering the same document
// overwrites the previous artifact (last write wins).
type Store struct {
	dir string
}

// NewStore constructs a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifact: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Filename maps a document number to its artifact file name.
func (s *Store) Filename(number string) string {
	return sanitize(number) + ".pdf"
}

// Save writes the PDF bytes atomically via a temp file rename and returns the
// final path.
func (s *Store) Save(number string, data []byte) (string, error) {
	if number == "" {
		return "", errors.New("artifact: document number is required")
	}
	final := filepath.Join(s.dir, s.Filename(number))
	tmp, err := os.CreateTemp(s.dir, ".pdf-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", err
	}
	return final, nil
}

// Read returns the stored bytes verbatim.
func (s *Store) Read(number string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, s.Filename(number)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// sanitize strips path separators so a document number can never escape the
// artifact directory.
func sanitize(number string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return replacer.Replace(number)
}
