// Package scratch stores uploaded images for the duration of a single
// request. Every file gets a request-unique name so concurrent uploads
// with identical client filenames cannot clobber each other.
package scratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes scratch files under a single directory, created on demand.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes r to a new scratch file named by a fresh UUID plus the
// sanitized client filename, and returns the full path.
func (s *Store) Save(clientName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}

	name := uuid.NewString() + "_" + SanitizeFilename(clientName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close scratch file: %w", err)
	}

	return path, nil
}

// Remove deletes a scratch file. A file already gone is not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SanitizeFilename strips directory components from a client-supplied
// filename and replaces characters outside [A-Za-z0-9._-]. Names that
// sanitize to nothing usable become "upload".
func SanitizeFilename(name string) string {
	// Clients on Windows send backslash-separated paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}
