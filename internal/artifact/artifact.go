// Package artifact generates and stores the scannable proof-of-win tokens.
// An artifact is derived state: it can always be regenerated from its
// reward record, and its absence never invalidates the win.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Store writes QR code PNGs into a flat directory, one file per (user, day).
type Store struct {
	dir string
}

// NewStore creates the artifact directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Content builds the QR payload for a win.
func Content(day int, displayName, prizeName string, year int) string {
	return fmt.Sprintf("%d-%s-%s-%d", day, displayName, prizeName, year)
}

// Filename returns the artifact file name for a (user, day) pair.
func Filename(userID string, day int) string {
	return fmt.Sprintf("%s_%d.png", sanitize(userID), day)
}

// Write encodes the payload and stores it under the given file name,
// replacing any previous artifact for the same door.
func (s *Store) Write(filename, content string) error {
	if err := qrcode.WriteFile(content, qrcode.Low, 256, filepath.Join(s.dir, filename)); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", filename, err)
	}
	return nil
}

// Path returns the absolute location of an artifact file.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Exists reports whether an artifact file is present on disk.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil
}

// Remove deletes one artifact file. A missing file is not an error.
func (s *Store) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Purge deletes every stored artifact (admin reset).
func (s *Store) Purge() error {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.png"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// sanitize keeps file names flat: no separators, no parent traversal.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "..", "_")
	return s
}
