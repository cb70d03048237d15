// Package memory is a thin wrapper around the external Markdown "memory"
// directory spec §1 names but places outside the core: the notes
// themselves are free-form text an operator or AI client maintains, and
// any indexing/search over their content is explicitly out of scope. This
// package only does what §1 says the core is responsible for — "straight
// mapping onto... a local directory of text files" — list, read, and
// write whole files, the same way internal/authstore atomically persists
// a single JSON file.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const noteExt = ".md"

// Note is one Markdown file's metadata, returned by List without reading
// its content.
type Note struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// Store resolves note names against a single base directory. A zero-value
// Dir means the memory store isn't configured (spec's SLACK_MEMORY_DIR
// unset); callers check Available before using it.
type Store struct {
	Dir string
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) Available() bool {
	return s.Dir != ""
}

// NotFoundError reports a missing or invalid note name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note not found: %s", e.Name)
}

// resolve validates name against path traversal and returns the absolute
// on-disk path. Names must be a bare filename, never a path; ".md" is
// appended when the name does not already end in it.
func (s *Store) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", &NotFoundError{Name: name}
	}
	if !strings.HasSuffix(name, noteExt) {
		name += noteExt
	}
	return filepath.Join(s.Dir, name), nil
}

// List returns every ".md" file directly under Dir, sorted by name. It
// does not recurse into subdirectories.
func (s *Store) List() ([]Note, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), noteExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		notes = append(notes, Note{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Name < notes[j].Name })
	return notes, nil
}

// Read returns the full content of one note.
func (s *Store) Read(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Name: name}
		}
		return "", err
	}
	return string(data), nil
}

// Write creates or overwrites one note with content, creating Dir if
// necessary. Mirrors authstore.Store.Save's temp-file + rename pattern so
// a concurrent reader never observes a partial write.
func (s *Store) Write(name, content string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, []byte(content), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
