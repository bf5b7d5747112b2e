// Package recent keeps the list of recently opened log files.
// The list is stored as TOML, newest first, at most MaxFiles long.
package recent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// MaxFiles bounds the list length.
const MaxFiles = 10

// File is one recently opened log file.
type File struct {
	Path     string    `toml:"path" json:"path"`
	Name     string    `toml:"name" json:"name"`
	OpenedAt time.Time `toml:"opened_at" json:"openedAt"`
}

// fileData is the on-disk TOML structure.
type fileData struct {
	Files []File `toml:"files"`
}

// List is a recent-files list backed by a TOML file. An empty path keeps
// the list in memory only.
type List struct {
	mu    sync.Mutex
	path  string
	files []File
	now   func() time.Time
}

// Load reads the list at path. A missing file yields an empty list.
func Load(path string) (*List, error) {
	l := &List{path: path, now: time.Now}
	if path == "" {
		return l, nil
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, nil
		}
		return l, fmt.Errorf("read recent files: %w", err)
	}

	var data fileData
	if err := toml.Unmarshal(raw, &data); err != nil {
		return l, fmt.Errorf("parse recent files: %w", err)
	}
	l.files = data.Files
	if len(l.files) > MaxFiles {
		l.files = l.files[:MaxFiles]
	}
	return l, nil
}

// Add moves path to the front of the list, removing older duplicates and
// trimming the list to MaxFiles.
func (l *List) Add(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]File, 0, MaxFiles)
	kept = append(kept, File{Path: path, Name: filepath.Base(path), OpenedAt: l.now()})
	for _, f := range l.files {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	if len(kept) > MaxFiles {
		kept = kept[:MaxFiles]
	}
	l.files = kept
}

// Remove drops path from the list and reports whether it was present.
func (l *List) Remove(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, f := range l.files {
		if f.Path == path {
			l.files = append(l.files[:i:i], l.files[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files = nil
}

// Files returns a copy of the list, newest first.
func (l *List) Files() []File {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]File(nil), l.files...)
}

// Save writes the list to disk atomically, creating directories as needed.
func (l *List) Save() error {
	if l.path == "" {
		return nil
	}

	l.mu.Lock()
	raw, err := toml.Marshal(fileData{Files: l.files})
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal recent files: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create recent files dir: %w", err)
	}

	// Write to a temp file first, then rename for atomicity.
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write recent files: %w", err)
	}
	return os.Rename(tmp, l.path)
}
