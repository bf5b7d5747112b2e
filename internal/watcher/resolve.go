package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolve turns a path or glob pattern into a single file path. Patterns
// (including recursive ones like /var/log/**/*.log) resolve to the most
// recently modified match.
func Resolve(pattern string) (string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return filepath.Abs(pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return "", fmt.Errorf("expand pattern %q: %w", pattern, err)
	}

	var (
		newest  string
		newestT int64
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if t := info.ModTime().UnixNano(); newest == "" || t > newestT {
			newest, newestT = m, t
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no files matched %q", pattern)
	}
	return filepath.Abs(newest)
}
