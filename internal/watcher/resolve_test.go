package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolvePlainPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "app.log")

	got, err := Resolve(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Errorf("expected %s, got %s", p, got)
	}
}

func TestResolveGlobPicksNewest(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "php", "fpm")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	older := filepath.Join(dir, "php", "error.log")
	newer := filepath.Join(nested, "www-error.log")
	for _, p := range []string{older, newer, filepath.Join(dir, "readme.txt")} {
		if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(filepath.Join(dir, "**", "*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("expected %s, got %s", newer, got)
	}
}

func TestResolveNoMatch(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "*.log")); err == nil {
		t.Error("expected error for a pattern without matches")
	}
}
