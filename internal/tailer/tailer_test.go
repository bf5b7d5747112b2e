package tailer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atikulmunna/logview/internal/model"
	"github.com/atikulmunna/logview/internal/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

// padLine builds a log line of exactly n bytes including its newline.
func padLine(t *testing.T, prefix string, n int) string {
	t.Helper()
	if len(prefix)+1 > n {
		t.Fatalf("prefix longer than %d bytes", n)
	}
	return prefix + strings.Repeat("x", n-len(prefix)-1) + "\n"
}

func TestOpenReadsWholeFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "2024-01-15 10:30:00 [INFO] one\n2024-01-15 10:30:01 [ERROR] two\n")

	tl := New()
	u, err := tl.Open(logPath)
	if err != nil {
		t.Fatal(err)
	}

	if u.Kind != Loaded {
		t.Errorf("expected Loaded, got %s", u.Kind)
	}
	if len(u.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(u.Entries))
	}
	if u.Entries[0].Message != "two" {
		t.Errorf("expected newest first, got %q", u.Entries[0].Message)
	}
	if tl.State() != Watching {
		t.Errorf("expected watching, got %s", tl.State())
	}
	if tl.Offset() != int64(len("2024-01-15 10:30:00 [INFO] one\n2024-01-15 10:30:01 [ERROR] two\n")) {
		t.Errorf("unexpected offset %d", tl.Offset())
	}
}

func TestReconcileAppend(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, padLine(t, "2024-01-15 10:30:00 [INFO] old ", 100))

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}
	if tl.Offset() != 100 {
		t.Fatalf("expected offset 100, got %d", tl.Offset())
	}

	appendFile(t, logPath, padLine(t, "2024-01-15 10:30:01 [ERROR] new ", 150))

	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Appended {
		t.Fatalf("expected Appended, got %s", u.Kind)
	}
	if len(u.Entries) != 1 {
		t.Fatalf("expected exactly 1 new entry, got %d", len(u.Entries))
	}
	if !u.Entries[0].IsNew {
		t.Error("expected new entry to be marked")
	}
	if u.Entries[0].Level != model.LevelError {
		t.Errorf("expected error level, got %s", u.Entries[0].Level)
	}
	if tl.Offset() != 250 {
		t.Errorf("expected offset 250, got %d", tl.Offset())
	}

	u, err = tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Unchanged {
		t.Errorf("expected Unchanged, got %s", u.Kind)
	}
}

func TestReconcileHoldsPartialLine(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "2024-01-15 10:30:00 [INFO] old\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}
	start := tl.Offset()

	appendFile(t, logPath, "2024-01-15 10:30:01 [WARNING] half")
	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Unchanged || tl.Offset() != start {
		t.Fatalf("expected partial line to be held back, got %s at %d", u.Kind, tl.Offset())
	}

	appendFile(t, logPath, " written\n")
	u, err = tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Entries) != 1 || u.Entries[0].Message != "half written" {
		t.Errorf("expected the completed line, got %+v", u.Entries)
	}
}

func TestOpenHoldsPartialLine(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	head := "2024-01-15 10:30:00 [INFO] old\n"
	writeFile(t, logPath, head+"2024-01-15 10:30:01 [WARNING] half")

	tl := New()
	u, err := tl.Open(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Entries) != 1 || u.Entries[0].Message != "old" {
		t.Fatalf("expected only the complete line, got %+v", u.Entries)
	}
	if tl.Offset() != int64(len(head)) {
		t.Fatalf("expected offset %d, got %d", len(head), tl.Offset())
	}

	appendFile(t, logPath, " written\n")
	u, err = tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Appended {
		t.Fatalf("expected Appended, got %s", u.Kind)
	}
	if len(u.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(u.Entries))
	}
	e := u.Entries[0]
	if e.Message != "half written" || e.Timestamp != "2024-01-15 10:30:01" || e.Level != model.LevelWarning {
		t.Errorf("expected the completed warning line, got %+v", e)
	}
}

func TestReloadHoldsPartialLine(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "2024-01-15 10:30:00 [INFO] one\n2024-01-15 10:30:01 [INFO] two\n2024-01-15 10:30:02 [INFO] three\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}

	head := "2024-01-15 10:31:00 [INFO] fresh\n"
	writeFile(t, logPath, head+"2024-01-15 10:31:01 [ERROR] par")
	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Reloaded {
		t.Fatalf("expected Reloaded, got %s", u.Kind)
	}
	if len(u.Entries) != 1 || u.Entries[0].Message != "fresh" {
		t.Fatalf("expected only the complete line, got %+v", u.Entries)
	}
	if tl.Offset() != int64(len(head)) {
		t.Errorf("expected offset %d, got %d", len(head), tl.Offset())
	}

	appendFile(t, logPath, "tial\n")
	u, err = tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Entries) != 1 || u.Entries[0].Message != "partial" {
		t.Errorf("expected the completed line, got %+v", u.Entries)
	}
}

func TestReconcileTruncationReloads(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "2024-01-15 10:30:00 [INFO] one\n2024-01-15 10:30:01 [INFO] two\n2024-01-15 10:30:02 [INFO] three\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}

	rotated := "[08-Jan-2024 10:23:11 UTC] PHP Warning: fresh\ncontinued\n"
	writeFile(t, logPath, rotated)

	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Reloaded {
		t.Fatalf("expected Reloaded, got %s", u.Kind)
	}

	fresh, err := New().Open(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Entries) != len(fresh.Entries) {
		t.Fatalf("expected %d entries like a fresh open, got %d", len(fresh.Entries), len(u.Entries))
	}
	for i := range u.Entries {
		if u.Entries[i] != fresh.Entries[i] {
			t.Errorf("entry %d differs from fresh open: %+v vs %+v", i, u.Entries[i], fresh.Entries[i])
		}
	}
	if tl.Offset() != int64(len(rotated)) {
		t.Errorf("expected offset %d, got %d", len(rotated), tl.Offset())
	}
}

func TestReconcileNoStitchAcrossReads(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "2024-01-15 10:30:00 [ERROR] boom\n#0 first frame\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}
	appendFile(t, logPath, "#1 second frame\n")

	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(u.Entries))
	}
	if u.Entries[0].Timestamp != "" || u.Entries[0].Message != "#1 second frame" {
		t.Errorf("expected a standalone synthetic entry, got %+v", u.Entries[0])
	}
}

func TestReconcileInFlightGuard(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "line\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}

	tl.inFlight.Store(true)
	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Skipped {
		t.Errorf("expected Skipped, got %s", u.Kind)
	}
	if u.Offset != 0 {
		t.Errorf("expected no offset on a skipped update, got %d", u.Offset)
	}
	tl.inFlight.Store(false)

	if u, _ := tl.Reconcile(); u.Kind != Unchanged {
		t.Errorf("expected Unchanged after guard release, got %s", u.Kind)
	}
}

func TestReconcileIdle(t *testing.T) {
	if _, err := New().Reconcile(); !errors.Is(err, ErrNotWatching) {
		t.Errorf("expected ErrNotWatching, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	tl := New()
	_, err := tl.Open(filepath.Join(t.TempDir(), "missing.log"))

	var fae *FileAccessError
	if !errors.As(err, &fae) {
		t.Fatalf("expected FileAccessError, got %v", err)
	}
	if fae.Kind != KindNotFound {
		t.Errorf("expected not found, got %s", fae.Kind)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is(err, fs.ErrNotExist)")
	}
	if tl.State() != Idle {
		t.Errorf("expected idle after failed open, got %s", tl.State())
	}
}

func TestReconcileDeletedFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "line\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(logPath); err != nil {
		t.Fatal(err)
	}

	_, err := tl.Reconcile()
	var fae *FileAccessError
	if !errors.As(err, &fae) || fae.Op != "stat" {
		t.Errorf("expected stat FileAccessError, got %v", err)
	}
}

func TestReadRange(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "0123456789")

	got, err := ReadRange(logPath, 2, 6)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "2345" {
		t.Errorf("expected '2345', got %q", got)
	}

	// Short read past the end is not an error.
	got, err = ReadRange(logPath, 8, 20)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "89" {
		t.Errorf("expected '89', got %q", got)
	}

	if got, _ := ReadRange(logPath, 5, 5); len(got) != 0 {
		t.Errorf("expected empty range, got %q", got)
	}
}

func TestAppendMatchesParserOnRange(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "Jan  8 10:23:11 web01 cron[1]: start\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}

	added := "Jan  8 10:23:12 web01 cron[1]: error: job failed\nexit status 1\nJan  8 10:23:13 web01 cron[1]: done\n"
	appendFile(t, logPath, added)

	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	want := parser.Parse(added)
	if len(u.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(u.Entries))
	}
	for i := range want {
		if u.Entries[i].Message != want[i].Message {
			t.Errorf("entry %d: expected %q, got %q", i, want[i].Message, u.Entries[i].Message)
		}
	}
}

func TestContinuationAcrossReadsStartsNewEntry(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, logPath, "[2024-01-08 10:23:11] production.ERROR: boom\n")

	tl := New()
	if _, err := tl.Open(logPath); err != nil {
		t.Fatal(err)
	}

	appendFile(t, logPath, "#0 /app/index.php(12): run()\n")

	u, err := tl.Reconcile()
	if err != nil {
		t.Fatal(err)
	}
	if u.Kind != Appended {
		t.Fatalf("expected Appended, got %v", u.Kind)
	}
	if len(u.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(u.Entries))
	}
	if u.Entries[0].Timestamp != "" {
		t.Errorf("expected synthetic entry without timestamp, got %q", u.Entries[0].Timestamp)
	}
	if u.Entries[0].Message != "#0 /app/index.php(12): run()" {
		t.Errorf("unexpected message %q", u.Entries[0].Message)
	}
}
