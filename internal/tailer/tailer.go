// Package tailer reconciles a growing or truncated log file with the parsed
// entry list: appended bytes are parsed on their own and prepended, while a
// shrinking file is reloaded from scratch.
package tailer

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync/atomic"

	"github.com/atikulmunna/logview/internal/model"
	"github.com/atikulmunna/logview/internal/parser"
)

// State is the lifecycle of a Tailer.
type State int

const (
	Idle State = iota
	Watching
)

func (s State) String() string {
	if s == Watching {
		return "watching"
	}
	return "idle"
}

// Kind says what a reconciliation did.
type Kind int

const (
	Unchanged Kind = iota
	Loaded
	Appended
	Reloaded
	Skipped // another reconciliation was in flight
)

func (k Kind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Appended:
		return "appended"
	case Reloaded:
		return "reloaded"
	case Skipped:
		return "skipped"
	default:
		return "unchanged"
	}
}

// Update is the outcome of Open or Reconcile. For Loaded and Reloaded,
// Entries replace the collection; for Appended they are prepended.
type Update struct {
	Kind    Kind
	Entries []model.LogEntry
	Offset  int64 // bytes consumed so far; zero for Skipped
}

// Tailer tracks one file and the number of its bytes already parsed.
type Tailer struct {
	path     string
	offset   int64
	state    State
	inFlight atomic.Bool
}

// New returns an idle Tailer.
func New() *Tailer {
	return &Tailer{}
}

func (t *Tailer) Path() string  { return t.path }
func (t *Tailer) Offset() int64 { return t.offset }
func (t *Tailer) State() State  { return t.state }

// Open reads the file up to its last newline and starts tracking it. A
// trailing partial line is left for a later Reconcile. On failure the
// Tailer is left idle.
func (t *Tailer) Open(path string) (Update, error) {
	t.Close()

	data, err := ReadFile(path)
	if err != nil {
		return Update{}, err
	}

	chunk := completeLines(data)
	t.path = path
	t.offset = int64(len(chunk))
	t.state = Watching
	return Update{Kind: Loaded, Entries: parser.Parse(string(chunk)), Offset: t.offset}, nil
}

// Close stops tracking the current file.
func (t *Tailer) Close() {
	t.path = ""
	t.offset = 0
	t.state = Idle
}

// Reconcile compares the file size with the consumed offset. Growth is read
// and parsed on its own, with every resulting entry marked new; a smaller
// file is reloaded completely. Calls made while another Reconcile is running
// return Skipped without touching the file.
func (t *Tailer) Reconcile() (Update, error) {
	if !t.inFlight.CompareAndSwap(false, true) {
		return Update{Kind: Skipped}, nil
	}
	defer t.inFlight.Store(false)

	if t.state != Watching {
		return Update{}, ErrNotWatching
	}

	info, err := os.Stat(t.path)
	if err != nil {
		return Update{}, accessError("stat", t.path, err)
	}
	size := info.Size()

	switch {
	case size > t.offset:
		return t.appendRange(size)
	case size < t.offset:
		return t.reload()
	default:
		return Update{Kind: Unchanged, Offset: t.offset}, nil
	}
}

func (t *Tailer) appendRange(size int64) (Update, error) {
	data, err := ReadRange(t.path, t.offset, size)
	if err != nil {
		return Update{}, err
	}

	chunk := completeLines(data)
	if len(chunk) == 0 {
		return Update{Kind: Unchanged, Offset: t.offset}, nil
	}
	t.offset += int64(len(chunk))

	entries := parser.Parse(string(chunk))
	for i := range entries {
		entries[i].IsNew = true
	}
	return Update{Kind: Appended, Entries: entries, Offset: t.offset}, nil
}

func (t *Tailer) reload() (Update, error) {
	data, err := ReadFile(t.path)
	if err != nil {
		return Update{}, err
	}
	chunk := completeLines(data)
	t.offset = int64(len(chunk))
	return Update{Kind: Reloaded, Entries: parser.Parse(string(chunk)), Offset: t.offset}, nil
}

// completeLines cuts data after its last newline. The trailing partial line
// is held back until its newline arrives.
func completeLines(data []byte) []byte {
	return data[:bytes.LastIndexByte(data, '\n')+1]
}

// ReadFile reads a whole log file.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, accessError("open", path, err)
	}
	return data, nil
}

// ReadRange reads bytes [start, end) of a file. A short read (the file
// shrank meanwhile) returns what was available without error.
func ReadRange(path string, start, end int64) ([]byte, error) {
	if end <= start {
		return nil, nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, accessError("open", path, err)
	}
	defer f.Close()

	buf := make([]byte, end-start)
	n, err := f.ReadAt(buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, accessError("read", path, err)
	}
	return buf[:n], nil
}
