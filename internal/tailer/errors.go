package tailer

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies a file access failure.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindNotFound
	KindPermissionDenied
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	default:
		return "i/o failure"
	}
}

// ErrNotWatching is returned by Reconcile before a file was opened.
var ErrNotWatching = errors.New("tailer: no file is being watched")

// FileAccessError reports a failure to stat or read the watched file.
type FileAccessError struct {
	Op   string // "open", "stat" or "read"
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

func accessError(op, path string, err error) error {
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	}
	return &FileAccessError{Op: op, Path: path, Kind: kind, Err: err}
}
