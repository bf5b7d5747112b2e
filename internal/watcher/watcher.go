// Package watcher notifies about changes to a single log file, either through
// OS-level notifications or by polling its size and modification time.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the polling period when no interval is configured.
const DefaultInterval = 500 * time.Millisecond

// Options select the watch backend.
type Options struct {
	Poll     bool          // poll instead of using fsnotify
	Interval time.Duration // polling period
}

// WatchError reports a failure of the underlying watch mechanism. The
// subscription keeps running where it can.
type WatchError struct {
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	return fmt.Sprintf("watch %s: %v", e.Path, e.Err)
}

func (e *WatchError) Unwrap() error { return e.Err }

// Subscription delivers change notifications for one file. Notifications
// carry no payload; receivers re-stat the file. Pending notifications are
// coalesced, so a slow receiver sees at most one.
type Subscription struct {
	C      <-chan struct{}
	Errors <-chan error

	path   string
	notify chan struct{}
	errs   chan error
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Watch starts watching path. When fsnotify cannot be initialized the
// subscription falls back to polling and reports the failure on Errors.
func Watch(path string, opts Options) (*Subscription, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	s := &Subscription{
		path:   abs,
		notify: make(chan struct{}, 1),
		errs:   make(chan error, 8),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.C = s.notify
	s.Errors = s.errs

	if opts.Poll {
		s.startPoll(opts.Interval)
		return s, nil
	}

	fsw, err := newFSWatcher(abs)
	if err != nil {
		s.report(err)
		s.startPoll(opts.Interval)
		return s, nil
	}
	go s.listen(fsw)
	return s, nil
}

// Path returns the absolute path being watched.
func (s *Subscription) Path() string { return s.path }

// Cancel stops the subscription. It returns after the watch goroutine has
// exited, so no notification is delivered afterwards. Safe to call twice.
func (s *Subscription) Cancel() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// newFSWatcher watches the file's directory so that a file recreated after
// rotation keeps being observed.
func newFSWatcher(abs string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

func (s *Subscription) listen(fsw *fsnotify.Watcher) {
	defer close(s.done)
	defer fsw.Close()

	for {
		select {
		case <-s.stop:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			// Removal and rename are followed by a create when the file is
			// rotated; a plain delete leaves the last content visible.
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.signal()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			s.report(err)
		}
	}
}

// startPoll takes the baseline stat before returning, so a change made
// right after Watch is never missed.
func (s *Subscription) startPoll(interval time.Duration) {
	last, lastErr := os.Stat(s.path)
	go s.poll(interval, last, lastErr)
}

func (s *Subscription) poll(interval time.Duration, last os.FileInfo, lastErr error) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		info, err := os.Stat(s.path)
		if err != nil {
			last, lastErr = nil, err
			continue
		}
		if lastErr != nil || last == nil || info.Size() != last.Size() || !info.ModTime().Equal(last.ModTime()) {
			s.signal()
		}
		last, lastErr = info, nil
	}
}

func (s *Subscription) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) report(err error) {
	select {
	case s.errs <- &WatchError{Path: s.path, Err: err}:
	default:
	}
}
