// Package session runs one log viewer: the open file, its live watch, the
// entry store and the display window. All state is owned by the goroutine
// running Run; front-ends send commands through the exported methods and
// receive model.View snapshots from the hub.
package session

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/atikulmunna/logview/internal/hub"
	"github.com/atikulmunna/logview/internal/model"
	"github.com/atikulmunna/logview/internal/recent"
	"github.com/atikulmunna/logview/internal/store"
	"github.com/atikulmunna/logview/internal/tailer"
	"github.com/atikulmunna/logview/internal/watcher"
)

// DefaultSearchDebounce delays applying a search query while typing.
const DefaultSearchDebounce = 150 * time.Millisecond

// ErrStopped is returned by commands sent after Run has returned.
var ErrStopped = errors.New("session: stopped")

// Options configure a Session.
type Options struct {
	Store          store.Options
	Watch          watcher.Options
	SearchDebounce time.Duration // zero applies searches immediately
	Recent         *recent.List  // optional
	Filter         store.LevelFilter
	Query          string
}

type command struct {
	fn    func() error
	reply chan error
}

// Session is a single-file log viewer.
type Session struct {
	opts   Options
	hub    *hub.Hub
	store  *store.Store
	tailer *tailer.Tailer
	sub    *watcher.Subscription
	cmds   chan command
	done   chan struct{}

	path     string
	lastKind model.ViewKind
	lastErr  string
	seq      uint64

	pendingQuery string
	debounce     *time.Timer
	debounceC    <-chan time.Time
}

// New creates a Session publishing to h. Call Run to start it.
func New(h *hub.Hub, opts Options) *Session {
	st := store.New(opts.Store)
	if opts.Filter != "" {
		st.SetFilter(opts.Filter)
	}
	st.SetSearch(opts.Query)
	return &Session{
		opts:     opts,
		hub:      h,
		store:    st,
		tailer:   tailer.New(),
		cmds:     make(chan command),
		done:     make(chan struct{}),
		lastKind: model.ViewClosed,
	}
}

// Run processes commands and file notifications until ctx is cancelled.
// It must be called exactly once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.teardown()

	for {
		var notifyC <-chan struct{}
		var errC <-chan error
		if s.sub != nil {
			notifyC = s.sub.C
			errC = s.sub.Errors
		}

		select {
		case <-ctx.Done():
			if s.debounce != nil {
				s.debounce.Stop()
			}
			return nil
		case c := <-s.cmds:
			c.reply <- c.fn()
		case <-notifyC:
			s.reconcile()
		case err := <-errC:
			log.WithFields(log.Fields{"path": s.path, "error": err}).Warn("session: watch error")
			s.lastErr = err.Error()
			s.publish(model.ViewError, nil)
		case <-s.debounceC:
			s.debounceC = nil
			s.applySearch(s.pendingQuery)
		}
	}
}

// Open loads path and starts watching it. Any previous watch is cancelled
// first. On failure the entries of the previous file stay in place and
// the error is published on the view.
func (s *Session) Open(ctx context.Context, path string) error {
	return s.do(ctx, func() error { return s.open(path) })
}

// SetFilter changes the level filter and resets the window.
func (s *Session) SetFilter(ctx context.Context, f store.LevelFilter) error {
	return s.do(ctx, func() error {
		s.store.SetFilter(f)
		s.publish(model.ViewFiltered, nil)
		return nil
	})
}

// Search schedules a search query. Queries arriving within the debounce
// interval replace each other; only the last one is applied.
func (s *Session) Search(ctx context.Context, query string) error {
	return s.do(ctx, func() error {
		if s.opts.SearchDebounce <= 0 {
			s.applySearch(query)
			return nil
		}
		s.pendingQuery = query
		if s.debounce != nil {
			s.debounce.Stop()
		}
		s.debounce = time.NewTimer(s.opts.SearchDebounce)
		s.debounceC = s.debounce.C
		return nil
	})
}

// LoadMore grows the display window by one chunk. It reports whether the
// window grew.
func (s *Session) LoadMore(ctx context.Context) (bool, error) {
	var grew bool
	err := s.do(ctx, func() error {
		grew = s.store.LoadMore()
		if grew {
			s.publish(model.ViewWindowed, nil)
		}
		return nil
	})
	return grew, err
}

// Scrolled reports the scroll position of a front-end showing the window
// and loads another chunk when it is near the end.
func (s *Session) Scrolled(ctx context.Context, offset, visible, content int) (bool, error) {
	var grew bool
	err := s.do(ctx, func() error {
		grew = s.store.NearEnd(offset, visible, content)
		if grew {
			s.publish(model.ViewWindowed, nil)
		}
		return nil
	})
	return grew, err
}

// ClearNew drops the new-entry marks.
func (s *Session) ClearNew(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.store.ClearNew()
		s.publish(model.ViewWindowed, nil)
		return nil
	})
}

// Close stops watching and empties the viewer.
func (s *Session) Close(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.teardown()
		s.path = ""
		s.lastErr = ""
		s.store.SetEntries(nil)
		s.publish(model.ViewClosed, nil)
		return nil
	})
}

// Snapshot returns the current view without publishing it.
func (s *Session) Snapshot(ctx context.Context) (model.View, error) {
	var v model.View
	err := s.do(ctx, func() error {
		v = s.build(s.lastKind, nil)
		return nil
	})
	return v, err
}

func (s *Session) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case s.cmds <- command{fn: fn, reply: reply}:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) open(path string) error {
	s.teardown()

	update, err := s.tailer.Open(path)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Error("session: open failed")
		s.lastErr = err.Error()
		s.publish(model.ViewError, nil)
		return err
	}

	s.path = path
	s.lastErr = ""
	s.store.SetEntries(update.Entries)
	log.WithFields(log.Fields{"path": path, "size": update.Offset, "entries": len(update.Entries)}).Info("session: opened")

	sub, err := watcher.Watch(path, s.opts.Watch)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "error": err}).Warn("session: watch failed")
		s.lastErr = err.Error()
	} else {
		s.sub = sub
	}

	if s.opts.Recent != nil {
		s.opts.Recent.Add(path)
		if err := s.opts.Recent.Save(); err != nil {
			log.WithError(err).Warn("session: saving recent files")
		}
	}

	s.publish(model.ViewLoaded, nil)

	// Catch writes that landed between the read and the watch start.
	if s.sub != nil {
		s.reconcile()
	}
	return nil
}

func (s *Session) reconcile() {
	update, err := s.tailer.Reconcile()
	if err != nil {
		log.WithFields(log.Fields{"path": s.path, "error": err}).Error("session: reading file failed")
		s.teardown()
		s.lastErr = err.Error()
		s.publish(model.ViewError, nil)
		return
	}

	switch update.Kind {
	case tailer.Appended:
		if len(update.Entries) == 0 {
			return
		}
		s.store.PrependEntries(update.Entries)
		log.WithFields(log.Fields{"path": s.path, "entries": len(update.Entries), "size": update.Offset}).Debug("session: appended")
		s.publish(model.ViewAppended, update.Entries)
	case tailer.Reloaded:
		s.store.SetEntries(update.Entries)
		log.WithFields(log.Fields{"path": s.path, "entries": len(update.Entries), "size": update.Offset}).Info("session: file truncated, reloaded")
		s.publish(model.ViewReloaded, nil)
	}
}

func (s *Session) applySearch(query string) {
	s.store.SetSearch(query)
	s.publish(model.ViewFiltered, nil)
}

// teardown cancels the watch and stops tracking the file. The store keeps
// its entries.
func (s *Session) teardown() {
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.tailer.Close()
}

func (s *Session) publish(kind model.ViewKind, fresh []model.LogEntry) {
	s.seq++
	s.lastKind = kind
	s.hub.Publish(s.build(kind, fresh))
}

func (s *Session) build(kind model.ViewKind, fresh []model.LogEntry) model.View {
	v := model.View{
		Seq:       s.seq,
		Kind:      kind,
		Path:      s.path,
		Watching:  s.sub != nil,
		Filter:    string(s.store.Filter()),
		Query:     s.store.Query(),
		Displayed: s.store.Displayed(),
		Remaining: s.store.Remaining(),
		Stats:     s.store.Stats(),
		Entries:   append([]model.LogEntry(nil), s.store.Window()...),
		Err:       s.lastErr,
	}
	if s.path != "" {
		v.Name = filepath.Base(s.path)
	}
	if len(fresh) > 0 {
		v.New = append([]model.LogEntry(nil), fresh...)
	}
	return v
}
