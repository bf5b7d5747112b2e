// Package store holds the parsed entries of one log file together with the
// filtered view and display window derived from them.
//
// A Store is not safe for concurrent use. It is owned by a single session
// goroutine which publishes immutable snapshots to everybody else.
package store

import (
	"github.com/atikulmunna/logview/internal/model"
)

const (
	DefaultInitialLoad     = 100
	DefaultChunkSize       = 200
	DefaultScrollThreshold = 5
)

// Options size the display window.
type Options struct {
	InitialLoad     int // window size after load, reload, filter or search change
	ChunkSize       int // growth per LoadMore
	ScrollThreshold int // distance from the end that triggers LoadMore
}

func (o Options) withDefaults() Options {
	if o.InitialLoad <= 0 {
		o.InitialLoad = DefaultInitialLoad
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ScrollThreshold <= 0 {
		o.ScrollThreshold = DefaultScrollThreshold
	}
	return o
}

// Store owns the entry collection (newest first), the active filter and
// search query, the filtered view, and the display window cursor.
type Store struct {
	opts      Options
	entries   []model.LogEntry
	filter    LevelFilter
	query     string
	filtered  []model.LogEntry
	displayed int
}

// New creates an empty store.
func New(opts Options) *Store {
	o := opts.withDefaults()
	return &Store{
		opts:      o,
		filter:    FilterAll,
		displayed: o.InitialLoad,
	}
}

// SetEntries replaces the whole collection and resets the window.
func (s *Store) SetEntries(entries []model.LogEntry) {
	s.entries = append([]model.LogEntry(nil), entries...)
	s.refilter()
	s.ResetWindow()
}

// PrependEntries adds newer entries in front of the collection. The window
// grows by the number of them that pass the active filter, so entries that
// were already visible stay visible. It returns that number.
func (s *Store) PrependEntries(entries []model.LogEntry) int {
	if len(entries) == 0 {
		return 0
	}
	all := make([]model.LogEntry, 0, len(entries)+len(s.entries))
	all = append(all, entries...)
	s.entries = append(all, s.entries...)

	q := normalizeQuery(s.query)
	visible := 0
	for _, e := range entries {
		if matches(e, s.filter, q) {
			visible++
		}
	}
	s.refilter()
	s.displayed += visible
	return visible
}

// SetFilter changes the level filter. The window is reset even when the
// filter is unchanged.
func (s *Store) SetFilter(f LevelFilter) {
	s.filter = f
	s.refilter()
	s.ResetWindow()
}

// SetSearch changes the search query and resets the window.
func (s *Store) SetSearch(query string) {
	s.query = query
	s.refilter()
	s.ResetWindow()
}

func (s *Store) Filter() LevelFilter { return s.filter }

func (s *Store) Query() string { return s.query }

// Entries returns the full collection, newest first.
func (s *Store) Entries() []model.LogEntry { return s.entries }

// Filtered returns the filtered view, newest first.
func (s *Store) Filtered() []model.LogEntry { return s.filtered }

// Window returns the materialized prefix of the filtered view.
func (s *Store) Window() []model.LogEntry {
	return Window(s.filtered, s.displayed)
}

// Displayed is the number of entries in the window.
func (s *Store) Displayed() int {
	return len(s.Window())
}

// Remaining is the number of filtered entries not yet in the window.
func (s *Store) Remaining() int {
	return len(s.filtered) - s.Displayed()
}

func (s *Store) HasMore() bool { return s.Remaining() > 0 }

// LoadMore grows the window by one chunk. It returns false when everything
// is already displayed.
func (s *Store) LoadMore() bool {
	if s.displayed >= len(s.filtered) {
		return false
	}
	s.displayed += s.opts.ChunkSize
	if s.displayed > len(s.filtered) {
		s.displayed = len(s.filtered)
	}
	return true
}

// NearEnd loads another chunk when a scrollable area showing the window is
// within the scroll threshold of its end. offset is the first visible row,
// visible the number of visible rows and content the total number of rows.
func (s *Store) NearEnd(offset, visible, content int) bool {
	if offset+visible < content-s.opts.ScrollThreshold {
		return false
	}
	return s.LoadMore()
}

// ResetWindow shrinks the window back to its initial size.
func (s *Store) ResetWindow() {
	s.displayed = s.opts.InitialLoad
}

// ClearNew drops the new-entry mark from every entry.
func (s *Store) ClearNew() {
	for i := range s.entries {
		s.entries[i].IsNew = false
	}
	for i := range s.filtered {
		s.filtered[i].IsNew = false
	}
}

// Stats counts the filtered view by level group.
func (s *Store) Stats() model.Stats {
	st := model.Stats{Total: len(s.entries), Filtered: len(s.filtered)}
	for _, e := range s.filtered {
		switch {
		case FilterError.Allows(e.Level):
			st.Errors++
		case FilterWarning.Allows(e.Level):
			st.Warnings++
		case FilterInfo.Allows(e.Level):
			st.Info++
		}
	}
	return st
}

func (s *Store) refilter() {
	s.filtered = Filter(s.entries, s.filter, s.query)
}
