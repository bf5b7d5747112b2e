package model

// ViewKind says what changed to produce a View.
type ViewKind string

const (
	ViewLoaded   ViewKind = "loaded"
	ViewAppended ViewKind = "appended"
	ViewReloaded ViewKind = "reloaded"
	ViewFiltered ViewKind = "filtered"
	ViewWindowed ViewKind = "windowed"
	ViewError    ViewKind = "error"
	ViewClosed   ViewKind = "closed"
)

// Stats holds level counts over the filtered entries.
type Stats struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// View is an immutable snapshot of a viewer session, published after every change.
type View struct {
	Seq       uint64     `json:"seq"`
	Kind      ViewKind   `json:"kind"`
	Path      string     `json:"path,omitempty"`
	Name      string     `json:"name,omitempty"`
	Watching  bool       `json:"watching"`
	Filter    string     `json:"filter"`
	Query     string     `json:"query,omitempty"`
	Displayed int        `json:"displayed"`
	Remaining int        `json:"remaining"`
	Stats     Stats      `json:"stats"`
	Entries   []LogEntry `json:"entries"`
	New       []LogEntry `json:"new,omitempty"` // entries prepended by the last tail append
	Err       string     `json:"error,omitempty"`
}
