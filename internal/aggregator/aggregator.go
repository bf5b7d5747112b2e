package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/logview/internal/model"
)

const rateWindow = 5 * time.Second

// Stats holds a point-in-time snapshot of session metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	File         string           `json:"file,omitempty"`
	Watching     bool             `json:"watching"`
	View         model.Stats      `json:"view"`
	Appended     int64            `json:"appended"`      // entries ingested by tail appends
	Reloads      int64            `json:"reloads"`       // truncation reloads
	EPS          float64          `json:"eps"`           // appended entries per second, last 5s
	LevelCounts  map[string]int64 `json:"level_counts"`  // appended entries by level
	DroppedViews int64            `json:"dropped_views"` // views lost to slow consumers
	Clients      int              `json:"clients"`
}

// Aggregator follows the published views and computes live-tail metrics.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	latest      model.View
	appended    int64
	reloads     int64
	levelCounts map[string]int64
	window      []time.Time // arrival times for EPS calculation
	dropped     func() int64
	clients     func() int
	views       <-chan model.View
}

// New creates an Aggregator reading views from a hub subscription.
// droppedFn and clientsFn provide live values from the hub.
func New(views <-chan model.View, droppedFn func() int64, clientsFn func() int) *Aggregator {
	return &Aggregator{
		startTime:   time.Now(),
		levelCounts: make(map[string]int64),
		dropped:     droppedFn,
		clients:     clientsFn,
		views:       views,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[string]int64, len(a.levelCounts))
	for k, v := range a.levelCounts {
		counts[k] = v
	}

	cutoff := time.Now().Add(-rateWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:       time.Since(a.startTime).Truncate(time.Second).String(),
		File:         a.latest.Path,
		Watching:     a.latest.Watching,
		View:         a.latest.Stats,
		Appended:     a.appended,
		Reloads:      a.reloads,
		EPS:          float64(recent) / rateWindow.Seconds(),
		LevelCounts:  counts,
		DroppedViews: a.dropped(),
		Clients:      a.clients(),
	}
}

// Start consumes views until the context is cancelled or the channel closes.
func (a *Aggregator) Start(ctx context.Context) {
	// Periodically prune the sliding window.
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-a.views:
			if !ok {
				return
			}
			a.record(v)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(v model.View) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch v.Kind {
	case model.ViewLoaded:
		if v.Path != a.latest.Path {
			a.appended = 0
			a.reloads = 0
			a.levelCounts = make(map[string]int64)
			a.window = a.window[:0]
		}
	case model.ViewReloaded:
		a.reloads++
	case model.ViewAppended:
		now := time.Now()
		for _, e := range v.New {
			a.appended++
			a.levelCounts[string(e.Level)]++
			a.window = append(a.window, now)
		}
	}
	a.latest = v
}

// prune removes arrival times older than the rate window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-rateWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
