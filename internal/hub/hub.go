package hub

import (
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/atikulmunna/logview/internal/model"
)

const subscriberBuffer = 64

// Hub fans session views out to every subscriber (terminal printer, TUI,
// WebSocket clients).
type Hub struct {
	mu          sync.RWMutex
	subscribers map[<-chan model.View]chan model.View
	closed      bool
	dropped     atomic.Int64
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subscribers: make(map[<-chan model.View]chan model.View)}
}

// Subscribe returns a buffered channel that receives every published view.
// On a closed hub the returned channel is already closed.
func (h *Hub) Subscribe() <-chan model.View {
	ch := make(chan model.View, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = ch
	return ch
}

// Unsubscribe removes and closes a subscription.
func (h *Hub) Unsubscribe(sub <-chan model.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(ch)
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns the total number of views dropped due to slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Publish sends a view to all subscribers without blocking. A subscriber
// whose buffer is full misses the view.
func (h *Hub) Publish(v model.View) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- v:
		default:
			n := h.dropped.Add(1)
			log.WithFields(log.Fields{"seq": v.Seq, "dropped": n}).Warn("hub: dropped view for slow consumer")
		}
	}
}

// Close closes every subscriber channel. Later subscriptions are closed
// immediately and later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, sub)
	}
	h.closed = true
}
