package hub

import (
	"testing"

	"github.com/atikulmunna/logview/internal/model"
)

// BenchmarkHubBroadcast measures the cost of publishing to N subscribers.
func BenchmarkHubBroadcast1(b *testing.B)  { benchHubBroadcast(b, 1) }
func BenchmarkHubBroadcast5(b *testing.B)  { benchHubBroadcast(b, 5) }
func BenchmarkHubBroadcast10(b *testing.B) { benchHubBroadcast(b, 10) }

func benchHubBroadcast(b *testing.B, numSubs int) {
	h := New()
	defer h.Close()

	// Create subscribers and drain them.
	for i := 0; i < numSubs; i++ {
		ch := h.Subscribe()
		go func() {
			for range ch {
			}
		}()
	}

	entries := []model.LogEntry{{Level: model.LevelInfo, Message: "benchmark event"}}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		h.Publish(model.View{Seq: uint64(i), Kind: model.ViewAppended, Entries: entries, New: entries})
	}
}
