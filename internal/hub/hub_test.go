package hub

import (
	"testing"
	"time"

	"github.com/atikulmunna/logview/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	h := New()

	sub1 := h.Subscribe()
	sub2 := h.Subscribe()

	h.Publish(model.View{Seq: 1, Kind: model.ViewLoaded, Path: "test.log"})

	// Both subscribers should receive it.
	for i, sub := range []<-chan model.View{sub1, sub2} {
		select {
		case v := <-sub:
			if v.Seq != 1 || v.Kind != model.ViewLoaded {
				t.Errorf("sub%d: unexpected view %+v", i+1, v)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("sub%d: timed out", i+1)
		}
	}
}

func TestHubSlowConsumer(t *testing.T) {
	h := New()

	// Subscribe but never read: simulates a slow consumer.
	_ = h.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish(model.View{Seq: uint64(i)})
	}

	if h.Dropped() != 10 {
		t.Errorf("expected 10 dropped views, got %d", h.Dropped())
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := New()
	sub := h.Subscribe()
	if h.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.Subscribers())
	}

	h.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Error("expected channel to be closed")
	}
	if h.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.Subscribers())
	}

	// Unsubscribing twice is harmless, publishing to nobody too.
	h.Unsubscribe(sub)
	h.Publish(model.View{Seq: 2})
}

func TestHubClose(t *testing.T) {
	h := New()
	sub := h.Subscribe()
	h.Close()

	if _, ok := <-sub; ok {
		t.Error("expected subscriber closed")
	}
	late := h.Subscribe()
	if _, ok := <-late; ok {
		t.Error("expected late subscription to be closed")
	}
	h.Publish(model.View{Seq: 3})
}
