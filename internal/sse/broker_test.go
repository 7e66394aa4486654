package sse

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/othala/internal/models"
)

func TestSubscribePublishUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("client count = %d, want 1", got)
	}

	b.Publish(Event{Type: "test", Data: map[string]string{"k": "v"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: test") || !strings.Contains(s, `"k":"v"`) {
			t.Errorf("message = %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}

	b.Unsubscribe(ch)
	if got := b.ClientCount(); got != 0 {
		t.Errorf("client count after unsubscribe = %d, want 0", got)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestPublishSnapshot(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.PublishSnapshot(models.Snapshot{
		Nodes:  []models.Node{{ID: "a", Title: "A"}},
		Config: models.Config{Title: "Wiki"},
	})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: "+ContentUpdated) {
			t.Errorf("wrong event name: %q", s)
		}
		if !strings.Contains(s, `"title":"Wiki"`) {
			t.Errorf("snapshot payload missing config: %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	_ = b.Subscribe() // never drained
	fast := b.Subscribe()

	// Overflow the slow client's buffer; the loop must keep serving.
	for range 64 {
		b.Publish(Event{Type: "spam", Data: 1})
	}
	b.Publish(Event{Type: "final", Data: 2})

	got := 0
	for {
		select {
		case <-fast:
			got++
			if got >= 16 {
				return
			}
		case <-time.After(time.Second):
			t.Fatalf("fast client starved after %d messages", got)
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after broker close")
	}
	if got := b.ClientCount(); got != 0 {
		t.Errorf("client count after close = %d", got)
	}
	// Publishing after close must not panic.
	b.Publish(Event{Type: "late", Data: nil})
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	req := httptest.NewRequest("GET", "/events", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.ServeHTTP(rec, req)
	}()

	// Wait for the subscription, push one event, then stop the broker to
	// end the stream.
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	b.Publish(Event{Type: "ping", Data: "pong"})
	time.Sleep(50 * time.Millisecond)
	b.Close()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: ping") || !strings.Contains(body, `data: "pong"`) {
		t.Errorf("body = %q", body)
	}
}
