package drill

import (
	"sync"
	"testing"
	"time"
)

func TestEventBus_Subscribe(t *testing.T) {
	eb := NewEventBus()
	called := false

	eb.Subscribe(EventWordRevealed, func(e Event) {
		called = true
	})
	eb.Publish(Event{Type: EventAnswerGraded})
	if called {
		t.Error("handler called for a different event type")
	}

	eb.Publish(Event{Type: EventWordRevealed})
	if !called {
		t.Error("handler was not called")
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	eb := NewEventBus()
	count := 0

	eb.SubscribeAll(func(e Event) {
		count++
	})

	eb.Publish(Event{Type: EventSessionStart})
	eb.Publish(Event{Type: EventWordRevealed})
	eb.Publish(Event{Type: EventSessionComplete})

	if count != 3 {
		t.Errorf("expected 3 calls, got %d", count)
	}
}

func TestEventBus_PublishWithData(t *testing.T) {
	eb := NewEventBus()
	var received Event

	eb.Subscribe(EventAnswerGraded, func(e Event) {
		received = e
	})

	eb.PublishWithData(EventAnswerGraded, "sess-123", map[string]interface{}{DataWord: "shalom"})

	if received.SessionID != "sess-123" {
		t.Errorf("expected session 'sess-123', got %q", received.SessionID)
	}
	if received.Data[DataWord] != "shalom" {
		t.Error("data not properly passed")
	}
	if received.Timestamp.IsZero() {
		t.Error("timestamp should be set automatically")
	}
}

func TestEventBus_PreservesTimestamp(t *testing.T) {
	eb := NewEventBus()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var received Event

	eb.SubscribeAll(func(e Event) { received = e })
	eb.Publish(Event{Type: EventSessionStart, Timestamp: fixed})

	if !received.Timestamp.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, received.Timestamp)
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	eb := NewEventBus()
	var mu sync.Mutex
	count := 0

	eb.SubscribeAll(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eb.Publish(Event{Type: EventWordRevealed})
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("expected 50 calls, got %d", count)
	}
}
