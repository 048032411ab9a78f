package drill

import (
	"sync"
	"time"
)

// EventType represents the type of drill event.
type EventType string

const (
	EventSessionStart    EventType = "session_start"
	EventWordRevealed    EventType = "word_revealed"
	EventWordSkipped     EventType = "word_skipped"
	EventAnswerGraded    EventType = "answer_graded"
	EventSessionComplete EventType = "session_complete"
	EventSessionAborted  EventType = "session_aborted"
)

// Keys used in Event.Data.
const (
	DataUnit     = "unit"
	DataMode     = "mode"
	DataWord     = "word"
	DataExpected = "expected"
	DataAnswer   = "answer"
	DataCorrect  = "correct"
	DataCount    = "count"
	DataTotal    = "total"
	DataError    = "error"
)

// Event represents a drill event with associated data.
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID string
	Data      map[string]interface{}
}

// EventHandler is a function that handles events.
type EventHandler func(Event)

// EventBus manages event publication and subscription.
// Drills publish on it; the history recorder and loggers subscribe.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]EventHandler
	allHandlers []EventHandler
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types.
func (eb *EventBus) SubscribeAll(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.allHandlers = append(eb.allHandlers, handler)
}

// Publish sends an event to all registered handlers.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, handler := range eb.handlers[event.Type] {
		handler(event)
	}
	for _, handler := range eb.allHandlers {
		handler(event)
	}
}

// PublishWithData publishes an event with associated data.
func (eb *EventBus) PublishWithData(eventType EventType, sessionID string, data map[string]interface{}) {
	eb.Publish(Event{
		Type:      eventType,
		SessionID: sessionID,
		Data:      data,
	})
}
