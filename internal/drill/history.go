package drill

import (
	"strconv"

	"github.com/felixgeelhaar/vocab/internal/observe"
	"github.com/felixgeelhaar/vocab/internal/store"
	"github.com/google/uuid"
)

func newSessionID() string {
	return uuid.New().String()
}

// RecordHistory subscribes to drill events on bus and writes sessions and
// graded answers to storage. History is best effort: storage errors are
// logged and never interrupt a drill.
func RecordHistory(bus *EventBus, storage store.Storage, o *observe.Observer) {
	bus.SubscribeAll(func(e Event) {
		if err := recordEvent(storage, e); err != nil {
			o.Log().Warn().Str("session", e.SessionID).Str("event", string(e.Type)).Err(err).Msg("failed to record history")
		}
	})
}

func recordEvent(storage store.Storage, e Event) error {
	switch e.Type {
	case EventSessionStart:
		return storage.CreateSession(&store.Session{
			ID:        e.SessionID,
			Unit:      stringData(e, DataUnit),
			Mode:      stringData(e, DataMode),
			Status:    store.StatusActive,
			CreatedAt: e.Timestamp,
			Metadata:  map[string]string{"words": strconv.Itoa(intData(e, DataTotal))},
		})

	case EventAnswerGraded:
		correct, _ := e.Data[DataCorrect].(bool)
		return storage.RecordAttempt(&store.Attempt{
			SessionID: e.SessionID,
			Word:      stringData(e, DataWord),
			Expected:  stringData(e, DataExpected),
			Answer:    stringData(e, DataAnswer),
			Correct:   correct,
			CreatedAt: e.Timestamp,
		})

	case EventSessionComplete:
		session, err := storage.GetSession(e.SessionID)
		if err != nil {
			return err
		}
		session.Status = store.StatusCompleted
		session.Correct = intData(e, DataCorrect)
		session.Total = intData(e, DataTotal)
		return storage.UpdateSession(session)

	case EventSessionAborted:
		session, err := storage.GetSession(e.SessionID)
		if err != nil {
			return err
		}
		session.Status = store.StatusAborted
		if session.Metadata == nil {
			session.Metadata = make(map[string]string)
		}
		session.Metadata["error"] = stringData(e, DataError)
		return storage.UpdateSession(session)
	}
	return nil
}

func stringData(e Event, key string) string {
	s, _ := e.Data[key].(string)
	return s
}

func intData(e Event, key string) int {
	n, _ := e.Data[key].(int)
	return n
}
