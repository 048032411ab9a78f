// Package drill implements the two practice modes over a vocabulary store:
// training, which reveals each word's meaning after a pause and counts the
// exposure, and testing, which asks for every meaning and scores the answers.
package drill

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/felixgeelhaar/vocab/internal/guard"
	"github.com/felixgeelhaar/vocab/internal/observe"
	"github.com/felixgeelhaar/vocab/internal/ui"
	"github.com/felixgeelhaar/vocab/internal/vocab"
)

// ErrNoWords is returned when the selected unit has nothing to practice.
var ErrNoWords = errors.New("no words to practice")

// Drill runs practice sessions against a store.
type Drill struct {
	store   *vocab.Store
	guard   *guard.Guard
	observe *observe.Observer
	ui      ui.UI
	bus     *EventBus
	shuffle func([]string)
	sleep   func(context.Context, time.Duration) error
	newID   func() string
}

// Option customizes a Drill.
type Option func(*Drill)

// WithShuffle replaces the random shuffle applied before each training round.
func WithShuffle(fn func([]string)) Option {
	return func(d *Drill) { d.shuffle = fn }
}

// WithSleep replaces the pause before a meaning is revealed.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(d *Drill) { d.sleep = fn }
}

// WithEventBus publishes drill events on bus instead of a private one.
func WithEventBus(bus *EventBus) Option {
	return func(d *Drill) { d.bus = bus }
}

// WithSessionIDs replaces the session id generator.
func WithSessionIDs(fn func() string) Option {
	return func(d *Drill) { d.newID = fn }
}

func New(s *vocab.Store, g *guard.Guard, o *observe.Observer, u ui.UI, opts ...Option) *Drill {
	d := &Drill{
		store:   s,
		guard:   g,
		observe: o,
		ui:      u,
		bus:     NewEventBus(),
		shuffle: shuffleWords,
		sleep:   sleepContext,
		newID:   newSessionID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Events returns the bus drill events are published on.
func (d *Drill) Events() *EventBus {
	return d.bus
}

// words resolves unit to its ordered word list.
func (d *Drill) words(unit string) ([]vocab.Word, error) {
	words := d.store.GetWords(unit)
	if words == nil {
		return nil, fmt.Errorf("%w: unit '%s' does not exist", vocab.ErrNotFound, unit)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words in %s", ErrNoWords, unit)
	}
	return words, nil
}

func (d *Drill) abort(sessionID, unit, mode string, err error) {
	d.observe.Log().Warn().Str("session", sessionID).Str("unit", unit).Err(err).Msg("drill aborted")
	d.bus.PublishWithData(EventSessionAborted, sessionID, map[string]interface{}{
		DataUnit:  unit,
		DataMode:  mode,
		DataError: err.Error(),
	})
}

func shuffleWords(words []string) {
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
