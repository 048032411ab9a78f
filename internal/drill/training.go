package drill

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/vocab/internal/store"
	"github.com/felixgeelhaar/vocab/internal/vocab"
)

// Range selects a contiguous run of words, From and To inclusive, in the
// unit's insertion order. The zero Range selects the whole unit.
type Range struct {
	From string
	To   string
}

// IsFull reports whether the range covers the whole unit.
func (r Range) IsFull() bool {
	return r.From == "" && r.To == ""
}

// TrainingResult summarizes a training session.
type TrainingResult struct {
	SessionID string
	Unit      string
	Words     int // words in the selection
	Shown     int // meanings revealed
}

// Train walks the selected words in shuffled rounds, revealing each meaning
// after the policy delay and counting the exposure. Words that reached the
// exposure cap are skipped.
func (d *Drill) Train(ctx context.Context, unit string, r Range) (*TrainingResult, error) {
	ctx, span := d.observe.StartSpan(ctx, "drill.Train")
	defer span.End()

	unit = vocab.Normalize(unit)
	words, err := d.words(unit)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(words))
	for i, w := range words {
		keys[i] = w.Word
	}
	keys, err = d.selectRange(keys, r)
	if err != nil {
		return nil, err
	}

	result := &TrainingResult{SessionID: d.newID(), Unit: unit, Words: len(keys)}
	d.bus.PublishWithData(EventSessionStart, result.SessionID, map[string]interface{}{
		DataUnit:  unit,
		DataMode:  store.ModeTraining,
		DataTotal: len(keys),
	})
	d.observe.Log().Info().Str("session", result.SessionID).Str("unit", unit).Int("words", len(keys)).Msg("training started")

	policy := d.guard.Policy()
	d.ui.Say("\nStarting Training Mode...")
	for round := 1; d.guard.CheckRound(round) == nil; round++ {
		d.shuffle(keys)
		for _, word := range keys {
			entry, ok := d.store.Lookup(unit, word)
			if !ok {
				continue
			}
			if v := d.guard.CheckExposure(entry.RepeatCount); v != nil {
				d.bus.PublishWithData(EventWordSkipped, result.SessionID, map[string]interface{}{
					DataUnit: unit,
					DataWord: word,
				})
				continue
			}

			d.ui.Say(fmt.Sprintf("\nWord: %s", word))
			if _, err := d.ui.Ask(revealPrompt(policy.RevealDelay)); err != nil {
				d.abort(result.SessionID, unit, store.ModeTraining, err)
				return result, err
			}
			if err := d.sleep(ctx, policy.RevealDelay); err != nil {
				d.abort(result.SessionID, unit, store.ModeTraining, err)
				return result, err
			}
			d.ui.Say(fmt.Sprintf("Meaning: %s", entry.Meaning))
			if err := d.store.IncrementRepeatCount(unit, word); err != nil {
				d.abort(result.SessionID, unit, store.ModeTraining, err)
				return result, err
			}
			result.Shown++
			d.bus.PublishWithData(EventWordRevealed, result.SessionID, map[string]interface{}{
				DataUnit:  unit,
				DataWord:  word,
				DataCount: entry.RepeatCount + 1,
			})
			if _, err := d.ui.Ask("Press Enter for next word..."); err != nil {
				d.abort(result.SessionID, unit, store.ModeTraining, err)
				return result, err
			}
		}
	}
	d.ui.Say("Training session complete!")

	d.bus.PublishWithData(EventSessionComplete, result.SessionID, map[string]interface{}{
		DataUnit:    unit,
		DataMode:    store.ModeTraining,
		DataCorrect: result.Shown,
		DataTotal:   result.Words,
	})
	return result, nil
}

func (d *Drill) selectRange(keys []string, r Range) ([]string, error) {
	if r.IsFull() {
		return keys, nil
	}
	from, to := vocab.Normalize(r.From), vocab.Normalize(r.To)
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: start and end words cannot be empty", vocab.ErrValidation)
	}
	start, end := indexOf(keys, from), indexOf(keys, to)
	if v := d.guard.CheckRange(start, end); v != nil {
		return nil, v
	}
	return keys[start : end+1], nil
}

func revealPrompt(delay time.Duration) string {
	if delay%time.Second == 0 {
		return fmt.Sprintf("Press Enter to see meaning (or wait %d seconds)...", int(delay/time.Second))
	}
	return fmt.Sprintf("Press Enter to see meaning (or wait %s)...", delay)
}

func indexOf(keys []string, word string) int {
	for i, k := range keys {
		if k == word {
			return i
		}
	}
	return -1
}
