package drill

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/vocab/internal/store"
	"github.com/felixgeelhaar/vocab/internal/vocab"
)

// Miss is a word answered incorrectly or left blank.
type Miss struct {
	Word     string
	Expected string
	Answer   string
}

// QuizResult summarizes a testing session.
type QuizResult struct {
	SessionID string
	Unit      string
	Correct   int
	Total     int
	Misses    []Miss
}

// Score returns the percentage of correct answers, 0 for an empty quiz.
func (r *QuizResult) Score() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// Quiz asks for the meaning of every word in the unit in insertion order
// and prints a summary. Answers are compared after normalization.
func (d *Drill) Quiz(ctx context.Context, unit string) (*QuizResult, error) {
	ctx, span := d.observe.StartSpan(ctx, "drill.Quiz")
	defer span.End()

	unit = vocab.Normalize(unit)
	words, err := d.words(unit)
	if err != nil {
		return nil, err
	}

	result := &QuizResult{SessionID: d.newID(), Unit: unit}
	d.bus.PublishWithData(EventSessionStart, result.SessionID, map[string]interface{}{
		DataUnit:  unit,
		DataMode:  store.ModeTesting,
		DataTotal: len(words),
	})
	d.observe.Log().Info().Str("session", result.SessionID).Str("unit", unit).Int("words", len(words)).Msg("testing started")

	d.ui.Say("\nStarting Testing Mode...")
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			d.abort(result.SessionID, unit, store.ModeTesting, err)
			return result, err
		}
		result.Total++
		d.ui.Say(fmt.Sprintf("\nWord: %s", w.Word))
		raw, err := d.ui.Ask("What is the meaning? ")
		if err != nil {
			result.Total--
			d.abort(result.SessionID, unit, store.ModeTesting, err)
			return result, err
		}

		answer := vocab.Normalize(raw)
		correct := false
		switch {
		case answer == "":
			d.ui.Say("Answer cannot be empty.")
		case answer == vocab.Normalize(w.Meaning):
			d.ui.Say("Correct!")
			correct = true
		default:
			d.ui.Say(fmt.Sprintf("Incorrect. Correct meaning: %s", w.Meaning))
		}
		if correct {
			result.Correct++
		} else {
			result.Misses = append(result.Misses, Miss{Word: w.Word, Expected: w.Meaning, Answer: answer})
		}
		d.bus.PublishWithData(EventAnswerGraded, result.SessionID, map[string]interface{}{
			DataUnit:     unit,
			DataWord:     w.Word,
			DataExpected: w.Meaning,
			DataAnswer:   answer,
			DataCorrect:  correct,
		})
	}

	d.printSummary(result)
	d.bus.PublishWithData(EventSessionComplete, result.SessionID, map[string]interface{}{
		DataUnit:    unit,
		DataMode:    store.ModeTesting,
		DataCorrect: result.Correct,
		DataTotal:   result.Total,
	})
	return result, nil
}

func (d *Drill) printSummary(r *QuizResult) {
	d.ui.Say("\n=== Test Summary ===")
	d.ui.Say(fmt.Sprintf("Score: %d/%d (%.2f%%)", r.Correct, r.Total, r.Score()))
	if len(r.Misses) == 0 {
		d.ui.Say("All answers correct!")
		return
	}
	d.ui.Say("\nIncorrect answers:")
	for _, m := range r.Misses {
		d.ui.Say(fmt.Sprintf("Word: %s, Correct: %s, Your answer: %s", m.Word, m.Expected, m.Answer))
	}
}
