package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/felixgeelhaar/vocab/internal/drill"
	"github.com/felixgeelhaar/vocab/internal/ui/tui"
	"github.com/felixgeelhaar/vocab/internal/vocab"
)

var (
	mainOptions = []string{"Editing Mode", "Training Mode", "Testing Mode", "Exit"}
	editOptions = []string{"Add a word", "Delete a word", "Update a word", "List words in a unit", "Back to main menu"}
)

// runMenu loops over the main menu until Exit is chosen or input ends.
func (a *App) runMenu(ctx context.Context) error {
	for {
		choice, err := a.choose("Vocabulary Trainer", mainOptions)
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case 0:
			err = a.editingMenu()
		case 1:
			err = a.trainingMenu(ctx)
		case 2:
			err = a.testingMenu(ctx)
		default:
			a.UI.Say("Goodbye!")
			return nil
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// choose shows options and returns the chosen index. Terminals get the
// arrow-key menu, everything else numbered prompts.
func (a *App) choose(title string, options []string) (int, error) {
	if a.interactive {
		i, err := tui.Choose(title, options, a.in, a.out)
		if errors.Is(err, tui.ErrQuit) {
			return len(options) - 1, nil
		}
		return i, err
	}

	a.UI.Say(fmt.Sprintf("\n=== %s ===", title))
	for i, opt := range options {
		a.UI.Say(fmt.Sprintf("%d. %s", i+1, opt))
	}
	for {
		answer, err := a.UI.Ask(fmt.Sprintf("Choose an option (1-%d): ", len(options)))
		if err != nil {
			return -1, err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(answer)); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		a.UI.Say(fmt.Sprintf("Invalid option. Enter 1-%d.", len(options)))
	}
}

func (a *App) editingMenu() error {
	for {
		choice, err := a.choose("Editing Mode", editOptions)
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			err = a.addFromPrompts()
		case 1:
			err = a.deleteFromPrompts()
		case 2:
			err = a.updateFromPrompts()
		case 3:
			err = a.listFromPrompts()
		default:
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			a.UI.Say(userMessage(err))
		}
	}
}

// askAll asks each prompt in turn and stops at the first input error.
func (a *App) askAll(prompts ...string) ([]string, error) {
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		answer, err := a.UI.Ask(p)
		if err != nil {
			return nil, err
		}
		answers[i] = strings.TrimSpace(answer)
	}
	return answers, nil
}

func (a *App) addFromPrompts() error {
	in, err := a.askAll("Unit name: ", "English word: ", "Meaning: ")
	if err != nil {
		return err
	}
	if err := a.Store.AddWord(in[0], in[1], in[2]); err != nil {
		return err
	}
	a.UI.Say(fmt.Sprintf("Added '%s' to %s.", vocab.Normalize(in[1]), vocab.Normalize(in[0])))
	return nil
}

func (a *App) deleteFromPrompts() error {
	in, err := a.askAll("Unit name: ", "Word to delete: ")
	if err != nil {
		return err
	}
	return a.deleteWord(in[0], in[1], a.UI)
}

func (a *App) updateFromPrompts() error {
	in, err := a.askAll("Unit name: ", "Word to update: ", "New word (Enter to keep): ", "New meaning (Enter to keep): ")
	if err != nil {
		return err
	}
	word, meaning := vocab.Unchanged(), vocab.Unchanged()
	if in[2] != "" {
		word = vocab.SetTo(in[2])
	}
	if in[3] != "" {
		meaning = vocab.SetTo(in[3])
	}
	if err := a.Store.UpdateWord(in[0], in[1], word, meaning); err != nil {
		return err
	}
	a.UI.Say(fmt.Sprintf("Updated '%s' in %s.", vocab.Normalize(in[1]), vocab.Normalize(in[0])))
	return nil
}

func (a *App) listFromPrompts() error {
	unit, err := a.UI.Ask("Unit name: ")
	if err != nil {
		return err
	}
	return a.Store.ListWords(unit, a.out)
}

// pickUnit asks for one of the existing units. ok is false when the user
// backed out or named an unknown unit.
func (a *App) pickUnit() (unit string, ok bool, err error) {
	units := a.Store.Units()
	if len(units) == 0 {
		a.UI.Say("No units available. Add words in Editing Mode first.")
		return "", false, nil
	}

	a.UI.Say("\nAvailable units: " + strings.Join(units, ", "))
	answer, err := a.UI.Ask("Choose a unit (or 'back' to return): ")
	if err != nil {
		return "", false, err
	}
	unit = vocab.Normalize(answer)
	if unit == "back" {
		return "", false, nil
	}
	if !slices.Contains(units, unit) {
		a.UI.Say(fmt.Sprintf("Unit '%s' does not exist.", unit))
		return "", false, nil
	}
	if err := a.Store.ListWords(unit, a.out); err != nil {
		return "", false, err
	}
	return unit, true, nil
}

func (a *App) trainingMenu(ctx context.Context) error {
	unit, ok, err := a.pickUnit()
	if err != nil || !ok {
		return err
	}

	answer, err := a.UI.Ask("Practice full unit or a range? (full/range/back): ")
	if err != nil {
		return err
	}
	var r drill.Range
	switch vocab.Normalize(answer) {
	case "back":
		return nil
	case "full":
	case "range":
		in, err := a.askAll("Enter start word: ", "Enter end word: ")
		if err != nil {
			return err
		}
		if vocab.Normalize(in[0]) == "" || vocab.Normalize(in[1]) == "" {
			a.UI.Say("Start and end words cannot be empty.")
			return nil
		}
		r = drill.Range{From: in[0], To: in[1]}
	default:
		a.UI.Say("Invalid choice.")
		return nil
	}

	_, err = a.Drill().Train(ctx, unit, r)
	return a.drillOutcome(err)
}

func (a *App) testingMenu(ctx context.Context) error {
	unit, ok, err := a.pickUnit()
	if err != nil || !ok {
		return err
	}

	result, err := a.Drill().Quiz(ctx, unit)
	if err == nil {
		a.showScore(result)
	}
	return a.drillOutcome(err)
}

// drillOutcome reports drill errors in the menu. Only closed input and
// cancellation end the menu.
func (a *App) drillOutcome(err error) error {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return err
	}
	a.UI.Say(userMessage(err))
	return nil
}

// userMessage turns a store or drill error into a sentence for the menu.
func userMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{vocab.ErrValidation, vocab.ErrNotFound, vocab.ErrConflict, drill.ErrNoWords} {
		if errors.Is(err, kind) {
			msg = strings.TrimPrefix(msg, kind.Error()+": ")
		}
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") && !strings.HasSuffix(msg, "!") {
		msg += "."
	}
	return msg
}
