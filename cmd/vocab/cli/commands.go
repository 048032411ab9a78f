package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/vocab/internal/drill"
	"github.com/felixgeelhaar/vocab/internal/transfer"
	"github.com/felixgeelhaar/vocab/internal/ui/tui"
	"github.com/felixgeelhaar/vocab/internal/vocab"
	"github.com/spf13/cobra"
)

func runWithApp(opts *rootOptions, fn func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, opts, func(app *App) error {
			return fn(cmd, app, args)
		})
	}
}

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			return app.runMenu(cmd.Context())
		}),
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add [unit] [word] [meaning]",
		Short: "Add a word to a unit",
		Args:  cobra.ExactArgs(3),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			if err := app.Store.AddWord(args[0], args[1], args[2]); err != nil {
				return err
			}
			app.UI.Say(fmt.Sprintf("Added '%s' to %s.", vocab.Normalize(args[1]), vocab.Normalize(args[0])))
			return nil
		}),
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [unit] [word]",
		Short: "Delete a word from a unit",
		Args:  cobra.ExactArgs(2),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			var confirm vocab.Confirmer = app.UI
			if yes {
				confirm = vocab.AssumeYes
			}
			return app.deleteWord(args[0], args[1], confirm)
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var newWord, newMeaning string
	cmd := &cobra.Command{
		Use:   "update [unit] [word]",
		Short: "Rename a word or replace its meaning",
		Args:  cobra.ExactArgs(2),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			word, meaning := vocab.Unchanged(), vocab.Unchanged()
			if cmd.Flags().Changed("word") {
				word = vocab.SetTo(newWord)
			}
			if cmd.Flags().Changed("meaning") {
				meaning = vocab.SetTo(newMeaning)
			}
			if err := app.Store.UpdateWord(args[0], args[1], word, meaning); err != nil {
				return err
			}
			app.UI.Say(fmt.Sprintf("Updated '%s' in %s.", vocab.Normalize(args[1]), vocab.Normalize(args[0])))
			return nil
		}),
	}
	cmd.Flags().StringVar(&newWord, "word", "", "New spelling of the word")
	cmd.Flags().StringVar(&newMeaning, "meaning", "", "New meaning")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [unit]",
		Short: "List the words in a unit",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			return app.Store.ListWords(args[0], cmd.OutOrStdout())
		}),
	}
}

func newUnitsCmd(opts *rootOptions) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List units",
		Args:  cobra.NoArgs,
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			units, err := app.Store.MatchUnits(match)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				app.UI.Say("No units available.")
				return nil
			}
			for _, name := range units {
				app.UI.Say(fmt.Sprintf("%s (%d words)", name, len(app.Store.GetWords(name))))
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&match, "match", "m", "", "Only list units matching a glob, e.g. 'unit*'")
	return cmd
}

func newTrainCmd(opts *rootOptions) *cobra.Command {
	var r drill.Range
	cmd := &cobra.Command{
		Use:   "train [unit]",
		Short: "Review the meanings of a unit's words",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			_, err := app.Drill().Train(cmd.Context(), args[0], r)
			return err
		}),
	}
	cmd.Flags().StringVar(&r.From, "from", "", "First word of the range to practice")
	cmd.Flags().StringVar(&r.To, "to", "", "Last word of the range to practice")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}

func newTestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test [unit]",
		Short: "Test yourself on a unit's meanings",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			result, err := app.Drill().Quiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.showScore(result)
			return nil
		}),
	}
}

func (a *App) showScore(result *drill.QuizResult) {
	if a.interactive {
		a.UI.Say(tui.ScoreBar(result.Score(), 40))
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	var missed bool
	var unit string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past practice sessions",
		Args:  cobra.NoArgs,
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			h := app.History()
			if h == nil {
				return fmt.Errorf("practice history unavailable: %w", app.historyErr)
			}
			out := cmd.OutOrStdout()

			if missed {
				stats, err := h.MissedWords(vocab.Normalize(unit), limit)
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					app.UI.Say("No missed words recorded.")
					return nil
				}
				for _, s := range stats {
					fmt.Fprintf(out, "%-12s %-20s missed %d, correct %d\n", s.Unit, s.Word, s.Missed, s.Correct)
				}
				return nil
			}

			sessions, err := h.ListSessions(vocab.Normalize(unit), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				app.UI.Say("No practice sessions recorded.")
				return nil
			}
			for _, s := range sessions {
				fmt.Fprintf(out, "%s  %-12s %-8s %-9s %d/%d\n",
					s.CreatedAt.Format("2006-01-02 15:04"), s.Unit, s.Mode, s.Status, s.Correct, s.Total)
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&missed, "missed", false, "Show the words missed most often in testing")
	cmd.Flags().StringVar(&unit, "unit", "", "Only show this unit")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export the vocabulary to a .json or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			snapshot := app.Store.Snapshot()
			if err := transfer.Export(snapshot, args[0]); err != nil {
				return err
			}
			app.UI.Say(fmt.Sprintf("Exported %d units to %s.", snapshot.Len(), args[0]))
			return nil
		}),
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Add the words of a .json or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: runWithApp(opts, func(cmd *cobra.Command, app *App, args []string) error {
			records, res, err := transfer.Load(args[0])
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				app.Observer.Log().Warn().Str("path", args[0]).Msg(w)
			}
			if !res.Valid {
				return fmt.Errorf("invalid import file: %s", strings.Join(res.Errors, ", "))
			}
			added, skipped, err := transfer.Apply(app.Store, records)
			if err != nil {
				return err
			}
			app.UI.Say(fmt.Sprintf("Imported %d words (%d skipped).", added, skipped))
			return nil
		}),
	}
}

func (a *App) deleteWord(unit, word string, confirm vocab.Confirmer) error {
	err := a.Store.DeleteWord(unit, word, confirm)
	if errors.Is(err, vocab.ErrCanceled) {
		a.UI.Say("Deletion canceled.")
		return nil
	}
	if err != nil {
		return err
	}
	a.UI.Say(fmt.Sprintf("Deleted '%s' from %s.", vocab.Normalize(word), vocab.Normalize(unit)))
	return nil
}
