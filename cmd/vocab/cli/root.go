package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	file       string
	verbose    bool
	jsonLogs   bool
	plain      bool
}

// NewRootCmd builds the vocab command tree reading from in and writing to out
// and errOut. Running it without a subcommand opens the interactive menu.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "vocab",
		Short: "Vocabulary trainer",
		Long: `Vocab keeps word/meaning pairs grouped into units in a local JSON file.
Words can be edited, drilled in training mode and self-tested in testing mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *App) error {
				return app.runMenu(cmd.Context())
			})
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml or ~/.vocab/config.yaml)")
	pf.StringVarP(&opts.file, "file", "f", "", "vocabulary file (overrides vocab_file)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&opts.jsonLogs, "json-logs", false, "Write logs as JSON")
	pf.BoolVar(&opts.plain, "plain", false, "Use numbered prompts instead of the interactive menu")

	root.AddCommand(
		newMenuCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
		newUpdateCmd(opts),
		newListCmd(opts),
		newUnitsCmd(opts),
		newTrainCmd(opts),
		newTestCmd(opts),
		newHistoryCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
