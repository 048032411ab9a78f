package cli

import (
	"io"
	"os"

	"github.com/felixgeelhaar/vocab/internal/config"
	"github.com/felixgeelhaar/vocab/internal/drill"
	"github.com/felixgeelhaar/vocab/internal/guard"
	"github.com/felixgeelhaar/vocab/internal/observe"
	"github.com/felixgeelhaar/vocab/internal/store"
	"github.com/felixgeelhaar/vocab/internal/ui"
	"github.com/felixgeelhaar/vocab/internal/vocab"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// App carries everything a command needs once config and the vocabulary
// file have been loaded.
type App struct {
	Config   *config.Config
	Observer *observe.Observer
	Store    *vocab.Store
	UI       ui.UI

	in          io.Reader
	out         io.Writer
	interactive bool
	history     store.Storage
	historyErr  error
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.file != "" {
		cfg.VocabFile = opts.file
	}
	if opts.verbose {
		cfg.Log.Verbose = true
	}
	if opts.jsonLogs {
		cfg.Log.JSON = true
	}
	if opts.plain {
		cfg.Menu.Plain = true
	}

	obs := observe.NewWithOptions(cmd.ErrOrStderr(), observe.Options{
		Verbose: cfg.Log.Verbose,
		JSON:    cfg.Log.JSON,
	})

	s, err := vocab.Open(cfg.VocabFile,
		vocab.WithObserver(obs),
		vocab.WithStrictPersistence(cfg.StrictPersistence),
	)
	if err != nil {
		return nil, err
	}
	obs.Log().Info().Str("file", s.Path()).Int("units", len(s.Units())).Msg("vocabulary loaded")

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	return &App{
		Config:      cfg,
		Observer:    obs,
		Store:       s,
		UI:          ui.NewConsole(in, out),
		in:          in,
		out:         out,
		interactive: !cfg.Menu.Plain && isTerminal(in) && isTerminal(out),
	}, nil
}

func withApp(cmd *cobra.Command, opts *rootOptions, fn func(*App) error) error {
	app, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// History opens the practice history on first use. Drills still run when the
// database is unavailable; the failure is logged once.
func (a *App) History() store.Storage {
	if a.history != nil || a.historyErr != nil {
		return a.history
	}
	h, err := store.NewSQLiteStore(a.Config.HistoryDB)
	if err != nil {
		a.historyErr = err
		a.Observer.Log().Warn().Str("path", a.Config.HistoryDB).Err(err).Msg("practice history unavailable")
		return nil
	}
	a.history = h
	return h
}

// Drill returns a drill runner bound to the app's store and prompts, with
// sessions recorded to the history when it is available.
func (a *App) Drill() *drill.Drill {
	d := drill.New(a.Store, guard.New(a.Config.Policy()), a.Observer, a.UI)
	if h := a.History(); h != nil {
		drill.RecordHistory(d.Events(), h, a.Observer)
	}
	return d
}

func (a *App) Close() error {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.Observer.Log().Warn().Err(err).Msg("failed to close history")
		}
	}
	return a.Observer.Close()
}
