package main

import (
	"context"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/di"
	"github.com/bookshelfapp/bookshelf/internal/logger"
	"github.com/bookshelfapp/bookshelf/internal/service"
)

// app carries the per-invocation state shared by every subcommand.
type app struct {
	overrides config.Overrides
	jsonOut   bool

	root     *cobra.Command
	injector *do.RootScope
	svc      *service.ReaderService
	out      io.Writer
}

func newApp() *app {
	a := &app{}

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Track reading progress over the bookshelf catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.start(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.overrides.Environment, "env", "", "environment (development, staging, production)")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.overrides.DataPath, "data-path", "", "directory holding durable state")
	flags.StringVar(&a.overrides.Backend, "storage", "", "storage backend (badger, sqlite, memory)")
	flags.StringVar(&a.overrides.EnvFile, "env-file", "", "path to a .env file")
	flags.BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newBooksCommand(a),
		newGenresCommand(a),
		newShowCommand(a),
		newSearchCommand(a),
		newReadCommand(a),
		newNoteCommand(a),
		newProgressCommand(a),
		newStatsCommand(a),
		newRecentCommand(a),
		newRecommendCommand(a),
		newBackupCommand(a),
	)

	a.root = root
	return a
}

// execute runs the command tree. Storage is closed whether or not the command
// failed, since cobra skips post-run hooks after an error.
func (a *app) execute(ctx context.Context) error {
	defer a.stop()
	return a.root.ExecuteContext(ctx)
}

func (a *app) start(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.injector = di.NewContainer(a.overrides)

	svc, err := di.Bootstrap(a.injector)
	if err != nil {
		a.stop()
		return err
	}
	a.svc = svc
	return nil
}

func (a *app) stop() {
	if a.injector == nil {
		return
	}
	if err := a.injector.Shutdown(); err != nil {
		if log, invokeErr := do.Invoke[*logger.Logger](a.injector); invokeErr == nil {
			log.Error("Shutdown error", "error", err)
		}
	}
	a.injector = nil
}
