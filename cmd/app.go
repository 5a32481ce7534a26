// Package cmd provides the command line interface for unit-ops
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trly/unit-ops/internal/config"
	"github.com/trly/unit-ops/internal/confirm"
	"github.com/trly/unit-ops/internal/execx"
	"github.com/trly/unit-ops/internal/fs"
	"github.com/trly/unit-ops/internal/log"
)

// App holds the application dependencies for the command line interface.
type App struct {
	Logger    log.Logger
	Config    *config.Settings
	FSService *fs.Service
	Runner    execx.Runner
	Gate      confirm.Gate
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(logger log.Logger, cfg *config.Settings) *App {
	return &App{
		Logger:    logger,
		Config:    cfg,
		FSService: fs.NewService(logger),
		Runner:    execx.NewRealRunner(),
		Gate:      confirm.NewPrompter(cfg.Auto),
	}
}

// contextKey scopes context values to this package.
type contextKey string

// appContextKey carries the assembled App through the command context.
const appContextKey contextKey = "app"

// appFromCommand retrieves the App injected by the root command.
func appFromCommand(cmd *cobra.Command) *App {
	return cmd.Context().Value(appContextKey).(*App)
}
