// Package cli holds the bookshelf command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bookshelf/internal/app"
	"github.com/MrSnakeDoc/bookshelf/internal/config"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
)

// env is what every command needs before it touches a store
type env struct {
	cfg *config.Config
	log logger.Logger
}

// loadEnv is replaced in tests
var loadEnv = func() env {
	cfg := config.Load()
	return env{cfg: cfg, log: logger.New(cfg.LogLevel, cfg.PrettyLog)}
}

// openBackend is replaced in tests
var openBackend = app.OpenBackend

// NewRootCmd creates the root command for bookshelf.
// Running it without a subcommand starts the server.
func NewRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "bookshelf",
		Short: "Track the books you want, own and read",
		Long: `Keep a wishlist, promote entries once bought or borrowed,
and record read dates and notes on your books.

bookshelf provides:
- an HTTP API (serve, the default)
- YAML export and import of the whole collection
- a repair pass for entries left behind by an interrupted promotion`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.AddCommand(serve)
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newRepairCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bookshelf: %v\n", err)
		os.Exit(1)
	}
}

// withBackend opens the configured store, runs fn, then closes the store.
func withBackend(ctx context.Context, e env, fn func(*app.Backend) error) error {
	backend, err := openBackend(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			e.log.Warn("failed to close store", logger.Error(err))
		}
	}()
	return fn(backend)
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
