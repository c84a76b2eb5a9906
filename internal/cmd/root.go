// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mtreilly/arc-shelf/internal/config"
	"github.com/mtreilly/arc-shelf/internal/library"
	"github.com/mtreilly/arc-shelf/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App is the state shared by the commands of one invocation.
type App struct {
	cfgFile string

	Config  *config.Config
	Log     zerolog.Logger
	Catalog *library.Catalog
	Source  library.MetadataSource
}

// Option configures the root command.
type Option func(*App)

// WithCatalog makes every command use c instead of opening the configured
// store.
func WithCatalog(c *library.Catalog) Option {
	return func(a *App) {
		a.Catalog = c
	}
}

// WithSource replaces the Google Books metadata source used by import.
func WithSource(src library.MetadataSource) Option {
	return func(a *App) {
		a.Source = src
	}
}

// Root is the arc-shelf command tree. Executing it closes the catalog
// afterwards whether or not the command failed; cobra skips post-run hooks
// once RunE returns an error.
type Root struct {
	*cobra.Command
	app *App
}

// ExecuteContext runs the command tree and then releases the catalog.
func (r *Root) ExecuteContext(ctx context.Context) error {
	err := r.Command.ExecuteContext(ctx)
	return errors.Join(err, r.app.teardown())
}

// Execute is ExecuteContext with a background context.
func (r *Root) Execute() error {
	return r.ExecuteContext(context.Background())
}

// NewRootCmd creates the root command for arc-shelf.
func NewRootCmd(opts ...Option) *Root {
	app := &App{Log: zerolog.Nop()}
	for _, opt := range opts {
		opt(app)
	}

	root := &cobra.Command{
		Use:   "arc-shelf",
		Short: "Manage your personal book catalog",
		Long: `Keep track of the books you own.

arc-shelf provides tools to:
- Add, update and remove books
- Search by title, author or genre
- List books, optionally by genre
- Chart how many books you have per genre
- Import books from Google Books

Books are stored in a CSV file (Title,Author,Genre,Year) that you can also
edit by hand. Run "arc-shelf shell" for the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "Config file (default ~/.arc-shelf.yaml)")
	flags.String("storage", "", "Storage backend: csv, sqlite, memory")
	flags.String("data-file", "", "CSV file holding the catalog")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.setup(root, cmd.ErrOrStderr())
	}

	root.AddCommand(newAddCmd(app))
	root.AddCommand(newSearchCmd(app))
	root.AddCommand(newUpdateCmd(app))
	root.AddCommand(newRemoveCmd(app))
	root.AddCommand(newListCmd(app))
	root.AddCommand(newChartCmd(app))
	root.AddCommand(newStatsCmd(app))
	root.AddCommand(newDuplicatesCmd(app))
	root.AddCommand(newImportCmd(app))
	root.AddCommand(newExportCmd(app))
	root.AddCommand(newShellCmd(app))

	return &Root{Command: root, app: app}
}

// setup resolves config, the logger, the catalog and the metadata source.
// Pieces injected through options are kept.
func (a *App) setup(root *cobra.Command, stderr io.Writer) error {
	v := config.New(a.cfgFile)
	flags := root.PersistentFlags()
	for key, name := range map[string]string{
		"storage":   "storage",
		"data_file": "data-file",
		"log_level": "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Log = logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.ConfigFile != "" {
		a.Log.Debug().Str("file", cfg.ConfigFile).Msg("config loaded")
	}

	if a.Catalog == nil {
		c, err := a.openCatalog(stderr)
		if err != nil {
			return err
		}
		a.Catalog = c
	}

	if a.Source == nil {
		md := cfg.Metadata
		a.Source = library.NewGoogleBooks(md.Endpoint, md.Timeout,
			library.WithAPIKey(md.APIKey),
			library.WithUserAgent(md.UserAgent),
			library.WithCacheTTL(md.CacheTTL),
		)
	}
	return nil
}

// teardown closes the catalog once. It is safe to call again.
func (a *App) teardown() error {
	if a.Catalog == nil {
		return nil
	}
	err := a.Catalog.Close()
	a.Catalog = nil
	return err
}

// openCatalog opens the configured store. If it cannot be opened or read,
// the catalog runs on an in-memory store for this invocation so the
// unreadable data is never overwritten.
func (a *App) openCatalog(stderr io.Writer) (*library.Catalog, error) {
	store, err := a.openStore()
	if err == nil {
		var c *library.Catalog
		c, err = library.Open(store, library.WithLogger(a.Log))
		if err == nil {
			return c, nil
		}
		store.Close()
	}
	if !errors.Is(err, library.ErrPersistenceUnavailable) {
		return nil, err
	}

	fmt.Fprintf(stderr, "WARNING: cannot open %s store: %v\n", a.Config.Storage, err)
	fmt.Fprintln(stderr, "         falling back to in-memory store (no persistence)")
	a.Log.Warn().Err(err).Str("storage", a.Config.Storage).Msg("using in-memory fallback")
	return library.Open(library.NewMemoryStore(), library.WithLogger(a.Log))
}

func (a *App) openStore() (library.Store, error) {
	switch a.Config.Storage {
	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(a.Config.DBFile), 0o755); err != nil {
			return nil, &library.PersistenceError{Op: "open", Path: a.Config.DBFile, Err: err}
		}
		return library.OpenSQLStore(a.Config.DBFile)
	case config.StorageMemory:
		return library.NewMemoryStore(), nil
	default:
		return library.NewCSVStore(a.Config.DataFile, a.Log)
	}
}
