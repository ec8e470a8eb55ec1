// Package app assembles the pieces both binaries share: configuration,
// logging, the exercise catalog, the in-memory training log and the
// analysis service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/claude/liftcast/internal/analysis"
	"github.com/claude/liftcast/internal/catalog"
	"github.com/claude/liftcast/internal/config"
	"github.com/claude/liftcast/internal/ingest"
	"github.com/claude/liftcast/internal/ingest/alpha"
	"github.com/claude/liftcast/internal/ingest/history"
	"github.com/claude/liftcast/internal/logging"
	"github.com/joho/godotenv"
)

// App is a loaded training log ready for analysis.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Store   *ingest.Store
	Service *analysis.Service

	closer io.Closer
}

// Load reads .env (when present) and the config file, then ingests every
// configured data file. Logs go to console.
func Load(ctx context.Context, configPath string, console io.Writer) (*App, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return FromConfig(ctx, cfg, console)
}

// FromConfig builds an App from an already loaded config.
func FromConfig(ctx context.Context, cfg *config.Config, console io.Writer) (*App, error) {
	log, closer := logging.Setup(cfg.Log, console)
	a := &App{Config: cfg, Log: log, closer: closer}

	if err := a.load(ctx); err != nil {
		closer.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) load(ctx context.Context) error {
	cat, err := catalog.Load(a.Config.Data.Catalog, a.Log)
	if err != nil {
		return fmt.Errorf("loading exercise catalog: %w", err)
	}
	a.Store = ingest.NewStore(cat, a.Log)

	if path := a.Config.Data.History; path != "" {
		if _, err := ingest.IngestFile(ctx, history.NewProvider(a.Store, a.Log), path); err != nil {
			return err
		}
	}
	csv := alpha.NewProvider(a.Store, a.Log)
	for _, path := range a.Config.Data.AlphaCSV {
		if _, err := ingest.IngestFile(ctx, csv, path); err != nil {
			return err
		}
	}
	a.Log.Info("training log loaded", "workouts", a.Store.Len(), "exercises", cat.Len())

	opts, err := a.Config.Analysis.Options()
	if err != nil {
		return err
	}
	a.Service = analysis.New(a.Store, append(opts, analysis.WithLogger(a.Log))...)
	return nil
}

// Close flushes the log file, if any.
func (a *App) Close() error {
	return a.closer.Close()
}
