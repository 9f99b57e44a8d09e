// Package cli implements the luma command line: a long-running serve
// command plus one-shot index maintenance commands. Commands share a
// Deps bundle so tests can inject a store and clock instead of touching
// the real filesystem or network.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/lumapress/luma/pkg/config"
	"github.com/lumapress/luma/pkg/content"
	"github.com/lumapress/luma/pkg/internal"
	"github.com/lumapress/luma/pkg/log"
	"github.com/lumapress/luma/pkg/storage"
)

// Deps carries everything a command needs. Zero values resolve lazily
// from the loaded configuration; tests pre-populate Store, Clock and
// Logger.
type Deps struct {
	// ConfigFile is the explicit --config value; empty means discovery.
	ConfigFile string

	LogLevel string
	LogJSON  bool

	// Store, Clock and Logger are injection points for tests. When nil
	// they are built from configuration on first use.
	Store  storage.Store
	Clock  internal.Clock
	Logger *slog.Logger

	cfg    *config.Config
	engine *content.Engine
}

// Config loads and memoizes the configuration.
func (d *Deps) Config() (config.Config, error) {
	if d.cfg != nil {
		return *d.cfg, nil
	}
	cfg, err := config.Load(d.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}
	if d.LogLevel != "" {
		cfg.Log.Level = d.LogLevel
	}
	if d.LogJSON {
		cfg.Log.JSON = true
	}
	d.cfg = &cfg
	return cfg, nil
}

// ResolveLogger returns the injected logger or builds one from config.
func (d *Deps) ResolveLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	cfg, err := d.Config()
	if err != nil {
		// Config problems surface from the command itself; logging still
		// needs to work before that.
		d.Logger = log.NewLogger(log.LoggerConfig{Out: os.Stderr})
		return d.Logger
	}
	d.Logger = log.NewLogger(log.LoggerConfig{
		Out:   os.Stderr,
		Level: log.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	return d.Logger
}

// Engine returns the content engine, opening the configured store on
// first use.
func (d *Deps) Engine(ctx context.Context) (*content.Engine, error) {
	if d.engine != nil {
		return d.engine, nil
	}
	cfg, err := d.Config()
	if err != nil {
		return nil, err
	}
	if d.Store == nil {
		store, err := config.OpenStore(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		d.Store = store
	}
	opts := []content.EngineOption{content.WithLogger(d.ResolveLogger())}
	if d.Clock != nil {
		opts = append(opts, content.WithClock(d.Clock))
	}
	d.engine = content.NewEngine(d.Store, opts...)
	return d.engine, nil
}
