package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/topograph/internal/compspec"
	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/resolver"
	"github.com/vk/topograph/internal/topology"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *compspec.Registry
	cache    *topology.Cache
	resolver *resolver.Resolver
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a frozen
// component registry loaded from the manifest path.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := compspec.New()
	if err := reg.LoadDir(ctx, cfg.ManifestPath); err != nil {
		// A failure to load the component manifests is a fatal startup error.
		panic(fmt.Errorf("failed to load component manifests: %w", err))
	}
	reg.Freeze()
	logger.Debug("Component registry loaded and frozen.", "components", reg.Len())

	cache := topology.NewCache()
	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		cache:    cache,
		resolver: resolver.New(reg, resolver.WithCache(cache)),
	}
}

// Registry returns the application's component registry. This is primarily
// for testing.
func (a *App) Registry() *compspec.Registry {
	return a.registry
}
