package app

import (
	"context"
	"fmt"

	"github.com/vk/topograph/internal/ctxlog"
	"github.com/vk/topograph/internal/scene"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	docs, err := scene.LoadDir(ctx, cfg.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph documents: %w", err)
	}
	a.logger.Debug("Graph documents decoded.", "graphs", len(docs))

	if len(docs) == 0 {
		a.logger.Warn("No graphs found, nothing to resolve.")
		return nil
	}

	for _, doc := range docs {
		state, err := a.resolver.Resolve(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to resolve graph %q: %w", doc.Path(), err)
		}
		a.logger.Info("Graph resolved.",
			"graph", state.SourcePath,
			"nodes", state.Topology.NodeCount(),
			"slots", state.Topology.SlotCount(),
			"content_hash", fmt.Sprintf("%#016x", state.Topology.ContentHash))
	}

	a.logger.Info("All graphs resolved.", "graphs", len(docs), "distinct_topologies", a.cache.Len())
	a.logger.Debug("App.Run method finished.")
	return nil
}
