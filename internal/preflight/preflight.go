package preflight

import (
	"context"

	"dailies/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Projects root (always checked)
	results = append(results, CheckDirectoryAccess("Projects root", cfg.Paths.ProjectsRoot))
	results = append(results, CheckFreeSpace("Projects root free space", cfg.Paths.ProjectsRoot, MinFreeBytes))

	// Ingest pool (when configured)
	if cfg.Paths.IngestPool != "" {
		results = append(results, CheckDirectoryAccess("Ingest pool", cfg.Paths.IngestPool))
	}

	// Editor bridge
	if cfg.Editor.Enabled {
		results = append(results, CheckEditor(ctx, cfg.Editor))
	}

	return results
}
