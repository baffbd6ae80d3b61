package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"dailies/internal/config"
	"dailies/internal/fileutil"
	"dailies/internal/logging"
	"dailies/internal/media"
	"dailies/internal/projects"
	"dailies/internal/services"
)

// Summary reports one ingest pass.
type Summary struct {
	Imported int
	Skipped  int
	Warnings []string
}

// Ingestor copies source clips into a project's original-media area.
// Dedup is by destination existence, not content hash: a clip already at
// its destination path is skipped untouched.
type Ingestor struct {
	logger *slog.Logger
}

// New constructs an Ingestor.
func New(logger *slog.Logger) *Ingestor {
	return &Ingestor{logger: logging.NewComponentLogger(logger, "ingest")}
}

// FromPool copies already-offloaded clips from a pool directory. Plain
// copies, no verification pass: the pool is trusted local storage.
func (i *Ingestor) FromPool(ctx context.Context, sourceDir string, project *projects.Project, camera config.Camera) (Summary, error) {
	assets, err := media.Discover(sourceDir, camera)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrNotFound, "ingest", "discover pool", sourceDir, err)
	}
	return i.copyAll(ctx, assets, project, fileutil.CopyFile), nil
}

// FromDevice discovers clips through the camera profile's clip directories
// and copies them with integrity verification, the destination redirected
// into the resolved project rather than a generic daily bucket.
func (i *Ingestor) FromDevice(ctx context.Context, cardRoot string, project *projects.Project, camera config.Camera) (Summary, error) {
	assets, err := media.DiscoverClipDirs(cardRoot, camera)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrNotFound, "ingest", "discover card", cardRoot, err)
	}
	return i.copyAll(ctx, assets, project, fileutil.CopyFileVerified), nil
}

func (i *Ingestor) copyAll(ctx context.Context, assets []media.Asset, project *projects.Project, copyFn func(src, dst string) error) Summary {
	var summary Summary
	for _, asset := range assets {
		if ctx.Err() != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("ingest interrupted: %v", ctx.Err()))
			return summary
		}
		destDir := project.OriginalDir(asset.Camera.ID)
		if err := fileutil.EnsureDir(destDir); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("ingest: %s: %v", asset.Base(), err))
			continue
		}
		dest := filepath.Join(destDir, asset.Base())
		if fileutil.Exists(dest) {
			summary.Skipped++
			i.logger.Debug("already imported",
				logging.String(logging.FieldAsset, asset.Base()))
			continue
		}
		if err := copyFn(asset.Path, dest); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("ingest: %s: %v", asset.Base(), err))
			i.logger.Warn("clip import failed",
				logging.String(logging.FieldAsset, asset.Base()),
				logging.Error(err))
			continue
		}
		summary.Imported++
		i.logger.Info("clip imported",
			logging.String(logging.FieldAsset, asset.Base()),
			logging.String("destination", dest))
	}
	return summary
}
