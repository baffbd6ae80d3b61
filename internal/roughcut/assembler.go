package roughcut

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"dailies/internal/config"
	"dailies/internal/fileutil"
	"dailies/internal/logging"
	"dailies/internal/markers"
	"dailies/internal/media"
	"dailies/internal/projects"
	"dailies/internal/segmenting"
	"dailies/internal/services/ffmpeg"
	"dailies/internal/transcript"
)

// Assembler builds the first-pass cut plan for a whole project and exports
// it as an EDL. Unlike the per-clip segmenter, it re-detects markers across
// every clip that has a transcript, so late-transcribed footage still lands
// in the timeline.
type Assembler struct {
	cfg      config.RoughCut
	logger   *slog.Logger
	detector markers.Detector
	prober   ffmpeg.Prober
}

// New constructs an Assembler.
func New(cfg config.RoughCut, logger *slog.Logger, detector markers.Detector, prober ffmpeg.Prober) *Assembler {
	return &Assembler{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "roughcut"),
		detector: detector,
		prober:   prober,
	}
}

// Assemble writes Timelines/rough_cut.edl for the project and reports
// whether the timeline exists afterwards. An existing EDL is kept untouched.
// Clips without transcripts are skipped silently; a project with no markers
// anywhere produces no timeline and no error.
func (a *Assembler) Assemble(ctx context.Context, project *projects.Project) (bool, error) {
	outPath := project.RoughCutPath()
	if fileutil.Exists(outPath) {
		a.logger.Debug("rough cut already exists", logging.String("path", outPath))
		return true, nil
	}

	events, err := a.collect(ctx, project)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		a.logger.Info("no markers found, skipping rough cut",
			logging.String(logging.FieldProject, project.Name))
		return false, nil
	}

	events = a.order(events)

	if err := fileutil.EnsureDir(project.TimelinesDir()); err != nil {
		return false, fmt.Errorf("timelines dir: %w", err)
	}
	file, err := os.Create(outPath)
	if err != nil {
		return false, fmt.Errorf("create edl: %w", err)
	}
	defer file.Close()
	if err := WriteEDL(file, project.Name, a.cfg.FrameRate, events); err != nil {
		return false, fmt.Errorf("write edl: %w", err)
	}
	a.logger.Info("rough cut assembled",
		logging.String(logging.FieldProject, project.Name),
		logging.Int("events", len(events)))
	return true, nil
}

// collect walks the project's original media, re-runs marker detection on
// every transcribed clip, and plans segment bounds with handles applied.
func (a *Assembler) collect(ctx context.Context, project *projects.Project) ([]Event, error) {
	root := filepath.Join(project.Root, "Media", "Original")
	assets, err := media.Discover(root, config.Camera{})
	if err != nil {
		return nil, fmt.Errorf("discover project media: %w", err)
	}

	handle := 0.0
	if a.cfg.FrameRate > 0 && a.cfg.HandleFrames > 0 {
		handle = float64(a.cfg.HandleFrames) / a.cfg.FrameRate
	}

	var events []Event
	for _, asset := range assets {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		stem := asset.Stem()
		tPath := project.TranscriptPath(stem)
		if !fileutil.Exists(tPath) {
			continue
		}
		tr, err := transcript.Load(tPath)
		if err != nil {
			a.logger.Warn("unreadable transcript skipped",
				logging.String(logging.FieldAsset, asset.Base()),
				logging.Error(err))
			continue
		}
		marks, err := a.detector.Detect(tr)
		if err != nil || len(marks) == 0 {
			continue
		}
		duration, err := a.prober.Duration(ctx, asset.Path)
		if err != nil {
			a.logger.Warn("unprobeable clip skipped",
				logging.String(logging.FieldAsset, asset.Base()),
				logging.Error(err))
			continue
		}
		for _, seg := range segmenting.Plan(project, stem, marks, duration) {
			start := seg.Start - handle
			if start < 0 {
				start = 0
			}
			end := seg.End + handle
			if end > duration {
				end = duration
			}
			events = append(events, Event{
				SourcePath: asset.Path,
				Start:      start,
				End:        end,
				Take:       seg.Take,
			})
		}
	}
	return events, nil
}

// order arranges events per the configured style. "episode" sorts taken
// events by take number, keeping only the last occurrence of each take, and
// appends untaken events afterwards in discovery order. Any other style is
// sequential: discovery order untouched.
func (a *Assembler) order(events []Event) []Event {
	if a.cfg.Style != "episode" {
		return events
	}
	lastByTake := map[int]int{}
	var untaken []Event
	for i, ev := range events {
		if ev.Take > 0 {
			lastByTake[ev.Take] = i
		} else {
			untaken = append(untaken, ev)
		}
	}
	takes := make([]int, 0, len(lastByTake))
	for take := range lastByTake {
		takes = append(takes, take)
	}
	sort.Ints(takes)

	ordered := make([]Event, 0, len(takes)+len(untaken))
	for _, take := range takes {
		ordered = append(ordered, events[lastByTake[take]])
	}
	return append(ordered, untaken...)
}
