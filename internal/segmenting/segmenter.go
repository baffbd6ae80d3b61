package segmenting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dailies/internal/fileutil"
	"dailies/internal/logging"
	"dailies/internal/markers"
	"dailies/internal/projects"
	"dailies/internal/services"
	"dailies/internal/services/ffmpeg"
)

// Segment is one planned cut of a source clip.
type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	// Take is the spoken take number carried over from the marker, 0 when
	// the marker had none.
	Take int    `json:"take,omitempty"`
	Text string `json:"text,omitempty"`
	// ClipPath is where the cut file lands, relative naming handled by the
	// project layout.
	ClipPath string `json:"clip_path"`
}

// Manifest records the segment plan for one source clip. It is written
// before cutting so a failed run leaves an inspectable plan behind.
type Manifest struct {
	Source   string    `json:"source"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Summary reports one segmenting pass over a single clip.
type Summary struct {
	Cut      int
	Skipped  int
	Warnings []string
}

// Segmenter turns detected markers into physical segment files.
type Segmenter struct {
	logger     *slog.Logger
	transcoder ffmpeg.Transcoder
	prober     ffmpeg.Prober
}

// New constructs a Segmenter.
func New(logger *slog.Logger, transcoder ffmpeg.Transcoder, prober ffmpeg.Prober) *Segmenter {
	return &Segmenter{
		logger:     logging.NewComponentLogger(logger, "segmenting"),
		transcoder: transcoder,
		prober:     prober,
	}
}

// Plan pairs markers into segment bounds: each marker opens a segment that
// closes at the next marker's time, the last one at clip end. Markers at or
// past the clip end and zero-length spans are dropped.
func Plan(project *projects.Project, stem string, marks []markers.Marker, duration float64) []Segment {
	var planned []Segment
	for i, m := range marks {
		start := m.Time
		end := duration
		if i+1 < len(marks) {
			end = marks[i+1].Time
		}
		if start < 0 {
			start = 0
		}
		if end > duration {
			end = duration
		}
		if end <= start {
			continue
		}
		index := len(planned) + 1
		planned = append(planned, Segment{
			Index:    index,
			Start:    start,
			End:      end,
			Take:     m.Take,
			Text:     m.Text,
			ClipPath: project.SegmentClipPath(stem, index, m.Take),
		})
	}
	return planned
}

// Process plans segments for one clip, persists the manifest, and cuts each
// segment that does not already exist. Individual cut failures degrade to
// warnings; only an unwritable manifest fails the whole clip.
func (s *Segmenter) Process(ctx context.Context, project *projects.Project, sourcePath string, marks []markers.Marker) (Summary, error) {
	var summary Summary
	stem := fileutil.Stem(sourcePath)

	duration, err := s.prober.Duration(ctx, sourcePath)
	if err != nil {
		return summary, err
	}

	planned := Plan(project, stem, marks, duration)
	manifest := Manifest{Source: sourcePath, Duration: duration, Segments: planned}
	if err := writeManifest(project.SegmentManifestPath(stem), manifest); err != nil {
		return summary, services.Wrap(services.ErrValidation, "segmenting", "write manifest", stem, err)
	}
	if len(planned) == 0 {
		s.logger.Info("no markers, clip left whole",
			logging.String(logging.FieldAsset, filepath.Base(sourcePath)))
		return summary, nil
	}

	for _, seg := range planned {
		if ctx.Err() != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("segmenting interrupted: %v", ctx.Err()))
			return summary, nil
		}
		if fileutil.Exists(seg.ClipPath) {
			summary.Skipped++
			continue
		}
		if err := s.transcoder.Cut(ctx, sourcePath, seg.ClipPath, seg.Start, seg.End); err != nil {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("segment %d of %s: %v", seg.Index, filepath.Base(sourcePath), err))
			s.logger.Warn("segment cut failed",
				logging.String(logging.FieldAsset, filepath.Base(sourcePath)),
				logging.Int("segment", seg.Index),
				logging.Error(err))
			continue
		}
		summary.Cut++
		s.logger.Info("segment cut",
			logging.String(logging.FieldAsset, filepath.Base(sourcePath)),
			logging.Int("segment", seg.Index),
			logging.Float64("start", seg.Start),
			logging.Float64("end", seg.End))
	}
	return summary, nil
}

// LoadManifest reads a previously written segment manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segment manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse segment manifest %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
