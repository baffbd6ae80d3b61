package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"dailies/internal/config"
	"dailies/internal/services"
)

// Prober reports media durations.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// CLIProber wraps ffprobe.
type CLIProber struct {
	binary       string
	outputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewProber constructs a CLIProber from transcode configuration.
func NewProber(cfg config.Transcode) *CLIProber {
	return &CLIProber{binary: cfg.FFprobeBinary}
}

// WithOutputRunner sets a custom command runner (for testing).
func (p *CLIProber) WithOutputRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) *CLIProber {
	p.outputRunner = runner
	return p
}

// Duration returns the container duration of path in seconds.
func (p *CLIProber) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	out, err := p.output(ctx, p.binary, args...)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", path, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration",
			fmt.Sprintf("unparseable ffprobe output %q", strings.TrimSpace(string(out))), err)
	}
	return seconds, nil
}

func (p *CLIProber) output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if p.outputRunner != nil {
		return p.outputRunner(ctx, name, args...)
	}
	return exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
}
