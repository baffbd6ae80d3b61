package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"dailies/internal/config"
	"dailies/internal/services"
)

// Transcoder defines the media conversions the pipeline needs: audio
// loudness normalization, proxy renditions, and frame-accurate segment cuts.
type Transcoder interface {
	Normalize(ctx context.Context, input, output string) error
	Proxy(ctx context.Context, input, output string, camera config.Camera) error
	Cut(ctx context.Context, input, output string, startSec, endSec float64) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) Option {
	return func(c *CLI) {
		c.commandRunner = runner
	}
}

// CLI wraps the ffmpeg command-line tool.
type CLI struct {
	cfg           config.Transcode
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewCLI constructs a CLI transcoder from transcode configuration.
func NewCLI(cfg config.Transcode, opts ...Option) *CLI {
	cli := &CLI{cfg: cfg}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Normalize applies the configured EBU R128 loudness targets to the audio
// stream while copying video untouched.
func (c *CLI) Normalize(ctx context.Context, input, output string) error {
	filter := fmt.Sprintf("loudnorm=I=%g:TP=%g:LRA=%g",
		c.cfg.LoudnessTarget, c.cfg.LoudnessTruePeak, c.cfg.LoudnessRange)
	args := []string{
		"-y", "-i", input,
		"-af", filter,
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "256k",
		output,
	}
	return c.run(ctx, "normalize", args)
}

// Proxy renders a down-scaled editing proxy using the camera profile's
// target resolution and codec.
func (c *CLI) Proxy(ctx context.Context, input, output string, camera config.Camera) error {
	width, height := camera.ProxyWidth, camera.ProxyHeight
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	args := []string{
		"-y", "-i", input,
		"-vf", fmt.Sprintf("scale=%d:%d", width, height),
	}
	args = append(args, codecArgs(camera.ProxyCodec)...)
	args = append(args, "-c:a", "aac", "-b:a", "128k", output)
	return c.run(ctx, "proxy", args)
}

// Cut extracts [startSec, endSec) into its own clip file, re-encoding for
// frame-accurate bounds.
func (c *CLI) Cut(ctx context.Context, input, output string, startSec, endSec float64) error {
	if endSec <= startSec {
		return services.Wrap(services.ErrValidation, "cut", "",
			fmt.Sprintf("segment end %.3f not after start %.3f", endSec, startSec), nil)
	}
	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-to", fmt.Sprintf("%.3f", endSec),
		"-i", input,
		"-c:v", "libx264", "-preset", "fast", "-crf", "18",
		"-c:a", "aac", "-b:a", "192k",
		output,
	}
	return c.run(ctx, "cut", args)
}

func codecArgs(codec string) []string {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "prores_proxy":
		return []string{"-c:v", "prores_ks", "-profile:v", "0"}
	case "dnxhr":
		return []string{"-c:v", "dnxhd", "-profile:v", "dnxhr_lb"}
	default:
		return []string{"-c:v", "libx264", "-preset", "fast", "-crf", "23"}
	}
}

func (c *CLI) run(ctx context.Context, operation string, args []string) error {
	err := c.exec(ctx, c.cfg.FFmpegBinary, args...)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "transcode", operation, "", err)
	}
	return services.Wrap(services.ErrExternalTool, "transcode", operation, "", err)
}

func (c *CLI) exec(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, lastLine(output))
	}
	return nil
}

// lastLine trims ffmpeg's banner noise down to the line that states the
// actual failure.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
