package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dailies/internal/services"
	"dailies/internal/transcript"
)

// Transcriber produces a timestamped transcript for one media file.
type Transcriber interface {
	Transcribe(ctx context.Context, source, workDir string) (*transcript.Transcript, error)
}

// Config captures the whisperx invocation settings.
type Config struct {
	Model     string
	UVXBinary string
	CUDA      bool
	Language  string
}

// Service drives whisperx through uvx.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.UVXBinary == "" {
		cfg.UVXBinary = "uvx"
	}
	if cfg.Model == "" {
		cfg.Model = "small"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) *Service {
	s.commandRunner = runner
	return s
}

// Model returns the configured model name for logging.
func (s *Service) Model() string { return s.cfg.Model }

// Transcribe runs whisperx over source, writing intermediate output into
// workDir, and returns the parsed transcript.
func (s *Service) Transcribe(ctx context.Context, source, workDir string) (*transcript.Transcript, error) {
	if strings.TrimSpace(source) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "", "source path required", nil)
	}
	if workDir == "" {
		workDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "ensure work dir", workDir, err)
	}

	if err := s.run(ctx, s.cfg.UVXBinary, s.buildArgs(source, workDir)...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "transcribe", "whisperx", "", err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "", err)
	}

	jsonPath := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))+".json")
	t, err := transcript.Load(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "load output", jsonPath, err)
	}
	return t, nil
}

func (s *Service) buildArgs(source, workDir string) []string {
	args := []string{
		"whisperx",
		source,
		"--model", s.cfg.Model,
		"--output_dir", workDir,
		"--output_format", "json",
	}
	if s.cfg.CUDA {
		args = append(args, "--device", "cuda")
	} else {
		args = append(args, "--device", "cpu", "--compute_type", "int8")
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
