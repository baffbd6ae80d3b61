package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsRoot string `toml:"projects_root"`
	IngestPool   string `toml:"ingest_pool"`
	LogDir       string `toml:"log_dir"`
	SessionDB    string `toml:"session_db"`
}

// Transcode contains ffmpeg invocation settings shared by normalization,
// proxy generation, and segment cutting.
type Transcode struct {
	FFmpegBinary     string  `toml:"ffmpeg_binary"`
	FFprobeBinary    string  `toml:"ffprobe_binary"`
	LoudnessTarget   float64 `toml:"loudness_target"`
	LoudnessTruePeak float64 `toml:"loudness_true_peak"`
	LoudnessRange    float64 `toml:"loudness_range"`
	Workers          int     `toml:"workers"`
}

// Transcription contains speech-to-text settings.
type Transcription struct {
	Model     string `toml:"model"`
	UVXBinary string `toml:"uvx_binary"`
	// CUDA selects accelerator use: "auto" probes for an NVIDIA device,
	// "on" and "off" force the decision.
	CUDA     string `toml:"cuda"`
	Language string `toml:"language"`
}

// Markers contains spoken-cue detection settings.
type Markers struct {
	Keywords    []string `toml:"keywords"`
	TakePattern string   `toml:"take_pattern"`
}

// RoughCut contains first-pass timeline assembly settings.
type RoughCut struct {
	Style        string  `toml:"style"`
	HandleFrames int     `toml:"handle_frames"`
	FrameRate    float64 `toml:"frame_rate"`
}

// Editor contains configuration for the external NLE bridge.
type Editor struct {
	Enabled     bool   `toml:"enabled"`
	URL         string `toml:"url"`
	APIKey      string `toml:"api_key"`
	ImportLimit int    `toml:"import_limit"`
}

// Watch contains card-insertion monitoring settings.
type Watch struct {
	Enabled       bool     `toml:"enabled"`
	LabelPrefixes []string `toml:"label_prefixes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Camera describes one camera profile: how to recognize its card layout and
// what the proxy rendition should look like.
type Camera struct {
	ID            string   `toml:"id"`
	SignatureDirs []string `toml:"signature_dirs"`
	ClipDirs      []string `toml:"clip_dirs"`
	ProxyWidth    int      `toml:"proxy_width"`
	ProxyHeight   int      `toml:"proxy_height"`
	ProxyCodec    string   `toml:"proxy_codec"`
	FrameRate     float64  `toml:"frame_rate"`
}

// Config centralizes every knob the CLI and pipeline need.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcode     Transcode     `toml:"transcode"`
	Transcription Transcription `toml:"transcription"`
	Markers       Markers       `toml:"markers"`
	RoughCut      RoughCut      `toml:"roughcut"`
	Editor        Editor        `toml:"editor"`
	Watch         Watch         `toml:"watch"`
	Logging       Logging       `toml:"logging"`
	Cameras       []Camera      `toml:"cameras"`
}

// DefaultConfigPath returns the canonical config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "dailies", "config.toml"), nil
}

// Load reads configuration from path, falling back to the default location
// and then to repository defaults when no file exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		resolved = defaultPath
	} else {
		expanded, err := expandPath(resolved)
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		resolved = expanded
	}

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist) && strings.TrimSpace(path) == "":
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureDirectories creates the directories the pipeline writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ProjectsRoot, c.Paths.LogDir, filepath.Dir(c.Paths.SessionDB)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// clobber an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
