package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Transcode.Workers != 4 {
		t.Fatalf("expected default worker cap 4, got %d", cfg.Transcode.Workers)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
projects_root = "` + filepath.Join(dir, "projects") + `"

[transcode]
workers = 2

[transcription]
cuda = "off"

[markers]
keywords = ["Schnitt", ""]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transcode.Workers != 2 {
		t.Fatalf("expected workers override 2, got %d", cfg.Transcode.Workers)
	}
	if cfg.Transcription.CUDA != "off" {
		t.Fatalf("expected cuda off, got %q", cfg.Transcription.CUDA)
	}
	if len(cfg.Markers.Keywords) != 1 || cfg.Markers.Keywords[0] != "schnitt" {
		t.Fatalf("expected lowered keyword list, got %v", cfg.Markers.Keywords)
	}
	// Untouched sections keep defaults.
	if cfg.Transcode.FFmpegBinary != "ffmpeg" {
		t.Fatalf("expected default ffmpeg binary, got %q", cfg.Transcode.FFmpegBinary)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad cuda":    "[transcription]\ncuda = \"maybe\"\n",
		"bad style":   "[roughcut]\nstyle = \"documentary\"\n",
		"bad pattern": "[markers]\ntake_pattern = '['\n",
		"dup camera":  "[[cameras]]\nid = \"x\"\nsignature_dirs = [\"DCIM\"]\n[[cameras]]\nid = \"x\"\nsignature_dirs = [\"DCIM\"]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[transcode]") {
		t.Fatal("sample config missing transcode section")
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/footage")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "footage") {
		t.Fatalf("expandPath = %q", got)
	}
}
