package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscode()
	c.normalizeTranscription()
	c.normalizeMarkers()
	c.normalizeRoughCut()
	c.normalizeEditor()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ProjectsRoot, err = expandPath(c.Paths.ProjectsRoot); err != nil {
		return fmt.Errorf("paths.projects_root: %w", err)
	}
	if c.Paths.IngestPool, err = expandPath(c.Paths.IngestPool); err != nil {
		return fmt.Errorf("paths.ingest_pool: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SessionDB) == "" {
		c.Paths.SessionDB = defaultSessionDB
	}
	if c.Paths.SessionDB, err = expandPath(c.Paths.SessionDB); err != nil {
		return fmt.Errorf("paths.session_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscode() {
	if strings.TrimSpace(c.Transcode.FFmpegBinary) == "" {
		c.Transcode.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Transcode.FFprobeBinary) == "" {
		c.Transcode.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Transcode.LoudnessTarget == 0 {
		c.Transcode.LoudnessTarget = defaultLoudnessTarget
	}
	if c.Transcode.LoudnessTruePeak == 0 {
		c.Transcode.LoudnessTruePeak = defaultLoudnessTruePeak
	}
	if c.Transcode.LoudnessRange == 0 {
		c.Transcode.LoudnessRange = defaultLoudnessRange
	}
	if c.Transcode.Workers <= 0 {
		c.Transcode.Workers = defaultTranscodeWorkers
	}
}

func (c *Config) normalizeTranscription() {
	if strings.TrimSpace(c.Transcription.Model) == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	if strings.TrimSpace(c.Transcription.UVXBinary) == "" {
		c.Transcription.UVXBinary = defaultUVXBinary
	}
	c.Transcription.CUDA = strings.ToLower(strings.TrimSpace(c.Transcription.CUDA))
	if c.Transcription.CUDA == "" {
		c.Transcription.CUDA = defaultCUDAMode
	}
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
}

func (c *Config) normalizeMarkers() {
	keywords := make([]string, 0, len(c.Markers.Keywords))
	for _, kw := range c.Markers.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		keywords = []string{"marker", "cut here"}
	}
	c.Markers.Keywords = keywords
	if strings.TrimSpace(c.Markers.TakePattern) == "" {
		c.Markers.TakePattern = defaultTakePattern
	}
}

func (c *Config) normalizeRoughCut() {
	c.RoughCut.Style = strings.ToLower(strings.TrimSpace(c.RoughCut.Style))
	if c.RoughCut.Style == "" {
		c.RoughCut.Style = defaultRoughCutStyle
	}
	if c.RoughCut.FrameRate <= 0 {
		c.RoughCut.FrameRate = defaultFrameRate
	}
	if c.RoughCut.HandleFrames < 0 {
		c.RoughCut.HandleFrames = 0
	}
}

func (c *Config) normalizeEditor() {
	c.Editor.URL = strings.TrimRight(strings.TrimSpace(c.Editor.URL), "/")
	if c.Editor.URL == "" {
		c.Editor.URL = defaultEditorURL
	}
	c.Editor.APIKey = strings.TrimSpace(c.Editor.APIKey)
	if c.Editor.ImportLimit <= 0 {
		c.Editor.ImportLimit = defaultImportLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
