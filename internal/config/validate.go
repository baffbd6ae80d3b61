package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateMarkers(); err != nil {
		return err
	}
	if err := c.validateRoughCut(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validateCameras(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProjectsRoot) == "" {
		return errors.New("paths.projects_root must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.CUDA {
	case "auto", "on", "off":
		return nil
	default:
		return fmt.Errorf("transcription.cuda must be auto, on, or off (got %q)", c.Transcription.CUDA)
	}
}

func (c *Config) validateMarkers() error {
	if _, err := regexp.Compile(c.Markers.TakePattern); err != nil {
		return fmt.Errorf("markers.take_pattern: %w", err)
	}
	return nil
}

func (c *Config) validateRoughCut() error {
	switch c.RoughCut.Style {
	case "episode", "sequential":
		return nil
	default:
		return fmt.Errorf("roughcut.style must be episode or sequential (got %q)", c.RoughCut.Style)
	}
}

func (c *Config) validateEditor() error {
	if !c.Editor.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Editor.URL) == "" {
		return errors.New("editor.url must be set when editor.enabled is true")
	}
	return nil
}

func (c *Config) validateCameras() error {
	seen := map[string]struct{}{}
	for i, cam := range c.Cameras {
		id := strings.TrimSpace(cam.ID)
		if id == "" {
			return fmt.Errorf("cameras[%d].id must be set", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("cameras[%d].id %q duplicates an earlier profile", i, id)
		}
		seen[id] = struct{}{}
		if len(cam.SignatureDirs) == 0 {
			return fmt.Errorf("cameras[%d] (%s): signature_dirs must not be empty", i, id)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
