package media

import (
	"path/filepath"
	"strings"

	"dailies/internal/config"
)

// Asset is one discovered source clip plus the camera profile it came from.
// Read-only once discovered.
type Asset struct {
	Path   string
	Camera config.Camera
}

// Base returns the clip file name.
func (a Asset) Base() string {
	return filepath.Base(a.Path)
}

// Stem returns the clip file name without extension; all derived artifacts
// (normalized copies, proxies, transcripts, segments) are named from it.
func (a Asset) Stem() string {
	base := a.Base()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the clip extension including the leading dot.
func (a Asset) Ext() string {
	return filepath.Ext(a.Path)
}
