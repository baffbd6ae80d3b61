package media

import (
	"os"
	"path/filepath"

	"dailies/internal/config"
	"dailies/internal/services"
)

// ResolveCamera maps an SD-card directory tree to a camera profile by
// checking each profile's signature directories. The first profile whose
// signatures all exist wins; profiles are checked in configuration order so
// users can shadow the built-ins.
func ResolveCamera(cardRoot string, cameras []config.Camera) (config.Camera, error) {
	for _, cam := range cameras {
		if matchesSignature(cardRoot, cam) {
			return cam, nil
		}
	}
	return config.Camera{}, services.Wrap(
		services.ErrNotFound, "resolve-camera", "",
		"no camera profile matches card layout at "+cardRoot, nil)
}

func matchesSignature(cardRoot string, cam config.Camera) bool {
	if len(cam.SignatureDirs) == 0 {
		return false
	}
	for _, sig := range cam.SignatureDirs {
		info, err := os.Stat(filepath.Join(cardRoot, filepath.FromSlash(sig)))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}
