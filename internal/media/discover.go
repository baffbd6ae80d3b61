package media

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"dailies/internal/config"
)

var clipExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".mxf": {},
	".mts": {},
	".m4v": {},
	".avi": {},
	".mkv": {},
}

// IsClip reports whether path has a recognized video container extension.
func IsClip(path string) bool {
	_, ok := clipExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Discover walks root and returns every video clip beneath it, tagged with
// the given camera profile. Results are sorted by path so repeated runs see
// a stable order. Hidden files and directories are skipped.
func Discover(root string, camera config.Camera) ([]Asset, error) {
	var assets []Asset
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsClip(path) {
			assets = append(assets, Asset{Path: path, Camera: camera})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	return assets, nil
}

// DiscoverClipDirs walks only the camera's clip directories beneath the card
// root. When the profile names no clip directories the whole card is walked.
func DiscoverClipDirs(cardRoot string, camera config.Camera) ([]Asset, error) {
	if len(camera.ClipDirs) == 0 {
		return Discover(cardRoot, camera)
	}
	var assets []Asset
	for _, dir := range camera.ClipDirs {
		found, err := Discover(filepath.Join(cardRoot, filepath.FromSlash(dir)), camera)
		if err != nil {
			continue // clip dir absent on partially used cards
		}
		assets = append(assets, found...)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
	return assets, nil
}
