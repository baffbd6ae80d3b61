package projects

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dailies/internal/fileutil"
)

// Project owns one filesystem subtree with a fixed layout:
//
//	Media/Original/<camera>/...
//	Media/Normalized/<stem>_normalized.<ext>
//	Media/Proxy/<stem>_proxy.mov
//	Transcription/<stem>_transcript.json
//	Transcription/<stem>.srt
//	Segments/<stem>_segments.json
//	Segments/<stem>_seg###[_stepN].mov
//	Timelines/rough_cut.edl
//
// The core creates and reuses projects; it never deletes them.
type Project struct {
	Name string
	Root string
}

var titleCaser = cases.Title(language.English)

// Codeword returns the text before the first dash of the project name.
func (p Project) Codeword() string {
	name := p.Name
	if idx := strings.Index(name, "-"); idx > 0 {
		return name[:idx]
	}
	return name
}

// DisplayName is the title-cased codeword used for editor project and bin
// labels.
func (p Project) DisplayName() string {
	return titleCaser.String(p.Codeword())
}

func (p Project) OriginalDir(cameraID string) string {
	return filepath.Join(p.Root, "Media", "Original", cameraID)
}

func (p Project) NormalizedDir() string {
	return filepath.Join(p.Root, "Media", "Normalized")
}

func (p Project) ProxyDir() string {
	return filepath.Join(p.Root, "Media", "Proxy")
}

func (p Project) TranscriptionDir() string {
	return filepath.Join(p.Root, "Transcription")
}

func (p Project) SegmentsDir() string {
	return filepath.Join(p.Root, "Segments")
}

func (p Project) TimelinesDir() string {
	return filepath.Join(p.Root, "Timelines")
}

func (p Project) NormalizedPath(stem, ext string) string {
	return filepath.Join(p.NormalizedDir(), stem+"_normalized"+ext)
}

func (p Project) ProxyPath(stem string) string {
	return filepath.Join(p.ProxyDir(), stem+"_proxy.mov")
}

func (p Project) TranscriptPath(stem string) string {
	return filepath.Join(p.TranscriptionDir(), stem+"_transcript.json")
}

func (p Project) SubtitlePath(stem string) string {
	return filepath.Join(p.TranscriptionDir(), stem+".srt")
}

func (p Project) SegmentManifestPath(stem string) string {
	return filepath.Join(p.SegmentsDir(), stem+"_segments.json")
}

// SegmentClipPath names a cut segment file deterministically from the
// source stem, a zero-padded index, and the marker's take number when
// present. Deterministic names give re-runs their idempotency.
func (p Project) SegmentClipPath(stem string, index, take int) string {
	name := fmt.Sprintf("%s_seg%03d", stem, index)
	if take > 0 {
		name += fmt.Sprintf("_step%d", take)
	}
	return filepath.Join(p.SegmentsDir(), name+".mov")
}

func (p Project) RoughCutPath() string {
	return filepath.Join(p.TimelinesDir(), "rough_cut.edl")
}

// EnsureLayout creates the fixed directory skeleton.
func (p Project) EnsureLayout() error {
	dirs := []string{
		filepath.Join(p.Root, "Media", "Original"),
		p.NormalizedDir(),
		p.ProxyDir(),
		p.TranscriptionDir(),
		p.SegmentsDir(),
		p.TimelinesDir(),
	}
	for _, dir := range dirs {
		if err := fileutil.EnsureDir(dir); err != nil {
			return fmt.Errorf("project layout: %w", err)
		}
	}
	return nil
}
