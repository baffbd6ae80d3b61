package main

import (
	"context"
	"fmt"

	"dailies/internal/config"
	"dailies/internal/pipeline"
	"dailies/internal/preflight"
)

// gatePhases checks external binaries before a run. A missing ffmpeg or
// ffprobe while a transcode phase is requested is fatal; a missing optional
// tool downgrades the dependent phases with a warning instead.
func gatePhases(ctx context.Context, cfg *config.Config, phases pipeline.Phases) (pipeline.Phases, []string, error) {
	available := make(map[string]bool)
	details := make(map[string]string)
	for _, status := range preflight.CheckSystemDeps(ctx, cfg) {
		available[status.Name] = status.Available
		details[status.Name] = status.Detail
	}

	if ok, seen := available["FFmpeg"]; seen && !ok {
		if phases.Normalize || phases.Proxy || phases.CutSegments {
			return phases, nil, fmt.Errorf("ffmpeg unavailable: %s", details["FFmpeg"])
		}
	}
	if ok, seen := available["FFprobe"]; seen && !ok {
		if phases.CutSegments || phases.RoughCut {
			return phases, nil, fmt.Errorf("ffprobe unavailable: %s", details["FFprobe"])
		}
	}

	var warnings []string
	if ok, seen := available["uvx"]; seen && !ok && phases.Transcribe {
		warnings = append(warnings,
			fmt.Sprintf("transcription disabled, uvx unavailable: %s", details["uvx"]))
		phases.Transcribe = false
		phases.Subtitles = false
		phases.DetectMarkers = false
		phases.CutSegments = false
	}
	return phases, warnings, nil
}
