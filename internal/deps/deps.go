package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"dailies/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external binaries for the configured pipeline.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.Transcode.FFmpegBinary, Description: "normalization, proxies, segment cuts"},
		{Name: "FFprobe", Command: cfg.Transcode.FFprobeBinary, Description: "media duration probing"},
		{Name: "uvx", Command: cfg.Transcription.UVXBinary, Description: "whisperx transcription runner", Optional: true},
	}
	if cfg.Transcription.CUDA != "off" {
		reqs = append(reqs, Requirement{
			Name: "nvidia-smi", Command: "nvidia-smi",
			Description: "accelerator detection (cuda = auto)", Optional: true,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
