package pipeline

import (
	"fmt"
	"time"

	"dailies/internal/session"
)

// Result is the terminal aggregate of one import run. The orchestrator owns
// it exclusively for the run's duration; phase components only report into
// it through the orchestrator.
type Result struct {
	RunID       string
	ProjectName string
	ProjectPath string

	Imported    int
	Skipped     int
	Normalized  int
	Proxied     int
	Transcribed int
	Markers     int
	Segments    int

	RoughCutCreated bool
	EditorBound     bool

	// Errors are pipeline-fatal. Warnings are phase-local and never flip
	// the run to failed.
	Errors   []string
	Warnings []string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Success reports whether the run completed without a fatal error. The
// invariant holds by construction: success implies an empty error list.
func (r *Result) Success() bool { return len(r.Errors) == 0 }

func (r *Result) failf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) warnAll(warnings []string) {
	r.Warnings = append(r.Warnings, warnings...)
}

// record converts the result to its session history row.
func (r *Result) record(sourcePath string) session.RunRecord {
	return session.RunRecord{
		ID:          r.RunID,
		ProjectName: r.ProjectName,
		SourcePath:  sourcePath,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Success:     r.Success(),
		Imported:    r.Imported,
		Normalized:  r.Normalized,
		Proxied:     r.Proxied,
		Transcribed: r.Transcribed,
		Markers:     r.Markers,
		Segments:    r.Segments,
		Warnings:    len(r.Warnings),
		Errors:      len(r.Errors),
	}
}
