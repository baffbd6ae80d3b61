// Package logging centralizes slog construction for the CLI and pipeline.
//
// It provides console and JSON handlers, multi-destination writers
// (stdout plus a per-run log file), typed Attr helpers, and context-derived
// fields so every record carries the run ID, phase, and asset being
// processed. Components obtain loggers through NewComponentLogger and
// WithContext rather than touching slog handlers directly.
package logging
