// Package pipeline sequences the import phases for one source: project
// resolution, ingest, normalization and proxy generation, transcription,
// marker segmenting, and the on-demand rough-cut and editor-binding phases.
// It is the only place failures are classified as fatal or recoverable.
package pipeline
