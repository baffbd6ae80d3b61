// Package services defines shared utilities consumed by the pipeline phases
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, phase names, project names, and the
//     asset being processed for logging and tracing.
//   - Structured error markers plus the Wrap helper so the orchestrator's
//     critical/non-critical split is a pure function of the error kind.
//
// Use these helpers when wiring new phase logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
