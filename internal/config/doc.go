// Package config loads, normalizes, and validates dailies configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and pipeline need: project/pool directories, transcode targets,
// transcription model selection, marker vocabulary, rough-cut policy, editor
// bridge credentials, and camera profiles.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
