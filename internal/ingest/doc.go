// Package ingest copies camera-card and pool footage into a project's
// original-media area, deduplicating by destination path.
package ingest
