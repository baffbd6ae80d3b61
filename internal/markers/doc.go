// Package markers extracts spoken edit cues (take numbers, cut keywords)
// from clip transcripts. The Detector interface keeps the pipeline testable
// with canned marker lists.
package markers
