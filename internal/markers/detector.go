package markers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dailies/internal/config"
	"dailies/internal/transcript"
)

// Marker is a timestamped semantic event extracted from a transcript.
type Marker struct {
	// Time is the cut point in seconds from clip start.
	Time float64 `json:"time"`
	// Text is the spoken cue that produced the marker.
	Text string `json:"text"`
	// Take is the spoken take number, or 0 when the cue carried none.
	Take int `json:"take,omitempty"`
}

// Detector turns a transcript into an ordered list of markers.
type Detector interface {
	Detect(t *transcript.Transcript) ([]Marker, error)
}

// KeywordDetector matches configured spoken cues and take numbers against
// transcript segments.
type KeywordDetector struct {
	keywords []string
	takeRe   *regexp.Regexp
}

// NewKeywordDetector builds a detector from marker configuration.
func NewKeywordDetector(cfg config.Markers) (*KeywordDetector, error) {
	takeRe, err := regexp.Compile(cfg.TakePattern)
	if err != nil {
		return nil, fmt.Errorf("compile take pattern: %w", err)
	}
	return &KeywordDetector{keywords: cfg.Keywords, takeRe: takeRe}, nil
}

// Detect scans segments in order. A segment yields at most one marker: a
// take cue wins over plain keywords so "take three, cut here" does not
// produce two cut points at the same timestamp.
func (d *KeywordDetector) Detect(t *transcript.Transcript) ([]Marker, error) {
	if t == nil {
		return nil, nil
	}
	var found []Marker
	for _, seg := range t.Segments {
		text := strings.ToLower(strings.TrimSpace(seg.Text))
		if text == "" {
			continue
		}
		if m := d.takeRe.FindStringSubmatch(text); len(m) > 1 {
			take, err := strconv.Atoi(m[1])
			if err == nil && take > 0 {
				found = append(found, Marker{Time: seg.Start, Text: strings.TrimSpace(seg.Text), Take: take})
				continue
			}
		}
		for _, kw := range d.keywords {
			if strings.Contains(text, kw) {
				found = append(found, Marker{Time: seg.Start, Text: strings.TrimSpace(seg.Text)})
				break
			}
		}
	}
	return found, nil
}
