package transcript

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// RenderSRT writes the transcript as a SubRip subtitle file. Empty segments
// are skipped; cue numbering stays contiguous.
func RenderSRT(t *Transcript, path string) error {
	var b strings.Builder
	cue := 0
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		cue++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			cue, srtTimestamp(seg.Start), srtTimestamp(seg.End), text)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// srtTimestamp renders seconds as HH:MM:SS,mmm. Negative inputs clamp to
// zero, matching how subtitle tooling treats pre-roll timestamps.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
