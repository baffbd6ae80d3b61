package roughcut

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
)

// Event is one edit in the assembled cut plan: a span of a source clip laid
// onto the record timeline.
type Event struct {
	SourcePath string
	Start      float64
	End        float64
	Take       int
}

func (e Event) duration() float64 { return e.End - e.Start }

// recordStart is the conventional one-hour timeline origin used by CMX 3600
// edit lists.
const recordStart = 3600.0

// WriteEDL renders events as a CMX 3600 edit decision list. Events are laid
// back to back on the record side starting at one hour.
func WriteEDL(w io.Writer, title string, fps float64, events []Event) error {
	if fps <= 0 {
		fps = 25
	}
	if _, err := fmt.Fprintf(w, "TITLE: %s\nFCM: NON-DROP FRAME\n\n", strings.ToUpper(title)); err != nil {
		return err
	}
	record := recordStart
	for i, ev := range events {
		recIn := record
		recOut := record + ev.duration()
		_, err := fmt.Fprintf(w, "%03d  AX       AA/V  C        %s %s %s %s\n",
			i+1,
			Timecode(ev.Start, fps),
			Timecode(ev.End, fps),
			Timecode(recIn, fps),
			Timecode(recOut, fps))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "* FROM CLIP NAME: %s\n\n", filepath.Base(ev.SourcePath)); err != nil {
			return err
		}
		record = recOut
	}
	return nil
}

// Timecode converts seconds to HH:MM:SS:FF at the given frame rate.
func Timecode(seconds, fps float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalFrames := int(math.Round(seconds * fps))
	framesPerSecond := int(math.Round(fps))
	if framesPerSecond <= 0 {
		framesPerSecond = 25
	}
	frames := totalFrames % framesPerSecond
	totalSeconds := totalFrames / framesPerSecond
	return fmt.Sprintf("%02d:%02d:%02d:%02d",
		totalSeconds/3600, totalSeconds/60%60, totalSeconds%60, frames)
}
