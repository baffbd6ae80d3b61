package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sample() *Transcript {
	return &Transcript{
		Language: "en",
		Segments: []Segment{
			{Start: 0.5, End: 2.0, Text: "take one"},
			{Start: 2.4, End: 4.1, Text: "hello and welcome"},
			{Start: 4.5, End: 6.0, Text: "  "},
			{Start: 6.2, End: 8.9, Text: "cut here"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Transcription", "C0001_transcript.json")
	if err := Save(sample(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(loaded.Segments))
	}
	if loaded.Duration() != 8.9 {
		t.Fatalf("expected duration 8.9, got %v", loaded.Duration())
	}
	if loaded.Text() != "take one hello and welcome cut here" {
		t.Fatalf("unexpected joined text %q", loaded.Text())
	}
}

func TestLoadSortsOutOfOrderSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	raw := `{"segments":[{"start":5,"end":6,"text":"b"},{"start":1,"end":2,"text":"a"}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Segments[0].Text != "a" {
		t.Fatalf("expected segments sorted by start, got %v", loaded.Segments)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRenderSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "C0001.srt")
	if err := RenderSRT(sample(), path); err != nil {
		t.Fatalf("RenderSRT: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "1\n00:00:00,500 --> 00:00:02,000\ntake one") {
		t.Fatalf("missing first cue in %q", out)
	}
	// Blank segment is dropped and numbering stays contiguous.
	if !strings.Contains(out, "3\n00:00:06,200 --> 00:00:08,900\ncut here") {
		t.Fatalf("expected contiguous cue numbering in %q", out)
	}
}

func TestSRTTimestampClampsNegative(t *testing.T) {
	if got := srtTimestamp(-1.5); got != "00:00:00,000" {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
	if got := srtTimestamp(3661.25); got != "01:01:01,250" {
		t.Fatalf("unexpected timestamp %s", got)
	}
}
