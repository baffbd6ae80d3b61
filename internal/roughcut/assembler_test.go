package roughcut

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/markers"
	"dailies/internal/projects"
	"dailies/internal/transcript"
)

type fixedProber struct{ duration float64 }

func (f fixedProber) Duration(ctx context.Context, path string) (float64, error) {
	return f.duration, nil
}

func newDetector(t *testing.T) markers.Detector {
	t.Helper()
	cfg := config.Default().Markers
	d, err := markers.NewKeywordDetector(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func seedClip(t *testing.T, p *projects.Project, stem string, tr *transcript.Transcript) {
	t.Helper()
	clip := filepath.Join(p.OriginalDir("sony-fx"), stem+".mp4")
	if err := os.MkdirAll(filepath.Dir(clip), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(clip, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if tr != nil {
		if err := transcript.Save(tr, p.TranscriptPath(stem)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAssembleWritesEDL(t *testing.T) {
	p := &projects.Project{Name: "alpha-20260104_Import", Root: t.TempDir()}
	if err := p.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	seedClip(t, p, "C0001", &transcript.Transcript{Segments: []transcript.Segment{
		{Start: 2, End: 4, Text: "take 1 rolling"},
		{Start: 30, End: 32, Text: "take 2 rolling"},
	}})

	cfg := config.RoughCut{Style: "sequential", FrameRate: 25}
	asm := New(cfg, logging.NewNop(), newDetector(t), fixedProber{duration: 60})

	created, err := asm.Assemble(context.Background(), p)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !created {
		t.Fatal("expected a rough cut")
	}

	data, err := os.ReadFile(p.RoughCutPath())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "TITLE: ALPHA-20260104_IMPORT\n") {
		t.Fatalf("missing title header:\n%s", text)
	}
	if !strings.Contains(text, "001  AX") || !strings.Contains(text, "002  AX") {
		t.Fatalf("expected two events:\n%s", text)
	}
	if !strings.Contains(text, "* FROM CLIP NAME: C0001.mp4") {
		t.Fatalf("missing clip name comment:\n%s", text)
	}
	// First event: seconds 2..30 at 25fps, record from one hour.
	if !strings.Contains(text, "00:00:02:00 00:00:30:00 01:00:00:00 01:00:28:00") {
		t.Fatalf("unexpected timecodes:\n%s", text)
	}
}

func TestAssembleEpisodeStyleLastTakeWins(t *testing.T) {
	p := &projects.Project{Name: "beta-20260104_Import", Root: t.TempDir()}
	if err := p.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	// Clip A carries take 2 then take 1; clip B re-records take 2.
	seedClip(t, p, "A0001", &transcript.Transcript{Segments: []transcript.Segment{
		{Start: 0, End: 2, Text: "take 2"},
		{Start: 20, End: 22, Text: "take 1"},
	}})
	seedClip(t, p, "B0001", &transcript.Transcript{Segments: []transcript.Segment{
		{Start: 5, End: 7, Text: "take 2"},
	}})

	cfg := config.RoughCut{Style: "episode", FrameRate: 25}
	asm := New(cfg, logging.NewNop(), newDetector(t), fixedProber{duration: 40})
	created, err := asm.Assemble(context.Background(), p)
	if err != nil || !created {
		t.Fatalf("Assemble: created=%v err=%v", created, err)
	}

	data, _ := os.ReadFile(p.RoughCutPath())
	text := string(data)
	firstClip := strings.Index(text, "FROM CLIP NAME: A0001.mp4")
	secondClip := strings.Index(text, "FROM CLIP NAME: B0001.mp4")
	if firstClip < 0 || secondClip < 0 {
		t.Fatalf("expected both clips in plan:\n%s", text)
	}
	// Take 1 (clip A) must come before take 2 (clip B, the later recording).
	if firstClip > secondClip {
		t.Fatalf("episode ordering wrong:\n%s", text)
	}
	if strings.Count(text, "FROM CLIP NAME: A0001.mp4") != 1 {
		t.Fatalf("superseded take 2 from clip A must be dropped:\n%s", text)
	}
}

func TestAssembleNoMarkersNoTimeline(t *testing.T) {
	p := &projects.Project{Name: "gamma-20260104_Import", Root: t.TempDir()}
	if err := p.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	seedClip(t, p, "C0001", &transcript.Transcript{Segments: []transcript.Segment{
		{Start: 1, End: 2, Text: "just talking"},
	}})
	seedClip(t, p, "C0002", nil) // never transcribed

	asm := New(config.RoughCut{FrameRate: 25}, logging.NewNop(), newDetector(t), fixedProber{duration: 10})
	created, err := asm.Assemble(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("expected no rough cut without markers")
	}
	if _, err := os.Stat(p.RoughCutPath()); !os.IsNotExist(err) {
		t.Fatal("no EDL file should be written")
	}
}

func TestAssembleKeepsExistingEDL(t *testing.T) {
	p := &projects.Project{Name: "delta-20260104_Import", Root: t.TempDir()}
	if err := p.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.RoughCutPath(), []byte("TITLE: HAND EDITED\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	asm := New(config.RoughCut{FrameRate: 25}, logging.NewNop(), newDetector(t), fixedProber{duration: 10})
	created, err := asm.Assemble(context.Background(), p)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	data, _ := os.ReadFile(p.RoughCutPath())
	if string(data) != "TITLE: HAND EDITED\n" {
		t.Fatal("existing EDL must not be overwritten")
	}
}

func TestTimecode(t *testing.T) {
	cases := []struct {
		seconds float64
		fps     float64
		want    string
	}{
		{0, 25, "00:00:00:00"},
		{1.5, 24, "00:00:01:12"},
		{3661.04, 25, "01:01:01:01"},
		{-3, 25, "00:00:00:00"},
	}
	for _, tc := range cases {
		if got := Timecode(tc.seconds, tc.fps); got != tc.want {
			t.Errorf("Timecode(%v, %v) = %q, want %q", tc.seconds, tc.fps, got, tc.want)
		}
	}
}
