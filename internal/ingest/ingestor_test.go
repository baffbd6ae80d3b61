package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/projects"
	"dailies/internal/testsupport"
)

func newProject(t *testing.T) *projects.Project {
	t.Helper()
	p := &projects.Project{Name: "alpha-20260104_Import", Root: filepath.Join(t.TempDir(), "alpha-20260104_Import")}
	if err := p.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFromPoolCopiesAndDedups(t *testing.T) {
	pool := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(pool, "C0001.MP4"), 64)
	testsupport.WriteFile(t, filepath.Join(pool, "C0002.MP4"), 64)

	project := newProject(t)
	ing := New(logging.NewNop())
	cam := config.PoolCamera()

	summary, err := ing.FromPool(context.Background(), pool, project, cam)
	if err != nil {
		t.Fatalf("FromPool: %v", err)
	}
	if summary.Imported != 2 || summary.Skipped != 0 {
		t.Fatalf("expected 2 imports, got %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(project.OriginalDir("pool"), "C0001.MP4")); err != nil {
		t.Fatalf("expected clip in original area: %v", err)
	}

	// Second run finds every destination in place.
	summary, err = ing.FromPool(context.Background(), pool, project, cam)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Imported != 0 || summary.Skipped != 2 {
		t.Fatalf("expected full dedup on re-run, got %+v", summary)
	}
}

func TestFromPoolDedupIgnoresContent(t *testing.T) {
	pool := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(pool, "C0001.MP4"), 64)

	project := newProject(t)
	dest := filepath.Join(project.OriginalDir("pool"), "C0001.MP4")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatal(err)
	}
	// Same name, different bytes: destination existence still wins.
	if err := os.WriteFile(dest, []byte("different"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := New(logging.NewNop()).FromPool(context.Background(), pool, project, config.PoolCamera())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Imported != 0 || summary.Skipped != 1 {
		t.Fatalf("expected path-existence dedup, got %+v", summary)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "different" {
		t.Fatal("existing destination must not be overwritten")
	}
}

func TestFromDeviceUsesClipDirs(t *testing.T) {
	cam := config.Camera{
		ID:            "sony-fx",
		SignatureDirs: []string{"PRIVATE/M4ROOT"},
		ClipDirs:      []string{"PRIVATE/M4ROOT/CLIP"},
	}
	card := testsupport.SeedCard(t, "PRIVATE/M4ROOT/CLIP", "C0001.MP4")
	testsupport.WriteFile(t, filepath.Join(card, "DCIM", "stray.mp4"), 64)

	project := newProject(t)
	summary, err := New(logging.NewNop()).FromDevice(context.Background(), card, project, cam)
	if err != nil {
		t.Fatalf("FromDevice: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("expected 1 import from clip dirs, got %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(project.OriginalDir("sony-fx"), "C0001.MP4")); err != nil {
		t.Fatalf("expected clip under camera dir: %v", err)
	}
}

func TestFromPoolMissingSource(t *testing.T) {
	project := newProject(t)
	_, err := New(logging.NewNop()).FromPool(context.Background(), filepath.Join(t.TempDir(), "absent"), project, config.PoolCamera())
	if err == nil {
		t.Fatal("expected error for missing pool directory")
	}
}
