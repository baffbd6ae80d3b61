package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"dailies/internal/config"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.SessionDB = filepath.Join(t.TempDir(), "session.db")
	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestActiveProjectRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	name, err := store.ActiveProject(ctx)
	if err != nil {
		t.Fatalf("ActiveProject: %v", err)
	}
	if name != "" {
		t.Fatalf("expected no active project initially, got %q", name)
	}

	if err := store.SetActiveProject(ctx, "alpha-20260104_Import"); err != nil {
		t.Fatalf("SetActiveProject: %v", err)
	}
	if err := store.SetActiveProject(ctx, "beta-20260105_Import"); err != nil {
		t.Fatalf("SetActiveProject overwrite: %v", err)
	}

	name, err = store.ActiveProject(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if name != "beta-20260105_Import" {
		t.Fatalf("expected latest active project, got %q", name)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := RunRecord{
			ID:          uuid.NewString(),
			ProjectName: "alpha-20260104_Import",
			SourcePath:  "/cards/a001",
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			FinishedAt:  base.Add(time.Duration(i)*time.Hour + 5*time.Minute),
			Success:     i != 1,
			Imported:    2,
			Segments:    i,
		}
		if err := store.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatal("expected newest-first ordering")
	}
	if runs[0].Imported != 2 {
		t.Fatalf("unexpected counts: %+v", runs[0])
	}
}

func TestRecordRunRequiresID(t *testing.T) {
	store := newStore(t)
	if err := store.RecordRun(context.Background(), RunRecord{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}
