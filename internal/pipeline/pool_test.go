package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestForEachBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	var mu sync.Mutex

	forEach(context.Background(), 4, 32, func(ctx context.Context, i int) error {
		now := active.Add(1)
		mu.Lock()
		if now > peak.Load() {
			peak.Store(now)
		}
		mu.Unlock()
		defer active.Add(-1)
		return nil
	})
	if p := peak.Load(); p > 4 {
		t.Fatalf("peak concurrency %d exceeds pool cap", p)
	}
}

func TestForEachCollectsPerIndexErrors(t *testing.T) {
	boom := errors.New("boom")
	errs := forEach(context.Background(), 2, 5, func(ctx context.Context, i int) error {
		if i%2 == 1 {
			return boom
		}
		return nil
	})
	for i, err := range errs {
		wantErr := i%2 == 1
		if (err != nil) != wantErr {
			t.Fatalf("index %d: err=%v", i, err)
		}
	}
}

func TestForEachEmpty(t *testing.T) {
	if errs := forEach(context.Background(), 4, 0, nil); len(errs) != 0 {
		t.Fatalf("expected no results, got %d", len(errs))
	}
}

func TestForEachStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	errs := forEach(ctx, 2, 3, func(ctx context.Context, i int) error { return nil })
	for i, err := range errs {
		if err == nil {
			t.Fatalf("index %d should carry the cancellation", i)
		}
	}
}
