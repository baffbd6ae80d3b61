package pipeline

import (
	"context"
	"errors"
	"testing"
)

func TestDetectCUDAModes(t *testing.T) {
	probeHit := false
	probe := func(ctx context.Context) error {
		probeHit = true
		return nil
	}

	if !DetectCUDA(context.Background(), "on", probe) {
		t.Fatal("forced on must not probe")
	}
	if DetectCUDA(context.Background(), "off", probe) {
		t.Fatal("forced off must not probe")
	}
	if probeHit {
		t.Fatal("probe ran despite forced mode")
	}

	if !DetectCUDA(context.Background(), "auto", probe) {
		t.Fatal("auto with working probe should report cuda")
	}
	if !probeHit {
		t.Fatal("auto mode must probe")
	}
	failing := func(ctx context.Context) error { return errors.New("no devices") }
	if DetectCUDA(context.Background(), "auto", failing) {
		t.Fatal("failed probe means no cuda")
	}
}

func TestTranscribeWorkers(t *testing.T) {
	if got := TranscribeWorkers(true); got != 1 {
		t.Fatalf("cuda pool size %d, want 1", got)
	}
	if got := TranscribeWorkers(false); got != 2 {
		t.Fatalf("cpu pool size %d, want 2", got)
	}
}
