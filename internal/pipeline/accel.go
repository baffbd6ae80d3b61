package pipeline

import (
	"context"
	"os/exec"
	"time"
)

// DetectCUDA decides whether transcription may use an NVIDIA accelerator.
// Mode "on" and "off" force the answer; "auto" probes for a device.
func DetectCUDA(ctx context.Context, mode string, probe func(ctx context.Context) error) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	if probe == nil {
		probe = nvidiaProbe
	}
	return probe(ctx) == nil
}

// nvidiaProbe asks nvidia-smi to enumerate devices. Any failure, including
// the binary being absent, means no accelerator.
func nvidiaProbe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "nvidia-smi", "-L").Run()
}

// TranscribeWorkers sizes the transcription pool. GPU jobs contend for one
// accelerator's memory, so acceleration caps the pool at a single worker;
// CPU-only runs tolerate two.
func TranscribeWorkers(cuda bool) int {
	if cuda {
		return 1
	}
	return 2
}
