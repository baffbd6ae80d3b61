package media

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const labelReadTimeout = 3 * time.Second

var commandOutput = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ReadVolumeLabel returns the filesystem label of the volume containing
// path. The read is best-effort with a bounded wait: any failure or timeout
// reports ok=false and callers fall through to the next codeword source.
func ReadVolumeLabel(ctx context.Context, path string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, labelReadTimeout)
	defer cancel()

	out, err := commandOutput(ctx, "lsblk", "-rno", "LABEL,MOUNTPOINT")
	if err != nil {
		return fallbackLabel(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	bestLabel := ""
	bestLen := -1
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
		if len(fields) != 2 {
			continue
		}
		label, mount := fields[0], fields[1]
		if label == "" || mount == "" {
			continue
		}
		// lsblk -r escapes spaces as \x20
		mount = strings.ReplaceAll(mount, `\x20`, " ")
		if abs == mount || strings.HasPrefix(abs, strings.TrimRight(mount, "/")+"/") {
			if len(mount) > bestLen {
				bestLen = len(mount)
				bestLabel = label
			}
		}
	}
	if bestLabel == "" || bestLen <= 1 { // ignore the root filesystem
		return fallbackLabel(path)
	}
	return bestLabel, true
}

// fallbackLabel treats removable-media mount point names as labels.
func fallbackLabel(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	for _, prefix := range []string{"/media/", "/run/media/", "/Volumes/"} {
		if !strings.HasPrefix(abs, prefix) {
			continue
		}
		rest := strings.TrimPrefix(abs, prefix)
		parts := strings.Split(rest, string(filepath.Separator))
		// /media/<user>/<label> nests one level deeper than /Volumes/<label>.
		idx := 0
		if prefix != "/Volumes/" && len(parts) > 1 {
			idx = 1
		}
		if idx < len(parts) && parts[idx] != "" {
			return parts[idx], true
		}
	}
	return "", false
}
