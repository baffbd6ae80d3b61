package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"dailies/internal/config"
	"dailies/internal/deps"
	"dailies/internal/services"
	"dailies/internal/services/resolve"
)

// MinFreeBytes is the default free-space floor for a projects root. Card
// offloads arrive in multi-gigabyte batches and normalization roughly
// doubles the footprint.
const MinFreeBytes = 20 << 30

// CheckEditor verifies the editor scripting gateway is reachable. An
// editor that simply is not running fails the check with a soft detail, not
// an error dump.
func CheckEditor(ctx context.Context, cfg config.Editor) Result {
	const name = "Editor bridge"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := resolve.NewClient(cfg).Connect(checkCtx)
	switch {
	case err == nil:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case errors.Is(err, services.ErrConfiguration):
		return Result{Name: name, Detail: "missing url"}
	case errors.Is(checkCtx.Err(), context.DeadlineExceeded):
		return Result{Name: name, Detail: "connection timed out"}
	default:
		return Result{Name: name, Detail: "editor not running"}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes
// available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, need %.1f GiB)",
			path, float64(free)/(1<<30), float64(minBytes)/(1<<30))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))}
}

// CheckSystemDeps evaluates all external binaries for the given config.
// The CLI deps command and the watch daemon both use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}
