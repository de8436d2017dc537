package syncer

import (
	"context"
	"crypto/sha1" //nolint:gosec // Only names the lock file.
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
	"github.com/tharvik/flock"

	"github.com/oshokin/axiom-dist/internal/logger"
)

// ErrSyncRunning is returned when another sync holds the destination lock.
var ErrSyncRunning = errors.New("another sync is running on this destination")

// guard is an exclusive advisory lock on one destination.
type guard struct {
	lock *flock.Flock
	path string
}

// lockPath returns the lock file of dest. An explicit override wins.
func lockPath(dest, override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}

	sum := sha1.Sum([]byte(abs)) //nolint:gosec // Only names the lock file.

	return filepath.Join(os.TempDir(), "axiom-sync-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// acquire takes the lock without waiting.
func acquire(ctx context.Context, path string) (*guard, error) {
	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	if !locked {
		logOtherSyncs(ctx)

		return nil, fmt.Errorf("%s: %w", path, ErrSyncRunning)
	}

	logger.DebugKV(ctx, "Destination locked", "lock", path)

	return &guard{lock: lock, path: path}, nil
}

// release drops the lock. The lock file stays in place.
func (g *guard) release(ctx context.Context) {
	if err := g.lock.Unlock(); err != nil {
		logger.WarnKV(ctx, "Unable to unlock destination", "lock", g.path, "error", err)
	}
}

// logOtherSyncs names the processes that look like competing syncs.
func logOtherSyncs(ctx context.Context) {
	self, err := os.Executable()
	if err != nil {
		return
	}

	name := filepath.Base(self)

	processes, err := ps.Processes()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	thisProcessID := os.Getpid()

	for _, process := range processes {
		if process.Pid() == thisProcessID {
			continue
		}

		if !strings.EqualFold(process.Executable(), name) {
			continue
		}

		logger.WarnKV(ctx, "Sync already running", "pid", process.Pid(), "executable", process.Executable())
	}
}
