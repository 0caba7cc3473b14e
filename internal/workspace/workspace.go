// Package workspace provisions per-run download directories. Each run gets a
// uuid-named directory under the configured download root, held under an
// exclusive flock so two processes never share an attempt directory.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Workspace is one exclusive run directory.
type Workspace struct {
	// ID is the uuid assigned to the run, also used as the request
	// correlation id in logs.
	ID string
	// Dir is the attempt directory the downloader writes into.
	Dir string

	lock     *flock.Flock
	lockPath string
}

// Acquire creates a fresh run directory under root and locks it. Callers must
// Release when the run finishes.
func Acquire(root string) (*Workspace, error) {
	if root == "" {
		return nil, errors.New("workspace root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}

	id := uuid.NewString()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	lockPath := dir + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("run directory %s already locked", dir)
	}

	return &Workspace{ID: id, Dir: dir, lock: lock, lockPath: lockPath}, nil
}

// Release unlocks and removes the run directory. The cascade deletes its own
// intermediates; this sweeps whatever remains, so callers must move the
// deliverable out first.
func (w *Workspace) Release() error {
	if w == nil {
		return nil
	}
	var firstErr error
	if err := os.RemoveAll(w.Dir); err != nil {
		firstErr = fmt.Errorf("remove run directory: %w", err)
	}
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release run lock: %w", err)
		}
	}
	if err := os.Remove(w.lockPath); err != nil && !os.IsNotExist(err) && firstErr == nil {
		firstErr = fmt.Errorf("remove lock file: %w", err)
	}
	return firstErr
}
