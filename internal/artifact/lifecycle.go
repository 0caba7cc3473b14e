package artifact

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"fermata/internal/logging"
)

// Lifecycle is the per-run delete-set. It is safe for concurrent use, though
// a cascade run drives it from a single goroutine.
type Lifecycle struct {
	mu      sync.Mutex
	tracked map[string]struct{}
	logger  *slog.Logger
}

// NewLifecycle constructs an empty delete-set. A nil logger is replaced with
// a no-op logger.
func NewLifecycle(logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		tracked: make(map[string]struct{}),
		logger:  logging.NewComponentLogger(logger, "artifact"),
	}
}

// Track registers a path for deletion at the end of the run. Tracking the
// same path twice is a no-op; it will still be deleted exactly once.
func (l *Lifecycle) Track(path string) {
	if path == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tracked[path] = struct{}{}
}

// Release removes one path from the delete-set so it survives CleanupAll.
// It reports whether the path was tracked.
func (l *Lifecycle) Release(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.tracked[path]; !ok {
		return false
	}
	delete(l.tracked, path)
	return true
}

// Remove deletes one tracked path immediately and drops it from the
// delete-set, so the later CleanupAll will not touch it again. Used when the
// cascade discards an oversized attempt before advancing to the next tier.
func (l *Lifecycle) Remove(path string) {
	l.mu.Lock()
	_, tracked := l.tracked[path]
	delete(l.tracked, path)
	l.mu.Unlock()
	if !tracked {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("failed to remove artifact", logging.String("path", path), logging.Error(err))
		return
	}
	l.logger.Debug("removed artifact", logging.String("path", path))
}

// Tracked returns the number of paths currently in the delete-set.
func (l *Lifecycle) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tracked)
}

// CleanupAll deletes every tracked path. Missing files are not errors;
// other deletion failures are logged and otherwise ignored. The delete-set
// is emptied either way, so a second call is a no-op.
func (l *Lifecycle) CleanupAll() {
	l.mu.Lock()
	paths := make([]string, 0, len(l.tracked))
	for path := range l.tracked {
		paths = append(paths, path)
	}
	l.tracked = make(map[string]struct{})
	l.mu.Unlock()

	for _, path := range paths {
		err := os.Remove(path)
		switch {
		case err == nil:
			l.logger.Debug("removed artifact", logging.String("path", path))
		case errors.Is(err, os.ErrNotExist):
		default:
			l.logger.Warn("failed to remove artifact", logging.String("path", path), logging.Error(err))
		}
	}
}
