package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrPruneInProgress reports that another process holds the prune lock.
var ErrPruneInProgress = errors.New("history prune already in progress")

// LockPath returns the advisory lock file used by Prune.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Prune deletes runs created before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	lock := flock.New(s.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("acquire prune lock: %w", err)
	}
	if !ok {
		return 0, ErrPruneInProgress
	}
	defer func() { _ = lock.Unlock() }()

	res, err := s.execWithRetry(ctx,
		`DELETE FROM runs WHERE created_at < ?`,
		formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}
