package engine

import (
	"errors"

	"github.com/lazypower/skilltrack/internal/store"
)

var (
	// ErrNotFound is returned when the sync target does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrSyncFailed matches every *SyncError.
	ErrSyncFailed = errors.New("sync failed")
)

// User-facing sync failure messages.
const (
	msgSyncTransport = "Failed to sync with GitHub"
	msgSyncDecode    = "Failed to parse GitHub response"
)

// SyncError reports a failed commit fetch. Message is safe to show to the
// caller; Err holds the underlying cause.
type SyncError struct {
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *SyncError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSyncFailed) true for any SyncError.
func (e *SyncError) Is(target error) bool { return target == ErrSyncFailed }
