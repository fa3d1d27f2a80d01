package job

import "context"

// Store persists job records. Save is a plain last-write-wins replace; the
// service layer serializes writers with a per-job lock.
type Store interface {
	// Get returns the job with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// ListByUser returns all jobs owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]Record, error)

	// Save upserts the record by ID.
	Save(ctx context.Context, rec *Record) error
}
