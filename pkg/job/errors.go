package job

import "errors"

var (
	// ErrNotFound means no job record matches the lookup.
	ErrNotFound = errors.New("job not found")
	// ErrMissingID means a record was saved without an ID.
	ErrMissingID = errors.New("job ID is required")
	// ErrInvalidTransition rejects a lifecycle move the state machine does
	// not allow.
	ErrInvalidTransition = errors.New("invalid job status transition")
	// ErrAlreadyRunning means a start was requested while the website's job
	// is pending or processing.
	ErrAlreadyRunning = errors.New("a job for this website is already in progress")
	// ErrAlreadyComplete means a start was requested for a website whose job
	// already finished.
	ErrAlreadyComplete = errors.New("the job for this website already completed")
	// ErrLocked means another worker holds the per-job lock.
	ErrLocked = errors.New("job is locked by another worker")
)
