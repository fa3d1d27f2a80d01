package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/webdashhq/webdash/pkg/logger"
)

// Service manages job lifecycle around the store. Status changes are guarded
// by the transition table; workers additionally serialize on the per-job
// Redis lock so two pollers never interleave writes to the same record.
type Service struct {
	store  Store
	locker *Locker
	log    *slog.Logger
}

// NewService creates a job Service. The locker may be nil in tests; Lock
// then returns a no-op release. Panics on a nil store.
func NewService(store Store, locker *Locker, log *slog.Logger) *Service {
	if store == nil {
		panic("job: store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, locker: locker, log: log}
}

// Start creates a pending job under the caller-supplied ID, or restarts an
// existing failed one by resetting progress and clearing the error. The ID
// is the only idempotency key. A job that is pending or processing returns
// ErrAlreadyRunning; a completed one returns ErrAlreadyComplete.
func (s *Service) Start(ctx context.Context, userID, jobID, subdomain string) (*Record, error) {
	if jobID == "" {
		return nil, ErrMissingID
	}

	existing, err := s.store.Get(ctx, jobID)
	switch {
	case err == nil:
		if existing.UserID != userID {
			return nil, ErrAlreadyRunning
		}
		switch existing.Status {
		case StatusFailed:
			existing.Status = StatusPending
			existing.Progress = 0
			existing.Error = ""
			if err := s.store.Save(ctx, existing); err != nil {
				return nil, err
			}
			s.log.InfoContext(ctx, "failed job restarted",
				logger.JobID(existing.ID), logger.UserID(userID), logger.Component("job"))
			return existing, nil
		case StatusComplete:
			return nil, ErrAlreadyComplete
		default:
			return nil, ErrAlreadyRunning
		}
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	rec := &Record{
		ID:        jobID,
		UserID:    userID,
		Subdomain: subdomain,
		Status:    StatusPending,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "job created",
		logger.JobID(rec.ID), logger.UserID(userID), logger.Component("job"))
	return rec, nil
}

// Get returns the job after verifying the caller owns it. A job owned by
// someone else reports ErrNotFound rather than leaking its existence.
func (s *Service) Get(ctx context.Context, userID, jobID string) (*Record, error) {
	rec, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List returns the user's jobs, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	return s.store.ListByUser(ctx, userID)
}

// Transition moves the job to the target status, enforcing the lifecycle
// table.
func (s *Service) Transition(ctx context.Context, jobID string, to Status) (*Record, error) {
	rec, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !rec.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, to)
	}

	rec.Status = to
	if to == StatusComplete {
		rec.Progress = 100
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SetProgress records the upstream builder's percentage on a processing job.
// Values are clamped to 0-100.
func (s *Service) SetProgress(ctx context.Context, jobID string, progress int) error {
	rec, err := s.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if rec.Status != StatusProcessing {
		return fmt.Errorf("%w: progress update on %s job", ErrInvalidTransition, rec.Status)
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	rec.Progress = progress
	return s.store.Save(ctx, rec)
}

// Fail moves the job to failed and records the cause.
func (s *Service) Fail(ctx context.Context, jobID, message string) error {
	rec, err := s.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if !rec.Status.CanTransition(StatusFailed) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, StatusFailed)
	}

	rec.Status = StatusFailed
	rec.Error = message
	if err := s.store.Save(ctx, rec); err != nil {
		return err
	}

	s.log.WarnContext(ctx, "job failed",
		logger.JobID(jobID), slog.String("cause", message), logger.Component("job"))
	return nil
}

// Lock acquires the per-job lock and returns its release function. Without a
// configured locker the release is a no-op.
func (s *Service) Lock(ctx context.Context, jobID string) (func(context.Context) error, error) {
	if s.locker == nil {
		return func(context.Context) error { return nil }, nil
	}
	return s.locker.Acquire(ctx, jobID)
}
