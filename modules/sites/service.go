package sites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/ai"
	"github.com/webdashhq/webdash/pkg/job"
	"github.com/webdashhq/webdash/pkg/logger"
	"github.com/webdashhq/webdash/pkg/tenweb"
)

// ErrWebsiteLimitReached gates site creation on the account quota.
var ErrWebsiteLimitReached = errors.New("website limit reached for current plan")

// ErrWebsiteNotFound means the account owns no website with the given ID.
var ErrWebsiteNotFound = errors.New("website not found")

// SiteBuilder is the subset of the 10Web client the pipeline needs.
type SiteBuilder interface {
	CreateWebsite(ctx context.Context, params tenweb.CreateWebsiteParams) (*tenweb.Website, error)
	GenerateSite(ctx context.Context, params tenweb.GenerateParams) error
	GenerationProgress(ctx context.Context, domainID int64) (*tenweb.Progress, error)
	DeleteWebsite(ctx context.Context, domainID int64) error
}

// Completer is the subset of the AI client the copy proxy needs.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error)
}

// Config is loaded from the environment by pkg/config.
type Config struct {
	PollInterval   time.Duration `env:"GENERATION_POLL_INTERVAL" envDefault:"5s"`
	PollTimeout    time.Duration `env:"GENERATION_POLL_TIMEOUT" envDefault:"15m"` // PollTimeout bounds the whole generation wait.
	AdminUsername  string        `env:"GENERATION_ADMIN_USERNAME" envDefault:"webdash"`
	AdminPassword  string        `env:"GENERATION_ADMIN_PASSWORD,required"` // AdminPassword seeds the provisioned WordPress admin.
	SynchronousRun bool          `env:"GENERATION_SYNCHRONOUS"`             // SynchronousRun disables the background goroutine (tests only).
}

// Service orchestrates the website generation pipeline: quota gate, per-key
// lock, job record, provisioning, generation polling, and the final website
// append onto the user document.
type Service struct {
	accounts account.Store
	jobs     *job.Service
	builder  SiteBuilder
	ai       Completer
	cfg      Config
	log      *slog.Logger
}

// NewService creates a sites Service. Panics on nil dependencies to fail
// fast during initialization; the AI client may be nil when the copy proxy
// is not configured.
func NewService(accounts account.Store, jobs *job.Service, builder SiteBuilder, completer Completer, cfg Config, log *slog.Logger) *Service {
	if accounts == nil {
		panic("sites: account store is required")
	}
	if jobs == nil {
		panic("sites: job service is required")
	}
	if builder == nil {
		panic("sites: site builder is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 15 * time.Minute
	}
	return &Service{accounts: accounts, jobs: jobs, builder: builder, ai: completer, cfg: cfg, log: log}
}

// StartParams shapes a generation request.
type StartParams struct {
	JobID               string `json:"jobId"`
	Subdomain           string `json:"subdomain"`
	Title               string `json:"title"`
	BusinessType        string `json:"businessType"`
	BusinessName        string `json:"businessName"`
	BusinessDescription string `json:"businessDescription"`
}

// StartGeneration gates on the website quota, takes the per-subdomain lock,
// creates (or restarts) the job, and launches the pipeline in the
// background. The lock is released when the pipeline finishes. The subdomain
// is optional: a missing one is derived from the business name, and a restart
// of an existing job reuses the subdomain already on record.
func (s *Service) StartGeneration(ctx context.Context, userID string, params StartParams) (*job.Record, error) {
	acc, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !acc.CanCreateWebsite() {
		return nil, ErrWebsiteLimitReached
	}

	if params.Subdomain == "" {
		if existing, err := s.jobs.Get(ctx, userID, params.JobID); err == nil {
			params.Subdomain = existing.Subdomain
		} else {
			params.Subdomain = deriveSubdomain(params)
		}
	}

	release, err := s.jobs.Lock(ctx, params.Subdomain)
	if err != nil {
		return nil, err
	}

	rec, err := s.jobs.Start(ctx, userID, params.JobID, params.Subdomain)
	if err != nil {
		_ = release(ctx)
		return nil, err
	}

	run := func() {
		runCtx, cancel := context.WithTimeout(context.Background(), s.cfg.PollTimeout)
		defer cancel()
		defer func() {
			if err := release(runCtx); err != nil {
				s.log.ErrorContext(runCtx, "failed to release generation lock",
					logger.JobID(rec.ID), logger.Error(err), logger.Component("sites"))
			}
		}()
		s.runGeneration(runCtx, userID, rec.ID, params)
	}
	if s.cfg.SynchronousRun {
		run()
	} else {
		go run()
	}

	return rec, nil
}

// runGeneration walks the job through provisioning, generation, and polling.
// Any failure marks the job failed with the cause; nothing retries.
func (s *Service) runGeneration(ctx context.Context, userID, jobID string, params StartParams) {
	if _, err := s.jobs.Transition(ctx, jobID, job.StatusProcessing); err != nil {
		s.log.ErrorContext(ctx, "failed to mark job processing",
			logger.JobID(jobID), logger.Error(err), logger.Component("sites"))
		return
	}

	site, err := s.builder.CreateWebsite(ctx, tenweb.CreateWebsiteParams{
		Subdomain:     params.Subdomain,
		SiteTitle:     params.Title,
		AdminUsername: s.cfg.AdminUsername,
		AdminPassword: s.cfg.AdminPassword,
	})
	if err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("provisioning failed: %v", err))
		return
	}

	if err := s.builder.GenerateSite(ctx, tenweb.GenerateParams{
		DomainID:            site.DomainID,
		BusinessType:        params.BusinessType,
		BusinessName:        params.BusinessName,
		BusinessDescription: params.BusinessDescription,
	}); err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("generation start failed: %v", err))
		return
	}

	if err := s.pollGeneration(ctx, jobID, site.DomainID); err != nil {
		s.failJob(ctx, jobID, err.Error())
		return
	}

	if err := s.appendWebsite(ctx, userID, params, site); err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("failed to record website: %v", err))
		return
	}

	if _, err := s.jobs.Transition(ctx, jobID, job.StatusComplete); err != nil {
		s.log.ErrorContext(ctx, "failed to mark job complete",
			logger.JobID(jobID), logger.Error(err), logger.Component("sites"))
	}
}

func (s *Service) pollGeneration(ctx context.Context, jobID string, domainID int64) error {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		progress, err := s.builder.GenerationProgress(ctx, domainID)
		if err != nil {
			return fmt.Errorf("progress check failed: %w", err)
		}

		switch progress.Status {
		case "completed", "complete", "done":
			return nil
		case "failed", "error":
			return errors.New("site generation failed upstream")
		}

		if err := s.jobs.SetProgress(ctx, jobID, progress.Progress); err != nil {
			s.log.WarnContext(ctx, "failed to record progress",
				logger.JobID(jobID), logger.Error(err), logger.Component("sites"))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("generation timed out: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *Service) appendWebsite(ctx context.Context, userID string, params StartParams, site *tenweb.Website) error {
	acc, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return err
	}

	acc.Websites = append(acc.Websites, account.Website{
		ID:        uuid.NewString(),
		DomainID:  site.DomainID,
		Subdomain: params.Subdomain,
		SiteURL:   site.SiteURL,
		Title:     params.Title,
		Status:    account.WebsiteStatusActive,
		CreatedAt: time.Now().UTC(),
	})
	return s.accounts.Save(ctx, acc)
}

// deriveSubdomain builds a subdomain for requests that omit one: a slug of
// the business name plus a short random suffix for uniqueness.
func deriveSubdomain(params StartParams) string {
	base := slugify(params.BusinessName)
	if base == "" {
		base = "site"
	}
	return base + "-" + uuid.NewString()[:8]
}

// slugify lowercases and collapses everything outside [a-z0-9] into single
// hyphens.
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

func (s *Service) failJob(ctx context.Context, jobID, cause string) {
	if err := s.jobs.Fail(ctx, jobID, cause); err != nil {
		s.log.ErrorContext(ctx, "failed to mark job failed",
			logger.JobID(jobID), logger.Error(err), logger.Component("sites"))
	}
}

// JobStatus returns the caller's job record.
func (s *Service) JobStatus(ctx context.Context, userID, jobID string) (*job.Record, error) {
	return s.jobs.Get(ctx, userID, jobID)
}

// ListWebsites returns the account's websites.
func (s *Service) ListWebsites(ctx context.Context, userID string) ([]account.Website, error) {
	acc, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return acc.Websites, nil
}

// DeleteWebsite removes the hosted site upstream, then drops it from the
// user document.
func (s *Service) DeleteWebsite(ctx context.Context, userID, websiteID string) error {
	acc, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return err
	}

	site, ok := acc.FindWebsite(websiteID)
	if !ok {
		return ErrWebsiteNotFound
	}

	if err := s.builder.DeleteWebsite(ctx, site.DomainID); err != nil {
		return err
	}

	kept := acc.Websites[:0]
	for _, w := range acc.Websites {
		if w.ID != websiteID {
			kept = append(kept, w)
		}
	}
	acc.Websites = kept
	return s.accounts.Save(ctx, acc)
}

// Complete proxies a copy suggestion request to the AI provider.
func (s *Service) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	if s.ai == nil {
		return nil, errors.New("ai completions are not configured")
	}
	return s.ai.Complete(ctx, req)
}
