package main

import (
	"context"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	accountmodule "github.com/webdashhq/webdash/modules/account"
	billingmodule "github.com/webdashhq/webdash/modules/billing"
	"github.com/webdashhq/webdash/modules/sites"
	workspacesmodule "github.com/webdashhq/webdash/modules/workspaces"
	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/ai"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/billing"
	"github.com/webdashhq/webdash/pkg/config"
	"github.com/webdashhq/webdash/pkg/email"
	"github.com/webdashhq/webdash/pkg/entitlement"
	"github.com/webdashhq/webdash/pkg/httpserver"
	"github.com/webdashhq/webdash/pkg/job"
	"github.com/webdashhq/webdash/pkg/logger"
	"github.com/webdashhq/webdash/pkg/mongo"
	"github.com/webdashhq/webdash/pkg/plan"
	"github.com/webdashhq/webdash/pkg/redis"
	"github.com/webdashhq/webdash/pkg/requestid"
	"github.com/webdashhq/webdash/pkg/tenweb"
	"github.com/webdashhq/webdash/pkg/workspace"
)

type appConfig struct {
	Logger     logger.Config
	HTTP       httpserver.Config
	Mongo      mongo.Config
	Redis      redis.Config
	Auth       auth.Config
	Billing    billing.Config
	Workspace  workspace.Config
	Email      email.Config
	TenWeb     tenweb.Config
	AI         ai.Config
	Generation sites.Config

	JobLockTTL time.Duration `env:"JOB_LOCK_TTL"` // JobLockTTL overrides the derived per-subdomain lock TTL.
}

// lockTTL returns the per-subdomain lock TTL. The lock must outlive a full
// generation run, otherwise a second generation for the same subdomain can
// start mid-run, so any configured value below the poll timeout is raised to
// the poll timeout plus a shutdown margin.
func (c appConfig) lockTTL() time.Duration {
	if c.JobLockTTL >= c.Generation.PollTimeout {
		return c.JobLockTTL
	}
	return c.Generation.PollTimeout + time.Minute
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Logger)
	logger.SetAsDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Error("failed to connect to mongodb", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	db := mongoClient.Database(cfg.Mongo.Database)

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	catalog, err := plan.LoadCatalog(cfg.Billing.PlanCatalogPath)
	if err != nil {
		log.Error("failed to load plan catalog", logger.Error(err))
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		log.Error("failed to initialize token verifier", logger.Error(err))
		os.Exit(1)
	}

	provider, err := billing.NewStripeProvider(cfg.Billing.StripeSecretKey, cfg.Billing.WebhookSecret, catalog)
	if err != nil {
		log.Error("failed to initialize stripe provider", logger.Error(err))
		os.Exit(1)
	}

	builder, err := tenweb.NewClient(cfg.TenWeb, nil)
	if err != nil {
		log.Error("failed to initialize 10web client", logger.Error(err))
		os.Exit(1)
	}

	completer, err := ai.NewClient(cfg.AI, nil)
	if err != nil {
		log.Error("failed to initialize openai client", logger.Error(err))
		os.Exit(1)
	}

	var mailer email.Sender
	if cfg.Email.PostmarkServerToken != "" {
		mailer, err = email.NewPostmarkSender(cfg.Email)
		if err != nil {
			log.Error("failed to initialize postmark sender", logger.Error(err))
			os.Exit(1)
		}
	} else {
		log.Warn("postmark token not configured, emails are logged instead of sent")
		mailer = email.NewLogSender(log)
	}

	accounts := account.NewMongoStore(db)
	jobs := job.NewService(job.NewMongoStore(db), job.NewLocker(redisClient, cfg.lockTTL()), log)
	workspaces := workspace.NewService(workspace.NewMongoStore(db), mailer, cfg.Workspace, log)

	reconciler := billing.NewReconciler(accounts, entitlement.NewCalculator(catalog), log)
	billingSvc := billing.NewService(provider, reconciler, accounts, cfg.Billing, log)
	sitesSvc := sites.NewService(accounts, jobs, builder, completer, cfg.Generation, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log,
		mongo.Healthcheck(mongoClient),
		redis.Healthcheck(redisClient),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Stripe calls this endpoint directly; it authenticates via the
		// webhook signature, not a bearer token.
		r.Post("/billing/webhook", billingmodule.WebhookHandler(billingSvc, log))

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(verifier, log))
			r.Mount("/account", accountmodule.Router(accounts, log))
			r.Mount("/billing", billingmodule.Router(billingSvc, catalog, log))
			r.Mount("/sites", sites.Router(sitesSvc, log))
			r.Mount("/workspaces", workspacesmodule.Router(workspaces, log))
		})
	})

	srv := httpserver.New(cfg.HTTP, log)
	if err := srv.Run(ctx, r); err != nil {
		log.Error("http server exited", logger.Error(err))
		os.Exit(1)
	}
}
