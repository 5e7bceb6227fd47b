// Package main is the entrypoint for the Hideout API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hideout/hideout/internal/auth"
	"github.com/hideout/hideout/internal/config"
	"github.com/hideout/hideout/internal/dormancy"
	"github.com/hideout/hideout/internal/handler"
	"github.com/hideout/hideout/internal/mailer"
	"github.com/hideout/hideout/internal/middleware"
	"github.com/hideout/hideout/internal/repository"
	"github.com/hideout/hideout/internal/server"
	"github.com/hideout/hideout/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Auth primitives and the account service.
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	accounts := service.NewAccountService(repo, hasher, tokens)

	// Handlers.
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo)
	authHandler := handler.NewAuthHandler(accounts, logger)
	todoHandler := handler.NewTodoHandler(repo, logger)
	eventHandler := handler.NewEventHandler(repo, logger)
	budgetHandler := handler.NewBudgetHandler(repo, logger)

	r := setupRouter(h, healthHandler, authHandler, todoHandler, eventHandler, budgetHandler, tokens, repo, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Dormancy sweep runs only when a mail transport is configured.
	if cfg.MailEnabled() {
		notifier, err := mailer.New(cfg, logger)
		if err != nil {
			logger.Error("failed to set up mailer", slog.Any("error", err))
			os.Exit(1)
		}

		scanner := dormancy.NewScanner(repo, notifier, cfg.DormancyThreshold, logger)
		scheduler, err := dormancy.NewScheduler(scanner, cfg.DormancySchedule, logger)
		if err != nil {
			logger.Error("failed to set up dormancy scheduler", slog.Any("error", err))
			os.Exit(1)
		}

		scheduler.Start()
		srv.OnShutdown("dormancy-scheduler", scheduler.Shutdown)
	} else {
		logger.Warn("mail transport not configured, dormancy notifications disabled")
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	todoHandler *handler.TodoHandler,
	eventHandler *handler.EventHandler,
	budgetHandler *handler.BudgetHandler,
	tokens *auth.TokenService,
	repo *repository.Repository,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		r.Use(middleware.CORS(origins))
	}

	// Public endpoints.
	r.Get("/", h.Hello)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
		Store:  repo,
	}

	r.Route("/api", func(r chi.Router) {
		// Account endpoints issue credentials, so they stay public.
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", todoHandler.List)
				r.Post("/", todoHandler.Create)
				r.Put("/{id}", todoHandler.Update)
				r.Delete("/{id}", todoHandler.Delete)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Put("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", budgetHandler.ListCategories)
				r.Post("/", budgetHandler.CreateCategory)
				r.Put("/{id}", budgetHandler.UpdateCategory)
				r.Delete("/{id}", budgetHandler.DeleteCategory)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", budgetHandler.ListTransactions)
				r.Post("/", budgetHandler.CreateTransaction)
				r.Put("/{id}", budgetHandler.UpdateTransaction)
				r.Delete("/{id}", budgetHandler.DeleteTransaction)
			})
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
