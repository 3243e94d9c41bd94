package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/pawprint/api/controllers"
	"github.com/angelmondragon/pawprint/api/routes"
	"github.com/angelmondragon/pawprint/internal/auth"
	"github.com/angelmondragon/pawprint/internal/credentials"
	"github.com/angelmondragon/pawprint/internal/listings"
	"github.com/angelmondragon/pawprint/internal/mirror"
	"github.com/angelmondragon/pawprint/internal/relationships"
	"github.com/angelmondragon/pawprint/internal/searchstate"
	"github.com/angelmondragon/pawprint/internal/users"
	"github.com/angelmondragon/pawprint/pkg/auth/session"
	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/db"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/metrics"
	"github.com/angelmondragon/pawprint/pkg/migrate"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
	"github.com/angelmondragon/pawprint/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	closeAll := func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}

	handler, err := buildHandler(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to wire api", err)
		closeAll()
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	closeAll()
	os.Exit(exitCode)
}

func buildHandler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	upstream, err := petfinder.NewClient(cfg.Petfinder.ClientID, cfg.Petfinder.ClientSecret,
		petfinder.WithBaseURL(cfg.Petfinder.BaseURL),
		petfinder.WithTokenURL(cfg.Petfinder.TokenURL),
		petfinder.WithTimeout(cfg.Petfinder.Timeout),
		petfinder.WithObserver(metrics.NewUpstreamMetrics(registry)),
	)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(cfg.Session, cfg.App.IsProd())
	if err != nil {
		return nil, err
	}

	accounts, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	creds, err := credentials.NewService(upstream)
	if err != nil {
		return nil, err
	}

	search, err := searchstate.NewService(redisClient, cfg.Search.StateTTL, cfg.Search.PageSize, logg)
	if err != nil {
		return nil, err
	}

	listingService, err := listings.NewService(upstream)
	if err != nil {
		return nil, err
	}

	mirrorService, err := mirror.NewService(mirror.ServiceParams{
		DB:        dbClient,
		Upstream:  upstream,
		Projector: mirror.NewProjector(cfg.Mirror),
		Metrics:   metrics.NewMirrorMetrics(registry),
	})
	if err != nil {
		return nil, err
	}

	relationshipService, err := relationships.NewService(dbClient, mirrorService)
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(routes.Params{
		Config:        cfg,
		Logger:        logg,
		Sessions:      sessions,
		Accounts:      accounts,
		Credentials:   creds,
		Search:        search,
		Listings:      listingService,
		Relationships: relationshipService,
		RateLimiter:   redisClient,
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Gatherer:      registry,
		Readiness: controllers.Dependencies{
			"db":    dbClient,
			"redis": redisClient,
		},
	}), nil
}
