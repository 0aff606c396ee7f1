package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/aussiebroadwan/userapi/internal/users/http"
	"github.com/aussiebroadwan/userapi/internal/users/revocation"
	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/internal/users/store"
	"github.com/aussiebroadwan/userapi/internal/users/store/drivers/mongodb"
	"github.com/aussiebroadwan/userapi/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userapi/pkg/cryptox"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
	"github.com/aussiebroadwan/userapi/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	metricsNamespace = "userapi"
	startupTimeout   = 30 * time.Second
)

// Application encapsulates the user service with all its dependencies.
type Application struct {
	cfg       Config
	logger    *slog.Logger
	logCloser io.Closer

	// Core dependencies
	db       store.Store
	denylist revocation.Denylist
	memory   *revocation.Memory // set when the denylist is in-process

	// Services
	tokenService        *service.TokenService
	userService         *service.UserService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	registry *prometheus.Registry
	server   *http.Server
	router   *httpapi.Router
}

// New creates an Application with all dependencies initialized. Anything
// opened before a failure is released again.
func New(cfg Config) (_ *Application, err error) {
	logger, closer, err := slogx.New(slogx.Config{
		Service: "user-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &Application{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
	}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)
	applyRateLimitOverrides()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initDenylist(ctx); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	if err := app.bootstrapAdmin(ctx); err != nil {
		return nil, err
	}
	app.initHTTP()
	app.initHousekeeping()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("user service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down user service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	app.logger.Info("user service stopped")
	return app.Close()
}

// Close releases the store, the denylist and the log file. It returns the
// store's error, if any. Use it directly only when Run was never called.
func (app *Application) Close() error {
	var dbErr error
	if app.db != nil {
		if dbErr = app.db.Close(); dbErr != nil {
			app.logger.Error("error closing database", "error", dbErr)
		}
	}
	if c, ok := app.denylist.(io.Closer); ok {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing denylist", "error", err)
		}
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
	}
	return dbErr
}

// initDatabase opens the configured store and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var db store.Store
	switch app.cfg.StoreDriver {
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		s, err := sqlite.NewStore(dsn)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db = s
	default:
		s, err := mongodb.NewStore(ctx, app.cfg.MongoURI, app.cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db = s
	}
	app.db = db

	if err := db.ApplyMigrations(ctx); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "store", app.cfg.StoreDriver)
	return nil
}

// initDenylist selects the shared Redis denylist when REDIS_URL is set and
// the in-process one otherwise.
func (app *Application) initDenylist(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		app.memory = revocation.NewMemory()
		app.denylist = app.memory
		app.logger.Info("token denylist enabled", "backend", "memory")
		return nil
	}

	rd, err := revocation.NewRedis(ctx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.denylist = rd
	app.logger.Info("token denylist enabled", "backend", "redis")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	secret := app.cfg.SecretKey
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return fmt.Errorf("failed to generate signing secret: %w", err)
		}
		secret = generated
		app.logger.Warn("SECRET_KEY not set, using a random secret; tokens will not survive a restart")
	}

	tokens, err := service.NewTokenService([]byte(secret), app.cfg.TokenIssuer, app.cfg.TokenTTL, app.denylist)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokens

	app.userService = &service.UserService{Store: app.db, Tokens: app.tokenService}
	app.bootstrapService = &service.BootstrapService{Store: app.db}
	return nil
}

func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.AdminUsername == "" || app.cfg.AdminPassword == "" {
		return nil
	}

	ctx = slogx.WithContext(ctx, app.logger)
	if _, err := app.bootstrapService.EnsureAdmin(ctx, app.cfg.AdminUsername, app.cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.denylist,
		httpx.NewMetrics(metricsNamespace, app.registry),
		app.logger,
	)

	// Wire services to router
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.EnableTestRoutes = app.cfg.EnableTestRoutes
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// initHousekeeping schedules the periodic purges of in-process state.
func (app *Application) initHousekeeping() {
	tasks := []service.HousekeepingTask{
		{
			Name: "rate_limiter_buckets",
			Run: func(context.Context) (int, error) {
				return app.router.PurgeRateLimiters(app.cfg.HousekeepingInterval), nil
			},
		},
	}
	if app.memory != nil {
		tasks = append(tasks, service.HousekeepingTask{
			Name: "revoked_tokens",
			Run: func(context.Context) (int, error) {
				return app.memory.Purge(), nil
			},
		})
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.logger,
		app.cfg.HousekeepingInterval,
		tasks...,
	)
}

// applyRateLimitOverrides re-reads the RATELIMIT_* variables so values from
// a .env file loaded after package init still apply.
func applyRateLimitOverrides() {
	httpx.StrictLimit = httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit)
	httpx.ModerateLimit = httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit)
	httpx.LenientLimit = httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit)
}
