package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/tripboard/internal/adapters/http/api"
	"github.com/okian/tripboard/internal/adapters/http/ratelimit"
	"github.com/okian/tripboard/internal/adapters/http/sessioncookie"
	"github.com/okian/tripboard/internal/adapters/http/site"
	"github.com/okian/tripboard/internal/adapters/http/swagger"
	"github.com/okian/tripboard/internal/adapters/repository"
	"github.com/okian/tripboard/internal/adapters/sessionstore"
	service "github.com/okian/tripboard/internal/app"
	"github.com/okian/tripboard/internal/config"
	"github.com/okian/tripboard/pkg/logger"
	"github.com/okian/tripboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 15 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	sessionMetricsInterval = 30 * time.Second
	rateLimitBurst         = 10
)

func main() {
	// Initialize logging with defaults; the configured format is applied
	// once the config is loaded.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.InitWith(os.Stdout, logger.Format(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metrics.WithNamespace(cfg.MetricsNamespace))

	svc, err := buildService(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop(context.WithoutCancel(ctx))

	go startSystemMetricsUpdater(ctx)
	go startSessionMetricsUpdater(ctx, svc)

	router, err := newRouter(cfg, svc, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build router", logger.Error(err))
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Bool("demo", cfg.Demo()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildService opens the stores named by cfg and assembles the service.
// Demo mode opens no feedback store at all.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithDemoMode(cfg.Demo()),
		service.WithDemoLatency(cfg.DemoLatency()),
		service.WithOrganizer(cfg.OrganizerName),
	}

	if !cfg.Demo() {
		store, err := repository.Open(ctx, cfg.StoreURL, cfg.StoreTable, cfg.ConnectRetryMax(), log.Named("store"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithStore(store))
	} else {
		log.Warn(ctx, "no store_url configured; running in demo mode, feedback will not be saved")
	}

	var sessions sessionstore.Store
	if cfg.RedisURL != "" {
		rs, err := sessionstore.OpenRedis(ctx, cfg.RedisURL, sessionstore.WithTTL(cfg.SessionTTL()))
		if err != nil {
			return nil, err
		}
		sessions = rs
	} else {
		sessions = sessionstore.NewMemoryStore(sessionstore.WithTTL(cfg.SessionTTL()))
	}
	opts = append(opts, service.WithSessionStore(sessions))

	return service.New(opts...), nil
}

// newRouter mounts the pages, the JSON API and the docs on one chi router.
func newRouter(cfg *config.Config, svc *service.Service, log logger.Logger) (http.Handler, error) {
	jar := sessioncookie.Jar{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.SessionTTL(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	limiter := ratelimit.New(cfg.SubmitRatePerMinute, rateLimitBurst)

	pages, err := site.NewHandler(svc, jar, log.Named("site"), site.WithLimiter(limiter))
	if err != nil {
		return nil, err
	}
	pages.Register(r)

	api.NewServer(svc,
		api.WithCookieJar(jar),
		api.WithAllowedOrigins(cfg.AllowedOrigins),
		api.WithLimiter(limiter),
		api.WithLogger(log.Named("api")),
	).Register(r)

	swagger.Register(r)
	return r, nil
}

// startSystemMetricsUpdater periodically records memory and goroutine use.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startSessionMetricsUpdater keeps the active session gauge current as
// sessions expire.
func startSessionMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(sessionMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.RefreshActiveSessions(ctx)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
