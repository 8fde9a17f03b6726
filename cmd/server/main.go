package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/internal/blob"
	"github.com/diewo77/go-pharmacy/internal/config"
	"github.com/diewo77/go-pharmacy/internal/db"
	"github.com/diewo77/go-pharmacy/internal/jobs"
	"github.com/diewo77/go-pharmacy/internal/logger"
	"github.com/diewo77/go-pharmacy/internal/metrics"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/policy"
	"github.com/diewo77/go-pharmacy/internal/session"
	"github.com/diewo77/go-pharmacy/view"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	configFlag      = flag.String("config", "", "Path to a config file (yaml, toml or json)")
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run session DB migrations and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.App.Env, os.Stdout)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := log.WithContext(context.Background())
	m := metrics.New()
	sched := jobs.NewScheduler(log)

	store, cleanup, err := openSessionStore(ctx, cfg, log, sched, m)
	if err != nil {
		return err
	}
	defer cleanup()
	if *migrateOnlyFlag {
		log.Info().Msg("migrations completed")
		return nil
	}

	blobs, err := blob.NewFileStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return err
	}
	api := pharmacy.New(cfg.Backend.URL,
		pharmacy.WithTimeout(cfg.Backend.Timeout),
		pharmacy.WithLogger(log),
		pharmacy.WithMetrics(m),
	)
	sessions := auth.NewManager(store, cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure)

	view.SetDevMode(cfg.App.Dev)
	if cfg.App.TemplatesDir != "" {
		view.SetBaseDir(cfg.App.TemplatesDir)
	}

	routerCfg := policy.NewRouterConfig(policy.Deps{
		API:            api,
		Sessions:       sessions,
		Blobs:          blobs,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	})
	opts := Options{Log: log, UploadsDir: cfg.Uploads.Dir, UploadsURL: cfg.Uploads.BaseURL}
	if cfg.Metrics.Enabled {
		opts.Metrics = m
	}
	app := NewApp(routerCfg, opts)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  cfg.Server.Timeout(cfg.Server.ReadTimeout),
		WriteTimeout: cfg.Server.Timeout(cfg.Server.WriteTimeout),
		IdleTimeout:  cfg.Server.Timeout(cfg.Server.IdleTimeout),
	}

	sched.Start()
	defer sched.Stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", api.BaseURL()).Bool("dev", cfg.App.Dev).
			Str("sessions", cfg.Session.Store).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.Timeout(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

// openSessionStore builds the configured store. The gorm store also gets the
// expired-session purge job.
func openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, sched *jobs.Scheduler, m *metrics.Metrics) (session.Store, func(), error) {
	if cfg.Session.Store == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store ready")
		return session.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	}

	conn, err := db.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open session database: %w", err)
	}
	cleanup := func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if cfg.App.Migrations || *migrateOnlyFlag {
		if err := db.Migrate(conn); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	store := session.NewGormStore(conn)
	if err := sched.SchedulePurge(cfg.Jobs.PurgeSchedule, store, m); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("schedule purge: %w", err)
	}
	return store, cleanup, nil
}
