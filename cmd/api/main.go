// Command api serves player projection comparisons over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gridiron-tools/compare-api/internal/config"
	"github.com/gridiron-tools/compare-api/internal/handlers"
	"github.com/gridiron-tools/compare-api/internal/logic"
	"github.com/gridiron-tools/compare-api/internal/store"
	"github.com/gridiron-tools/compare-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	checks := make(map[string]handlers.HealthCheck)

	var (
		source   logic.ProjectionSource
		reloader *worker.Reloader
	)
	switch cfg.ProjectionsSource {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		checks["postgres"] = pool.Ping

		pg := store.NewPostgresStore(pool)
		if err := pg.Refresh(ctx); err != nil {
			return err
		}
		go refreshLoop(ctx, pg, cfg.ReloadInterval, sugar)
		source = pg

	default:
		mem := store.NewMemoryStore()
		reloader = worker.NewReloader(worker.ReloaderConfig{
			Path:     cfg.TableCSV,
			Interval: cfg.ReloadInterval,
			Sink:     mem,
			Logger:   logger,
		})
		// A missing table is not fatal; /players reports it until the file appears.
		if _, err := reloader.Reload(ctx); err != nil {
			sugar.Warnw("Initial table load failed", "path", cfg.TableCSV, "error", err)
		}
		reloader.Start(ctx)
		defer reloader.Stop()
		checks["table"] = func(context.Context) error {
			if mem.Len() == 0 {
				return errors.New("projection table not loaded")
			}
			return nil
		}
		source = mem
	}

	var samples logic.SampleSource
	if cfg.ClickHouseURL != "" {
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return fmt.Errorf("parse clickhouse url: %w", err)
		}
		conn, err := clickhouse.Open(opts)
		if err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		defer conn.Close()
		checks["clickhouse"] = conn.Ping
		samples = store.NewSampleStore(conn, cfg.SampleLimit)
	}

	var cache logic.ComparisonCache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		cache = store.NewRedisCache(rdb, cfg.CompareCacheTTL, logger)
	} else {
		cache = store.NewMemoryCache(cfg.CompareCacheTTL)
	}

	engine, err := logic.NewEngine(cfg.Chart.EngineOptions())
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	hcfg := handlers.Config{
		Source:  source,
		Compare: logic.NewComparisonService(engine, source, samples, cache, logger),
		Checks:  checks,
		Logger:  logger,
	}
	if reloader != nil {
		hcfg.Reloader = reloader
	}
	h := handlers.New(hcfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	sugar.Infow("Server listening",
		"addr", srv.Addr,
		"source", cfg.ProjectionsSource,
		"samples", samples != nil,
		"redis", cfg.RedisURL != "",
	)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		sugar.Info("Shutting down server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// refreshLoop polls the postgres snapshot marker so the data version follows
// upstream loads.
func refreshLoop(ctx context.Context, pg *store.PostgresStore, interval time.Duration, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := pg.Refresh(ctx); err != nil {
				logger.Warnw("Projection version refresh failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
