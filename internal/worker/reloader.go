// Package worker keeps the in-memory projection table in sync with the CSV
// export it is loaded from:
// - Polls the file modification time on a fixed interval
// - Reloads and swaps the table atomically when the file changes
// - Tags every load with a fresh data version so cached comparisons roll over
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/gridiron-tools/compare-api/internal/ingest"
	"github.com/gridiron-tools/compare-api/internal/models"
)

// Prometheus metrics
var (
	tableReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compare_table_reloads_total",
		Help: "Total number of successful projection table reloads",
	})

	tableReloadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compare_table_reloads_failed_total",
		Help: "Total number of projection table reloads that failed",
	})

	playersLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "compare_players_loaded",
		Help: "Number of players in the current projection table",
	})

	reloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "compare_table_reload_duration_seconds",
		Help:    "Duration of projection table reloads",
		Buckets: prometheus.DefBuckets,
	})
)

// TableSink receives freshly loaded tables.
type TableSink interface {
	Replace(players []models.Player, projections []models.Projection, version string)
}

// ReloaderConfig configures the reload worker
type ReloaderConfig struct {
	Path     string
	Interval time.Duration
	Sink     TableSink
	Logger   *zap.Logger

	// Overridable for tests.
	Load    func(path string) (*ingest.Table, error)
	ModTime func(path string) (time.Time, error)
}

// Reloader reloads the projection table whenever its file changes.
type Reloader struct {
	config  ReloaderConfig
	logger  *zap.SugaredLogger
	mu      sync.Mutex
	mtime   time.Time
	version string
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewReloader creates a reload worker
func NewReloader(cfg ReloaderConfig) *Reloader {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Load == nil {
		cfg.Load = ingest.LoadFile
	}
	if cfg.ModTime == nil {
		cfg.ModTime = ingest.ModTime
	}
	return &Reloader{config: cfg, logger: cfg.Logger.Sugar()}
}

// Start launches the polling goroutine
func (r *Reloader) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.run()

	r.logger.Infow("Table reloader started", "path", r.config.Path, "interval", r.config.Interval)
}

// Stop waits for the polling goroutine to exit
func (r *Reloader) Stop() {
	r.logger.Info("Stopping table reloader...")
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info("Table reloader stopped")
}

func (r *Reloader) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.Reload(r.ctx); err != nil {
				r.logger.Errorw("Table reload failed", "path", r.config.Path, "error", err)
			}
		case <-r.ctx.Done():
			return
		}
	}
}

// Reload loads the table if the file changed since the last load. It
// reports whether a new table was installed.
func (r *Reloader) Reload(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	mtime, err := r.config.ModTime(r.config.Path)
	if err != nil {
		tableReloadsFailed.Inc()
		return false, fmt.Errorf("stat table: %w", err)
	}
	if !r.mtime.IsZero() && !mtime.After(r.mtime) {
		return false, nil
	}

	start := time.Now()
	table, err := r.config.Load(r.config.Path)
	if err != nil {
		tableReloadsFailed.Inc()
		return false, err
	}

	version := uuid.New().String()
	r.config.Sink.Replace(table.Players, table.Projections, version)
	r.mtime = mtime
	r.version = version

	reloadDuration.Observe(time.Since(start).Seconds())
	tableReloads.Inc()
	playersLoaded.Set(float64(len(table.Players)))

	r.logger.Infow("Projection table reloaded",
		"path", r.config.Path,
		"players", len(table.Players),
		"projections", len(table.Projections),
		"version", version,
		"duration", time.Since(start),
	)
	return true, nil
}

// Version returns the data version of the last successful load.
func (r *Reloader) Version() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}
