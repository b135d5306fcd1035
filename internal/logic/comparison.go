package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gridiron-tools/compare-api/internal/models"
)

var (
	comparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_requests_total",
		Help: "Total number of player comparisons computed or served from cache",
	}, []string{"format"})

	compareCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compare_cache_hits_total",
		Help: "Comparisons served from the cache",
	})

	compareCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compare_cache_misses_total",
		Help: "Comparisons computed because the cache had no entry",
	})

	distributionsMissing = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_distribution_missing_total",
		Help: "Players compared without a usable distribution",
	}, []string{"format"})
)

// side is one player's loaded inputs.
type side struct {
	player  models.Player
	record  models.Record
	samples []float64
}

type comparisonService struct {
	engine  *Engine
	source  ProjectionSource
	samples SampleSource
	cache   ComparisonCache
	logger  *zap.SugaredLogger
}

// NewComparisonService wires the engine to its collaborators. samples and
// cache may be nil.
func NewComparisonService(engine *Engine, source ProjectionSource, samples SampleSource, cache ComparisonCache, logger *zap.Logger) ComparisonService {
	return &comparisonService{
		engine:  engine,
		source:  source,
		samples: samples,
		cache:   cache,
		logger:  logger.Sugar(),
	}
}

// Compare loads both players concurrently and runs the engine.
func (s *comparisonService) Compare(ctx context.Context, a, b string, format models.ScoringFormat, viewport models.Viewport) (*models.Comparison, error) {
	if viewport == "" {
		viewport = s.engine.Options().Axis.Viewport
	}
	version := s.source.Version()
	key := CacheKey(version, format, viewport, a, b)

	if s.cache != nil {
		if c, ok := s.cache.Get(ctx, key); ok {
			compareCacheHits.Inc()
			comparisonsTotal.WithLabelValues(string(format)).Inc()
			return c, nil
		}
		compareCacheMisses.Inc()
	}

	var sideA, sideB side
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sideA, err = s.load(gctx, a, format)
		return err
	})
	g.Go(func() error {
		var err error
		sideB, err = s.load(gctx, b, format)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := s.engine.Compare(CompareInput{
		Format:   format,
		Viewport: viewport,
		PlayerA:  sideA.player,
		PlayerB:  sideB.player,
		RecordA:  sideA.record,
		RecordB:  sideB.record,
		SamplesA: sideA.samples,
		SamplesB: sideB.samples,
	})
	if err != nil {
		return nil, err
	}
	c.Version = version

	comparisonsTotal.WithLabelValues(string(format)).Inc()
	for _, d := range []*models.Distribution{c.Chart.DistributionA, c.Chart.DistributionB} {
		if d == nil {
			distributionsMissing.WithLabelValues(string(format)).Inc()
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, c); err != nil {
			s.logger.Warnw("Failed to cache comparison", "key", key, "error", err)
		}
	}
	return c, nil
}

func (s *comparisonService) load(ctx context.Context, id string, format models.ScoringFormat) (side, error) {
	player, err := s.source.GetPlayer(ctx, id)
	if err != nil {
		return side{}, fmt.Errorf("player %s: %w", id, err)
	}
	proj, err := s.source.GetProjection(ctx, id)
	if err != nil {
		return side{}, fmt.Errorf("projection %s: %w", id, err)
	}

	out := side{player: *player, record: proj.Record}
	if s.samples != nil {
		// Samples are an enhancement; the record payload is the fallback.
		samples, err := s.samples.Samples(ctx, id, format)
		if err != nil {
			s.logger.Warnw("Failed to load raw samples", "player", id, "format", format, "error", err)
		} else {
			out.samples = samples
		}
	}
	return out, nil
}

// CacheKey identifies a comparison result. The data version is part of the
// key so a reload never serves stale output.
func CacheKey(version string, format models.ScoringFormat, viewport models.Viewport, a, b string) string {
	return strings.Join([]string{"compare", "v1", version, string(format), string(viewport), a, b}, ":")
}
