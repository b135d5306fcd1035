package logic

import (
	"context"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// ComparisonService compares two players under one scoring format.
type ComparisonService interface {
	Compare(ctx context.Context, a, b string, format models.ScoringFormat, viewport models.Viewport) (*models.Comparison, error)
}

// ProjectionSource supplies players and their raw projection records.
type ProjectionSource interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListProjections(ctx context.Context) ([]models.Projection, error)
	GetProjection(ctx context.Context, id string) (*models.Projection, error)
	// Version identifies the current data snapshot; it changes on reload.
	Version() string
}

// SampleSource supplies raw simulation outcomes kept outside the record.
type SampleSource interface {
	Samples(ctx context.Context, playerID string, format models.ScoringFormat) ([]float64, error)
}

// ComparisonCache memoizes comparison results.
type ComparisonCache interface {
	Get(ctx context.Context, key string) (*models.Comparison, bool)
	Set(ctx context.Context, key string, c *models.Comparison) error
}
