package handlers

import (
	"context"

	"github.com/gridiron-tools/compare-api/internal/models"
	"github.com/gridiron-tools/compare-api/internal/store"
)

// MockProjectionSource
type MockProjectionSource struct {
	ListPlayersFunc     func(ctx context.Context) ([]models.Player, error)
	GetPlayerFunc       func(ctx context.Context, id string) (*models.Player, error)
	ListProjectionsFunc func(ctx context.Context) ([]models.Projection, error)
	GetProjectionFunc   func(ctx context.Context, id string) (*models.Projection, error)
	VersionValue        string
}

func (m *MockProjectionSource) ListPlayers(ctx context.Context) ([]models.Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *MockProjectionSource) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *MockProjectionSource) ListProjections(ctx context.Context) ([]models.Projection, error) {
	if m.ListProjectionsFunc != nil {
		return m.ListProjectionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockProjectionSource) GetProjection(ctx context.Context, id string) (*models.Projection, error) {
	if m.GetProjectionFunc != nil {
		return m.GetProjectionFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *MockProjectionSource) Version() string { return m.VersionValue }

// MockComparisonService
type MockComparisonService struct {
	CompareFunc func(ctx context.Context, a, b string, format models.ScoringFormat, viewport models.Viewport) (*models.Comparison, error)
}

func (m *MockComparisonService) Compare(ctx context.Context, a, b string, format models.ScoringFormat, viewport models.Viewport) (*models.Comparison, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, a, b, format, viewport)
	}
	return &models.Comparison{Format: format, Viewport: viewport}, nil
}

// MockReloader
type MockReloader struct {
	ReloadFunc   func(ctx context.Context) (bool, error)
	VersionValue string
}

func (m *MockReloader) Reload(ctx context.Context) (bool, error) {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return false, nil
}

func (m *MockReloader) Version() string { return m.VersionValue }
