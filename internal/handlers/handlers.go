package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gridiron-tools/compare-api/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// TableReloader reloads the projection table on demand
type TableReloader interface {
	Reload(ctx context.Context) (bool, error)
	Version() string
}

// HealthCheck pings one collaborator
type HealthCheck func(ctx context.Context) error

type Config struct {
	Source   logic.ProjectionSource
	Compare  logic.ComparisonService
	Reloader TableReloader // nil when the source cannot be reloaded
	Checks   map[string]HealthCheck
	Logger   *zap.Logger
}

type Handler struct {
	source    logic.ProjectionSource
	compare   logic.ComparisonService
	reloader  TableReloader
	checks    map[string]HealthCheck
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	return &Handler{
		source:    cfg.Source,
		compare:   cfg.Compare,
		reloader:  cfg.Reloader,
		checks:    cfg.Checks,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
	}
}
