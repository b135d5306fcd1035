package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gridiron-tools/compare-api/internal/logic"
	"github.com/gridiron-tools/compare-api/internal/models"
)

// Projection sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type Config struct {
	// Server
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://127.0.0.1:5173,http://localhost:5173" envSeparator:","`

	// Projection source
	ProjectionsSource string `env:"PROJECTIONS_SOURCE" envDefault:"csv"`
	TableCSV          string `env:"TABLE_CSV" envDefault:"table_setup.csv"`

	// Database URLs. Postgres is required for the postgres source; ClickHouse
	// and Redis are optional.
	PostgresURL   string `env:"POSTGRES_URL"`
	ClickHouseURL string `env:"CLICKHOUSE_URL"`
	RedisURL      string `env:"REDIS_URL"`

	// Worker
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL" envDefault:"5s"`
	SampleLimit    int           `env:"SAMPLE_LIMIT" envDefault:"20000"`

	// Cache
	CompareCacheTTL time.Duration `env:"COMPARE_CACHE_TTL" envDefault:"10m"`

	// Chart
	Chart ChartConfig `envPrefix:"CHART_"`
}

// ChartConfig holds the merge window and axis rules.
type ChartConfig struct {
	XCeiling   float64 `env:"X_CEILING" envDefault:"30"`
	XStep      float64 `env:"X_STEP" envDefault:"2"`
	XBuffer    float64 `env:"X_BUFFER" envDefault:"2"`
	XMinDomain float64 `env:"X_MIN_DOMAIN" envDefault:"10"`
	YCeiling   float64 `env:"Y_CEILING" envDefault:"20"`
	YStep      float64 `env:"Y_STEP" envDefault:"10"`
	YTick      float64 `env:"Y_TICK" envDefault:"2"`
	Negligible float64 `env:"NEGLIGIBLE" envDefault:"0.1"`
	TrimTails  bool    `env:"TRIM_TAILS" envDefault:"false"`
	Viewport   string  `env:"VIEWPORT" envDefault:"medium"`
}

// EngineOptions converts the chart settings into engine options. The merge
// window spans [0, XCeiling].
func (c ChartConfig) EngineOptions() logic.EngineOptions {
	opts := logic.DefaultEngineOptions()
	opts.Axis.XCeiling = c.XCeiling
	opts.Axis.XStep = c.XStep
	opts.Axis.XBuffer = c.XBuffer
	opts.Axis.XMinDomain = c.XMinDomain
	opts.Axis.YCeiling = c.YCeiling
	opts.Axis.YStep = c.YStep
	opts.Axis.YTick = c.YTick
	opts.Axis.NegligibleThreshold = c.Negligible
	opts.Axis.Viewport = models.Viewport(c.Viewport)
	opts.Merge = logic.MergeOptions{
		Window:              &logic.Window{Min: 0, Max: c.XCeiling},
		TrimNegligible:      c.TrimTails,
		NegligibleThreshold: c.Negligible,
	}
	return opts
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.AllowedOrigins = origins

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.ProjectionsSource {
	case SourceCSV:
		if c.TableCSV == "" {
			return errors.New("missing required environment variable: TABLE_CSV")
		}
	case SourcePostgres:
		if c.PostgresURL == "" {
			return errors.New("missing required environment variable: POSTGRES_URL")
		}
	default:
		return fmt.Errorf("invalid PROJECTIONS_SOURCE %q: want csv or postgres", c.ProjectionsSource)
	}

	if c.ReloadInterval <= 0 {
		return errors.New("RELOAD_INTERVAL must be positive")
	}
	if c.Chart.XStep <= 0 || c.Chart.YStep <= 0 || c.Chart.YTick <= 0 {
		return errors.New("chart steps must be positive")
	}
	if c.Chart.XCeiling < c.Chart.XStep {
		return fmt.Errorf("CHART_X_CEILING %v is below CHART_X_STEP %v", c.Chart.XCeiling, c.Chart.XStep)
	}
	switch c.Chart.Viewport {
	case "narrow", "medium", "wide":
	default:
		return fmt.Errorf("invalid CHART_VIEWPORT %q", c.Chart.Viewport)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
