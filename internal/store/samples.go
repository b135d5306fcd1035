package store

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// DefaultSampleLimit caps how many simulation outcomes are read per player.
const DefaultSampleLimit = 20000

// SampleStore reads raw simulation outcomes from ClickHouse.
type SampleStore struct {
	ch    driver.Conn
	limit int
}

func NewSampleStore(ch driver.Conn, limit int) *SampleStore {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	return &SampleStore{ch: ch, limit: limit}
}

// Samples returns the outcomes of the latest simulation run for a player.
// An empty result is not an error.
func (s *SampleStore) Samples(ctx context.Context, playerID string, format models.ScoringFormat) ([]float64, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT points
		FROM projection_samples
		WHERE player_id = ? AND scoring_format = ?
		  AND run_id = (
			SELECT argMax(run_id, created_at)
			FROM projection_samples
			WHERE player_id = ? AND scoring_format = ?
		  )
		LIMIT ?
	`, playerID, string(format), playerID, string(format), s.limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	samples := make([]float64, 0)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, v)
	}
	return samples, rows.Err()
}
