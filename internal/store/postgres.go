package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// PostgresStore reads players and projection records maintained by an
// upstream loader. Records are stored as json (not jsonb) so key order
// survives.
type PostgresStore struct {
	pg PgPool

	mu      sync.RWMutex
	version string
}

func NewPostgresStore(pg PgPool) *PostgresStore {
	return &PostgresStore{pg: pg, version: "postgres"}
}

// Refresh reads the snapshot marker so cached comparisons roll over when the
// upstream loader publishes new rows.
func (s *PostgresStore) Refresh(ctx context.Context) error {
	var stamp string
	err := s.pg.QueryRow(ctx, `SELECT coalesce(max(updated_at)::text, '') FROM projections`).Scan(&stamp)
	if err != nil {
		return fmt.Errorf("read projections version: %w", err)
	}
	s.mu.Lock()
	s.version = "postgres:" + stamp
	s.mu.Unlock()
	return nil
}

func (s *PostgresStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT id, name, coalesce(team, ''), coalesce(position, '')
		FROM players
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Team, &p.Position); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var p models.Player
	err := s.pg.QueryRow(ctx, `
		SELECT id, name, coalesce(team, ''), coalesce(position, '')
		FROM players
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Team, &p.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresStore) ListProjections(ctx context.Context) ([]models.Projection, error) {
	rows, err := s.pg.Query(ctx, `SELECT player_id, record::text FROM projections ORDER BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("list projections: %w", err)
	}
	defer rows.Close()

	projections := make([]models.Projection, 0)
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		projections = append(projections, models.Projection{ID: id, Record: models.Record(record)})
	}
	return projections, rows.Err()
}

func (s *PostgresStore) GetProjection(ctx context.Context, id string) (*models.Projection, error) {
	var record string
	err := s.pg.QueryRow(ctx, `SELECT record::text FROM projections WHERE player_id = $1`, id).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get projection %s: %w", id, err)
	}
	return &models.Projection{ID: id, Record: models.Record(record)}, nil
}

func (s *PostgresStore) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
