// Package store holds the read-side collaborators that feed the comparison
// engine: projection records, raw simulation samples and the result cache.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a player or projection does not exist.
var ErrNotFound = errors.New("not found")

// PgPool is the read subset of *pgxpool.Pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}
