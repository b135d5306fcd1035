package store

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPgRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockRow{}
}

type MockRow struct {
	ScanFunc func(dest ...any) error
}

func (m *MockRow) Scan(dest ...any) error {
	if m.ScanFunc != nil {
		return m.ScanFunc(dest...)
	}
	return nil
}

// MockPgRows yields Data one row at a time, assigning strings positionally.
type MockPgRows struct {
	pgx.Rows
	Data  [][]string
	index int
}

func (m *MockPgRows) Next() bool {
	m.index++
	return m.index <= len(m.Data)
}

func (m *MockPgRows) Scan(dest ...any) error {
	row := m.Data[m.index-1]
	for i, d := range dest {
		*(d.(*string)) = row[i]
	}
	return nil
}

func (m *MockPgRows) Close()     {}
func (m *MockPgRows) Err() error { return nil }

type MockClickHouseConn struct {
	driver.Conn
	QueryFunc func(ctx context.Context, query string, args ...interface{}) (driver.Rows, error)
}

func (m *MockClickHouseConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, query, args...)
	}
	return &MockCHRows{}, nil
}

type MockCHRows struct {
	driver.Rows
	Values []float64
	index  int
}

func (m *MockCHRows) Next() bool {
	m.index++
	return m.index <= len(m.Values)
}

func (m *MockCHRows) Scan(dest ...interface{}) error {
	*(dest[0].(*float64)) = m.Values[m.index-1]
	return nil
}

func (m *MockCHRows) Close() error { return nil }
func (m *MockCHRows) Err() error   { return nil }

type MockRedisClient struct {
	GetFunc func(ctx context.Context, key string) *redis.StringCmd
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return redis.NewStatusResult("OK", nil)
}
