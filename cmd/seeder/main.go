// Command seeder exports the projections CSV as JSON files and, when a
// Postgres URL is given, loads it into the tables the postgres source reads.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gridiron-tools/compare-api/internal/ingest"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id       text PRIMARY KEY,
	name     text NOT NULL,
	team     text,
	position text
);
CREATE TABLE IF NOT EXISTS projections (
	player_id  text PRIMARY KEY REFERENCES players (id) ON DELETE CASCADE,
	record     json NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

func main() {
	csvPath := flag.String("csv", "table_setup.csv", "projections table")
	outDir := flag.String("out", "data", "output directory for players.json and projections/")
	pgURL := flag.String("postgres", os.Getenv("POSTGRES_URL"), "optional Postgres URL to load")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	sugar := logger.Sugar()

	table, err := ingest.LoadFile(*csvPath)
	if err != nil {
		sugar.Fatalw("Failed to load table", "path", *csvPath, "error", err)
	}

	if *outDir != "" {
		if err := writeJSON(*outDir, table); err != nil {
			sugar.Fatalw("Failed to write JSON export", "dir", *outDir, "error", err)
		}
		sugar.Infow("Wrote JSON export",
			"players", filepath.Join(*outDir, "players.json"),
			"projections", filepath.Join(*outDir, "projections", "<id>.json"),
			"count", len(table.Players),
		)
	}

	if *pgURL != "" {
		ctx := context.Background()
		if err := seedPostgres(ctx, *pgURL, table); err != nil {
			sugar.Fatalw("Failed to seed postgres", "error", err)
		}
		sugar.Infow("Seeded postgres", "players", len(table.Players))
	}
}

func writeJSON(dir string, table *ingest.Table) error {
	projDir := filepath.Join(dir, "projections")
	if err := os.MkdirAll(projDir, 0o755); err != nil {
		return err
	}

	players, err := json.MarshalIndent(table.Players, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "players.json"), players, 0o644); err != nil {
		return err
	}

	for _, p := range table.Projections {
		// Indent keeps the record's key order.
		var buf bytes.Buffer
		if err := json.Indent(&buf, p.Record, "", "  "); err != nil {
			return fmt.Errorf("indent %s: %w", p.ID, err)
		}
		if err := os.WriteFile(filepath.Join(projDir, p.ID+".json"), buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func seedPostgres(ctx context.Context, url string, table *ingest.Table) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM players`)
	for _, p := range table.Players {
		batch.Queue(`INSERT INTO players (id, name, team, position) VALUES ($1, $2, $3, $4)`,
			p.ID, p.Name, p.Team, p.Position)
	}
	for _, p := range table.Projections {
		batch.Queue(`INSERT INTO projections (player_id, record) VALUES ($1, $2::json)`,
			p.ID, string(p.Record))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	return tx.Commit(ctx)
}
