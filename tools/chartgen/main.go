// Command chartgen renders a two-player cumulative distribution comparison
// from the projections CSV as an SVG.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridiron-tools/compare-api/internal/config"
	"github.com/gridiron-tools/compare-api/internal/ingest"
	"github.com/gridiron-tools/compare-api/internal/logic"
	"github.com/gridiron-tools/compare-api/internal/models"
	"github.com/gridiron-tools/compare-api/internal/store"
)

func main() {
	csvPath := flag.String("csv", "table_setup.csv", "projections table")
	a := flag.String("a", "", "player A id")
	b := flag.String("b", "", "player B id")
	format := flag.String("format", "full_ppr", "scoring format")
	viewport := flag.String("viewport", "", "viewport class (narrow, medium, wide)")
	out := flag.String("out", "comparison.svg", "output file")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	sugar := logger.Sugar()

	if *a == "" || *b == "" {
		sugar.Fatal("both -a and -b are required")
	}

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("Failed to load config", "error", err)
	}
	f, err := logic.ParseFormat(*format)
	if err != nil {
		sugar.Fatalw("Invalid format", "error", err)
	}

	table, err := ingest.LoadFile(*csvPath)
	if err != nil {
		sugar.Fatalw("Failed to load table", "path", *csvPath, "error", err)
	}
	mem := store.NewMemoryStore()
	mem.Replace(table.Players, table.Projections, uuid.New().String())

	engine, err := logic.NewEngine(cfg.Chart.EngineOptions())
	if err != nil {
		sugar.Fatalw("Failed to build engine", "error", err)
	}
	svc := logic.NewComparisonService(engine, mem, nil, nil, logger)

	cmp, err := svc.Compare(context.Background(), *a, *b, f, models.Viewport(*viewport))
	if err != nil {
		sugar.Fatalw("Comparison failed", "a", *a, "b", *b, "error", err)
	}

	file, err := os.Create(*out)
	if err != nil {
		sugar.Fatalw("Failed to create output", "path", *out, "error", err)
	}
	defer file.Close()

	if err := renderSVG(cmp, file); err != nil {
		sugar.Fatalw("Failed to render chart", "error", err)
	}
	sugar.Infow("Chart written", "path", *out, "rows", len(cmp.Chart.Rows))
}
