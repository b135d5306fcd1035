package ingest

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

const sampleCSV = "\ufeffplayer,team,Pos,total_score_full_ppr,total_score_full_ppr_median,pass_yds,rush_td,chart_source_full_ppr\n" +
	`Josh Allen,BUF,QB,24.6,23.9,251.5,0.6,"[{""pts"":0,""pct"":0},{""pts"":20,""pct"":50},{""pts"":40,""pct"":100}]"` + "\n" +
	`Jalen Hurts,PHI,QB,23.8,,221,NaN,` + "\n" +
	`josh allen,FA,QB,1,1,1,1,` + "\n" +
	`,,,,,,,` + "\n"

func TestLoadTable(t *testing.T) {
	tbl, err := LoadTable(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	if len(tbl.Players) != 3 || len(tbl.Projections) != 3 {
		t.Fatalf("got %d players, %d projections", len(tbl.Players), len(tbl.Projections))
	}

	// Players sort by name; projections keep table order.
	wantNames := []string{"Jalen Hurts", "Josh Allen", "josh allen"}
	for i, n := range wantNames {
		if tbl.Players[i].Name != n {
			t.Errorf("player %d = %q, want %q", i, tbl.Players[i].Name, n)
		}
	}
	wantIDs := []string{"josh-allen", "jalen-hurts", "josh-allen-2"}
	for i, id := range wantIDs {
		if tbl.Projections[i].ID != id {
			t.Errorf("projection %d id = %q, want %q", i, tbl.Projections[i].ID, id)
		}
	}

	allen := tbl.Players[1]
	if allen.Team != "BUF" || allen.Position != "QB" {
		t.Errorf("allen = %+v", allen)
	}
}

func TestLoadTable_RecordShape(t *testing.T) {
	tbl, err := LoadTable(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	rec := gjson.ParseBytes(tbl.Projections[0].Record)
	var keys []string
	rec.ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	want := []string{"id", "ppr", "median", "ceiling", "total_score_full_ppr", "total_score_full_ppr_median", "pass_yds", "rush_td", "chart_source_full_ppr"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	if rec.Get("ppr").Float() != 24.6 || rec.Get("median").Float() != 23.9 {
		t.Errorf("ppr/median = %v", rec.Raw)
	}
	// First histogram point reaching 90 percent.
	if c := rec.Get("ceiling").Float(); math.Abs(c-40) > 1e-9 {
		t.Errorf("ceiling = %v, want 40", c)
	}
	if h := rec.Get("chart_source_full_ppr"); h.Type != gjson.String || !strings.HasPrefix(h.Str, "[{") {
		t.Errorf("histogram should stay text, got %s", h.Raw)
	}

	hurts := gjson.ParseBytes(tbl.Projections[1].Record)
	for _, k := range []string{"median", "ceiling", "rush_td", "chart_source_full_ppr"} {
		if v := hurts.Get(k); !v.Exists() || v.Type != gjson.Null {
			t.Errorf("%s should be null, got %s", k, v.Raw)
		}
	}
	if hurts.Get("pass_yds").Float() != 221 {
		t.Errorf("pass_yds = %s", hurts.Get("pass_yds").Raw)
	}
}

func TestLoadTable_ExplicitCeiling(t *testing.T) {
	csv := "player,ppr,ceiling,p95\nJosh Allen,24,31.5,40\n"
	tbl, err := LoadTable(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	rec := gjson.ParseBytes(tbl.Projections[0].Record)
	if rec.Get("ceiling").Float() != 31.5 {
		t.Errorf("explicit ceiling should win, got %s", rec.Raw)
	}
}

func TestLoadTable_CeilingFromHistogramBins(t *testing.T) {
	csv := "player,ppr,chart_source_full_ppr\n" +
		`Josh Allen,24,"[{""pts"":10,""pct"":20},{""pts"":20,""pct"":50},{""pts"":30,""pct"":30}]"` + "\n"
	tbl, err := LoadTable(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	rec := gjson.ParseBytes(tbl.Projections[0].Record)
	// Running mass 20, 70, 100: the 30 point bin is the first to reach 90.
	if c := rec.Get("ceiling").Float(); c != 30 {
		t.Errorf("ceiling = %v, want 30", c)
	}
}

func TestLoadTable_CeilingFallbackColumn(t *testing.T) {
	csv := "player,ppr,p90\nJosh Allen,24,33\n"
	tbl, err := LoadTable(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	rec := gjson.ParseBytes(tbl.Projections[0].Record)
	if rec.Get("ceiling").Float() != 33 {
		t.Errorf("ceiling = %s", rec.Get("ceiling").Raw)
	}
}

func TestLoadTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"no player column", "name,ppr\nJosh Allen,24\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(tt.csv))
			if !errors.Is(err, ErrMissingPlayerColumn) {
				t.Errorf("expected ErrMissingPlayerColumn, got %v", err)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Patrick Mahomes", "patrick-mahomes"},
		{"  Ja'Marr Chase ", "ja-marr-chase"},
		{"D.J. Moore", "d-j-moore"},
		{"Amon-Ra St. Brown", "amon-ra-st-brown"},
		{"!!!", "player"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadFileAndModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projections.csv")

	if _, err := ModTime(path); err == nil {
		t.Error("expected error for missing file")
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ModTime(path); err == nil {
		t.Error("expected error for empty file")
	}

	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ModTime(path); err != nil {
		t.Errorf("ModTime: %v", err)
	}
	tbl, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(tbl.Players) != 3 {
		t.Errorf("got %d players", len(tbl.Players))
	}
}
