// Package ingest turns the projections CSV table into players and raw
// projection records.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/gridiron-tools/compare-api/internal/logic"
	"github.com/gridiron-tools/compare-api/internal/models"
)

// ErrMissingPlayerColumn is returned when the table has no "player" column.
var ErrMissingPlayerColumn = errors.New("table must include a 'player' column")

// Column fallbacks, first present wins.
var (
	teamColumns     = []string{"team", "Team"}
	positionColumns = []string{"position", "Pos", "Position"}
	pprColumns      = []string{"total_score_full_ppr", "ppr"}
	medianColumns   = []string{"total_score_full_ppr_median", "median", "p50"}
	ceilingAltCols  = []string{"p95", "p90", "total_score_full_ppr_p95", "total_score_full_ppr_p90", "total_score_full_ppr_max"}
)

const (
	playerColumn      = "player"
	ceilingColumn     = "ceiling"
	ceilingHistColumn = "chart_source_full_ppr"
	chartPrefix       = "chart_source_"
	ceilingPercentile = 90
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Table is one load of the projections CSV.
type Table struct {
	Players     []models.Player
	Projections []models.Projection
}

// LoadFile reads and parses the table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// ModTime returns the table's modification time. Empty files are reported
// as missing.
func ModTime(path string) (time.Time, error) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if st.Size() == 0 {
		return time.Time{}, fmt.Errorf("table %s is empty", path)
	}
	return st.ModTime(), nil
}

// LoadTable parses the CSV table. Players are sorted by name; projections
// keep table order. Each projection record lists id, ppr, median and ceiling
// first, then every other column in header order.
func LoadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty table: %w", ErrMissingPlayerColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	if _, ok := cols[playerColumn]; !ok {
		return nil, ErrMissingPlayerColumn
	}

	l := &loader{
		header: header,
		cols:   cols,
		team:   firstColumn(cols, teamColumns),
		pos:    firstColumn(cols, positionColumns),
		ppr:    firstColumn(cols, pprColumns),
		median: firstColumn(cols, medianColumns),
		seen:   make(map[string]bool),
	}
	if _, ok := cols[ceilingColumn]; ok {
		l.ceiling = ceilingColumn
	} else {
		l.ceilingAlt = firstColumn(cols, ceilingAltCols)
		if _, ok := cols[ceilingHistColumn]; ok {
			l.ceilingHist = ceilingHistColumn
		}
	}

	t := &Table{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		player, proj, ok := l.row(row)
		if !ok {
			continue
		}
		t.Players = append(t.Players, player)
		t.Projections = append(t.Projections, proj)
	}

	sort.SliceStable(t.Players, func(i, j int) bool { return t.Players[i].Name < t.Players[j].Name })
	return t, nil
}

type loader struct {
	header []string
	cols   map[string]int

	team, pos, ppr, median, ceiling string
	ceilingAlt, ceilingHist         string

	seen map[string]bool
}

func (l *loader) cell(row []string, col string) string {
	if col == "" {
		return ""
	}
	i, ok := l.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (l *loader) row(row []string) (models.Player, models.Projection, bool) {
	name := l.cell(row, playerColumn)
	if name == "" {
		return models.Player{}, models.Projection{}, false
	}
	id := l.uniqueID(Slugify(name))

	player := models.Player{
		ID:       id,
		Name:     name,
		Team:     l.cell(row, l.team),
		Position: l.cell(row, l.pos),
	}

	rec := newRecordWriter()
	rec.field("id", id)
	if l.ppr != "" {
		rec.field("ppr", numberOrNil(l.cell(row, l.ppr)))
	}
	if l.median != "" {
		rec.field("median", numberOrNil(l.cell(row, l.median)))
	}
	if c, ok := l.ceilingValue(row); ok {
		rec.field("ceiling", c)
	}

	reserved := map[string]bool{
		playerColumn: true, l.team: true, l.pos: true,
		"id": true, "ppr": true, "median": true, "ceiling": true,
	}
	for _, h := range l.header {
		if h == "" || reserved[h] {
			continue
		}
		reserved[h] = true
		rec.field(h, cellValue(h, l.cell(row, h)))
	}

	return player, models.Projection{ID: id, Record: rec.bytes()}, true
}

// ceilingValue prefers an explicit ceiling column, then the first histogram
// bin reaching 90 percent of full PPR mass, then the first percentile-style
// column.
func (l *loader) ceilingValue(row []string) (any, bool) {
	if l.ceiling != "" {
		return numberOrNil(l.cell(row, l.ceiling)), true
	}
	if l.ceilingHist != "" {
		payload := gjson.Result{Type: gjson.String, Str: l.cell(row, l.ceilingHist)}
		if d := logic.BuildDistribution(payload, logic.DistributionOptions{}); d != nil {
			if x, ok := logic.StepPercentile(d.Points, ceilingPercentile); ok {
				return x, true
			}
		}
	}
	if l.ceilingAlt != "" {
		return numberOrNil(l.cell(row, l.ceilingAlt)), true
	}
	if l.ceilingHist != "" {
		return nil, true
	}
	return nil, false
}

func (l *loader) uniqueID(base string) string {
	id := base
	for i := 2; l.seen[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	l.seen[id] = true
	return id
}

// Slugify makes a stable, URL-safe id from a player name,
// e.g. "Patrick Mahomes" -> "patrick-mahomes".
func Slugify(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "player"
	}
	return s
}

func firstColumn(cols map[string]int, candidates []string) string {
	for _, c := range candidates {
		if _, ok := cols[c]; ok {
			return c
		}
	}
	return ""
}

func numberOrNil(s string) any {
	if f, ok := models.ParseFloat(s); ok {
		return f
	}
	return nil
}

// cellValue keeps histogram columns as text for the distribution builder and
// coerces everything else: numbers to numbers, blanks and NaN to null.
func cellValue(col, s string) any {
	if strings.HasPrefix(col, chartPrefix) {
		if s == "" {
			return nil
		}
		return s
	}
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	if f, ok := models.ParseFloat(s); ok {
		return f
	}
	return s
}

// recordWriter emits a JSON object with keys in insertion order.
type recordWriter struct {
	buf bytes.Buffer
	n   int
}

func newRecordWriter() *recordWriter {
	w := &recordWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *recordWriter) field(key string, v any) {
	k, _ := json.Marshal(key)
	val, err := json.Marshal(v)
	if err != nil {
		val = []byte("null")
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(val)
	w.n++
}

func (w *recordWriter) bytes() models.Record {
	w.buf.WriteByte('}')
	return models.Record(w.buf.Bytes())
}
