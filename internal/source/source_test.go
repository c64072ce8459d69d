package source

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cgdin/painel/internal/report"
)

const validCSV = "Projeto,Progresso,Status\nAlpha,50,Em andamento\nBeta,100,Concluído\nGamma,,Impedimento\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeXLSX(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
}

func newTestLoader(dir string, names ...string) *Loader {
	if len(names) == 0 {
		names = DefaultCandidates
	}
	return NewLoader(FileCandidates(dir, names), WithLogger(quietLogger()))
}

// ============================================================================
// Candidates
// ============================================================================

func TestFormatFor(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"dados.csv", FormatCSV},
		{"DADOS.CSV", FormatCSV},
		{"dados.xlsx", FormatXLSX},
		{"dados.xlsx.xlsx", FormatXLSX},
		{"dados.xls", FormatXLSX},
		{"dados.db", FormatSQLite},
		{"dados.sqlite", FormatSQLite},
		{"dados", FormatXLSX},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.name); got != tt.want {
			t.Errorf("FormatFor(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFileCandidates(t *testing.T) {
	got := FileCandidates("/data", []string{"dados.xlsx", " ", "/abs/dados.csv"})
	want := []Candidate{
		{Name: "dados.xlsx", Path: filepath.Join("/data", "dados.xlsx"), Format: FormatXLSX},
		{Name: "/abs/dados.csv", Path: "/abs/dados.csv", Format: FormatCSV},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FileCandidates() = %+v, want %+v", got, want)
	}
}

// ============================================================================
// CSV
// ============================================================================

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		wantCols []string
		wantRows int
		firstRow []string
	}{
		{
			name:     "plain",
			input:    []byte(validCSV),
			wantCols: []string{"Projeto", "Progresso", "Status"},
			wantRows: 3,
			firstRow: []string{"Alpha", "50", "Em andamento"},
		},
		{
			name:     "with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, validCSV...),
			wantCols: []string{"Projeto", "Progresso", "Status"},
			wantRows: 3,
			firstRow: []string{"Alpha", "50", "Em andamento"},
		},
		{
			name:     "semicolon delimited",
			input:    []byte("Projeto;Progresso;Status\nAlpha;50;Em andamento\n"),
			wantCols: []string{"Projeto", "Progresso", "Status"},
			wantRows: 1,
			firstRow: []string{"Alpha", "50", "Em andamento"},
		},
		{
			name:     "windows-1252",
			input:    []byte("Projeto,Progresso,Status\nBeta,100,Conclu\xeddo\n"),
			wantCols: []string{"Projeto", "Progresso", "Status"},
			wantRows: 1,
			firstRow: []string{"Beta", "100", "Concluído"},
		},
		{
			name:     "ragged rows",
			input:    []byte("Projeto,Progresso,Status\nAlpha\nBeta,1,X,extra\n"),
			wantCols: []string{"Projeto", "Progresso", "Status"},
			wantRows: 2,
			firstRow: []string{"Alpha", "", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ParseCSV(strings.NewReader(string(tt.input)))
			if err != nil {
				t.Fatalf("ParseCSV() error = %v", err)
			}
			if !reflect.DeepEqual(tbl.Columns, tt.wantCols) {
				t.Errorf("columns = %v, want %v", tbl.Columns, tt.wantCols)
			}
			if tbl.Len() != tt.wantRows {
				t.Fatalf("rows = %d, want %d", tbl.Len(), tt.wantRows)
			}
			if !reflect.DeepEqual(tbl.Rows[0], tt.firstRow) {
				t.Errorf("first row = %v, want %v", tbl.Rows[0], tt.firstRow)
			}
		})
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "  \n\n"},
		{"bad quotes", "Projeto,Progresso,Status\n\"Alpha,50,X\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ParseCSV() expected error")
			}
		})
	}
}

// ============================================================================
// XLSX / SQLite
// ============================================================================

func TestXLSXParser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dados.xlsx")
	writeXLSX(t, path, [][]any{
		{"Projeto", "Progresso", "Status"},
		{"Alpha", 50, "Em andamento"},
		{"Gamma", nil, nil},
	})

	tbl, err := XLSXParser{}.Parse(context.Background(), Candidate{Name: "dados.xlsx", Path: path, Format: FormatXLSX})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0][1]; got != "50" {
		t.Errorf("Alpha progress = %q, want %q", got, "50")
	}
	if got := tbl.Rows[1]; !reflect.DeepEqual(got, []string{"Gamma", "", ""}) {
		t.Errorf("Gamma row = %v", got)
	}
}

func TestXLSXParser_Corrupt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.xlsx", "this is not a zip archive")

	_, err := XLSXParser{}.Parse(context.Background(), Candidate{Name: "dados.xlsx", Path: filepath.Join(dir, "dados.xlsx")})
	if err == nil {
		t.Fatal("Parse() expected error for corrupt spreadsheet")
	}
}

func TestSQLiteParser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dados.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE projetos (Projeto TEXT, Progresso INTEGER, Status TEXT)`,
		`INSERT INTO projetos VALUES ('Alpha', 50, 'Em andamento'), ('Gamma', NULL, NULL)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("seed: %v", err)
		}
	}
	db.Close()

	c := Candidate{Name: "dados.db", Path: path, Format: FormatSQLite}
	tbl, err := SQLiteParser{}.Parse(context.Background(), c)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(tbl.Columns, []string{"Projeto", "Progresso", "Status"}) {
		t.Errorf("columns = %v", tbl.Columns)
	}
	if !reflect.DeepEqual(tbl.Rows, [][]string{{"Alpha", "50", "Em andamento"}, {"Gamma", "", ""}}) {
		t.Errorf("rows = %v", tbl.Rows)
	}

	if _, err := (SQLiteParser{Table: "x; DROP TABLE projetos"}).Parse(context.Background(), c); err == nil {
		t.Error("Parse() accepted an invalid table name")
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{int64(42), "42"},
		{int32(7), "7"},
		{float64(12.5), "12.5"},
		{true, "true"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		if got := formatCell(tt.in); got != tt.want {
			t.Errorf("formatCell(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ============================================================================
// Loader
// ============================================================================

func TestLoader_NoCandidatePresent(t *testing.T) {
	l := newTestLoader(t.TempDir())

	res, err := l.Load(context.Background())
	if res != nil {
		t.Errorf("Load() result = %+v, want nil", res)
	}
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Load() error = %v, want ErrNoData", err)
	}

	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected *NoDataError, got %T", err)
	}
	if len(noData.Attempts) != 0 {
		t.Errorf("attempts = %d, want 0", len(noData.Attempts))
	}
	if !strings.Contains(err.Error(), "dados.csv") {
		t.Errorf("error should list candidates: %v", err)
	}
}

func TestLoader_SkipsCorruptCandidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.xlsx", "corrupt")
	writeFile(t, dir, "dados.csv", validCSV)

	res, err := newTestLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Snapshot.Source != "dados.csv" {
		t.Errorf("source = %q, want dados.csv", res.Snapshot.Source)
	}
	if len(res.Attempts) != 1 || res.Attempts[0].Candidate.Name != "dados.xlsx" {
		t.Errorf("attempts = %+v, want one failure for dados.xlsx", res.Attempts)
	}

	recs := res.Snapshot.Table.Records()
	if len(recs) != 3 || recs[2].Progress != 0 {
		t.Errorf("records = %+v", recs)
	}
}

func TestLoader_FirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	writeXLSX(t, filepath.Join(dir, "dados.xlsx.xlsx"), [][]any{
		{"Projeto", "Progresso", "Status"},
		{"FromXLSX", 10, "Concluído"},
	})
	writeFile(t, dir, "dados.csv", validCSV)

	var csvCalls int
	l := NewLoader(FileCandidates(dir, DefaultCandidates),
		WithLogger(quietLogger()),
		WithParser(FormatCSV, ParserFunc(func(ctx context.Context, c Candidate) (*report.Table, error) {
			csvCalls++
			return CSVParser{}.Parse(ctx, c)
		})),
	)

	res, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Snapshot.Source != "dados.xlsx.xlsx" {
		t.Errorf("source = %q, want dados.xlsx.xlsx", res.Snapshot.Source)
	}
	if csvCalls != 0 {
		t.Errorf("csv parser called %d times after an earlier success", csvCalls)
	}
}

func TestLoader_WarnsOncePerDuplicateSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.xlsx", "not a workbook")
	writeFile(t, dir, "dados.csv", validCSV)

	var logs bytes.Buffer
	l := NewLoader(FileCandidates(dir, DefaultCandidates),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	warnings := func() int {
		return strings.Count(logs.String(), "multiple data files present")
	}

	for i := 0; i < 3; i++ {
		if _, err := l.Load(context.Background()); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}
	if n := warnings(); n != 1 {
		t.Fatalf("warnings after repeated loads = %d, want 1", n)
	}

	if err := os.Remove(filepath.Join(dir, "dados.xlsx")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	writeFile(t, dir, "dados.xlsx", "not a workbook")
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if n := warnings(); n != 2 {
		t.Errorf("warnings after the duplicate set came back = %d, want 2", n)
	}
}

func TestLoader_SchemaFailureFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.csv", "Nome,Andamento\nAlpha,10\n")

	_, err := newTestLoader(dir).Load(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Load() error = %v, want ErrNoData", err)
	}

	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected *NoDataError, got %T", err)
	}
	if len(noData.Attempts) != 1 || !errors.Is(noData.Attempts[0].Err, report.ErrSchema) {
		t.Errorf("attempt error should be a schema error: %+v", noData.Attempts)
	}
}

func TestLoader_AllFail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.xlsx", "corrupt")
	writeFile(t, dir, "dados.csv", "")

	_, err := newTestLoader(dir).Load(context.Background())
	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected *NoDataError, got %v", err)
	}
	if len(noData.Attempts) != 2 {
		t.Errorf("attempts = %d, want 2", len(noData.Attempts))
	}
	if !errors.Is(noData.Attempts[1].Err, ErrEmptyFile) {
		t.Errorf("csv attempt error = %v, want ErrEmptyFile", noData.Attempts[1].Err)
	}
}

func TestLoader_UnknownFormat(t *testing.T) {
	l := NewLoader([]Candidate{PostgresCandidate()}, WithLogger(quietLogger()))

	_, err := l.Load(context.Background())
	var noData *NoDataError
	if !errors.As(err, &noData) || len(noData.Attempts) != 1 {
		t.Fatalf("expected one failed attempt, got %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.csv", validCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(dir).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

// ============================================================================
// Cache
// ============================================================================

func TestCache_Fresh(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &Cache{LoadedAt: base}

	if !c.Fresh(base.Add(time.Second), 2*time.Second) {
		t.Error("cache should be fresh after 1s")
	}
	if c.Fresh(base.Add(2*time.Second), 2*time.Second) {
		t.Error("cache should be stale at exactly the TTL")
	}

	var nilCache *Cache
	if nilCache.Fresh(base, time.Hour) {
		t.Error("nil cache should never be fresh")
	}
}

func TestCachedLoader_TTL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dados.csv", validCSV)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cl := NewCachedLoader(newTestLoader(dir), 2*time.Second)
	cl.SetClock(func() time.Time { return now })

	first, err := cl.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// Removing the file inside the window must not be noticed.
	os.Remove(filepath.Join(dir, "dados.csv"))
	now = now.Add(time.Second)

	second, err := cl.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("cached Snapshot() error = %v", err)
	}
	if second != first {
		t.Error("expected the cached snapshot within the TTL")
	}
	if cl.Loads() != 1 {
		t.Errorf("loads = %d, want 1", cl.Loads())
	}

	now = now.Add(2 * time.Second)
	if _, err := cl.Snapshot(context.Background()); !errors.Is(err, ErrNoData) {
		t.Errorf("expired Snapshot() error = %v, want ErrNoData", err)
	}
	if cl.Loads() != 2 {
		t.Errorf("loads = %d, want 2", cl.Loads())
	}
}

func TestCachedLoader_CachesNoData(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cl := NewCachedLoader(newTestLoader(dir), 0)
	cl.SetClock(func() time.Time { return now })

	if _, err := cl.Snapshot(context.Background()); !errors.Is(err, ErrNoData) {
		t.Fatalf("Snapshot() error = %v, want ErrNoData", err)
	}

	writeFile(t, dir, "dados.csv", validCSV)
	if _, err := cl.Snapshot(context.Background()); !errors.Is(err, ErrNoData) {
		t.Errorf("no-data outcome should be cached, got %v", err)
	}

	cl.Invalidate()
	if _, err := cl.Snapshot(context.Background()); err != nil {
		t.Errorf("Snapshot() after Invalidate error = %v", err)
	}
}
