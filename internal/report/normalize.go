package report

// normalize.go coerces the two columns the dashboard depends on.
//
// Progress values arrive as whatever the spreadsheet held: integers, floats
// written by Excel ("75.0"), blanks, or free text ("em breve"). Anything that
// is not a finite number becomes 0; floats are truncated toward zero.

import (
	"math"
	"strconv"
	"strings"
)

// Normalize validates the schema and returns a copy of t with Progresso
// coerced to integers and blank Status cells filled with StatusUndetermined.
func Normalize(t *Table) (*Table, error) {
	trimmed := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		trimmed[i] = strings.TrimSpace(c)
	}
	if err := ValidateSchema(trimmed); err != nil {
		return nil, err
	}

	out := NewTable(trimmed, t.Rows)
	progIdx := out.Index(ColumnProgress)
	statusIdx := out.Index(ColumnStatus)

	for _, row := range out.Rows {
		row[progIdx] = strconv.Itoa(CoerceProgress(row[progIdx]))
		if strings.TrimSpace(row[statusIdx]) == "" {
			row[statusIdx] = StatusUndetermined
		}
	}
	return out, nil
}

// CoerceProgress converts a raw cell to an integer, returning 0 for blank or
// unparseable input.
func CoerceProgress(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
