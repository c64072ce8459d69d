package report

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Required column names as they appear in the source spreadsheet.
const (
	ColumnProject  = "Projeto"
	ColumnProgress = "Progresso"
	ColumnStatus   = "Status"
)

// Status labels with special meaning on the dashboard.
const (
	StatusCompleted    = "Concluído"
	StatusInProgress   = "Em andamento"
	StatusBlocked      = "Impedimento"
	StatusUndetermined = "A definir"
)

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{ColumnProject, ColumnProgress, ColumnStatus}

// Table is an ordered set of columns and string rows.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Record is the typed view of one project row.
type Record struct {
	Name     string
	Progress int
	Status   string
}

// NewTable builds a table from a header and raw rows. Rows shorter than the
// header are padded with empty cells, longer rows are truncated.
func NewTable(columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(cols))
		copy(cells, row)
		out = append(out, cells)
	}
	return &Table{Columns: cols, Rows: out}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of a column, or -1 if absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Records returns the typed view of every row. The table must have been
// normalized; unparseable progress values read as 0.
func (t *Table) Records() []Record {
	if t.Len() == 0 {
		return nil
	}
	nameIdx := t.Index(ColumnProject)
	progIdx := t.Index(ColumnProgress)
	statusIdx := t.Index(ColumnStatus)

	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		var rec Record
		if nameIdx >= 0 {
			rec.Name = row[nameIdx]
		}
		if progIdx >= 0 {
			rec.Progress, _ = strconv.Atoi(row[progIdx])
		}
		if statusIdx >= 0 {
			rec.Status = row[statusIdx]
		}
		records[i] = rec
	}
	return records
}

// emptyLike returns a table with the same columns and no rows.
func (t *Table) emptyLike() *Table {
	return NewTable(t.Columns, nil)
}

// Snapshot is a normalized table as loaded from one source at one moment.
type Snapshot struct {
	ID       uuid.UUID
	Table    *Table
	Source   string
	LoadedAt time.Time
}

// NewSnapshot tags a table with a fresh ID.
func NewSnapshot(t *Table, source string, loadedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:       uuid.New(),
		Table:    t,
		Source:   source,
		LoadedAt: loadedAt,
	}
}
