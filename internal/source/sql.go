package source

// sql.go reads the table from a database instead of a file: a SQLite file
// dropped next to the spreadsheets, or a PostgreSQL query when DATABASE_URL
// is configured. Both produce the same string-celled report.Table as the
// file parsers; NULLs become empty cells and are normalized later.

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/cgdin/painel/internal/report"
)

// DefaultSQLiteTable is read when no table name is configured.
const DefaultSQLiteTable = "projetos"

// DefaultPostgresQuery is run when no query is configured.
const DefaultPostgresQuery = `SELECT "Projeto", "Progresso", "Status" FROM projetos`

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteParser reads every row of one table from a SQLite file.
// The file is stat-ed by the loader first, so Open never creates one.
type SQLiteParser struct {
	Table string
}

// Parse implements Parser.
func (p SQLiteParser) Parse(ctx context.Context, c Candidate) (*report.Table, error) {
	table := p.Table
	if table == "" {
		table = DefaultSQLiteTable
	}
	if !identRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", table)
	}

	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", c.Name, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		record := make([]string, len(columns))
		for i, cell := range cells {
			if cell.Valid {
				record[i] = cell.String
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report.NewTable(columns, records), nil
}

// PostgresParser runs a query against a pgx pool.
type PostgresParser struct {
	Pool  *pgxpool.Pool
	Query string
}

// Parse implements Parser.
func (p PostgresParser) Parse(ctx context.Context, c Candidate) (*report.Table, error) {
	if p.Pool == nil {
		return nil, fmt.Errorf("postgres source not configured")
	}
	query := p.Query
	if query == "" {
		query = DefaultPostgresQuery
	}

	rows, err := p.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query postgres: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var records [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read postgres row: %w", err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatCell(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query postgres: %w", err)
	}

	return report.NewTable(columns, records), nil
}

// formatCell renders a decoded database value as a table cell.
func formatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		if f.Float64 == float64(int64(f.Float64)) {
			return strconv.FormatInt(int64(f.Float64), 10)
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)

	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")

	default:
		return fmt.Sprintf("%v", v)
	}
}
