// Package source locates and parses the project-status table.
//
// A [Loader] walks an ordered list of [Candidate] sources, parses the first
// one that exists and yields a valid table, and reports every failed attempt
// when none does. A [CachedLoader] keeps the last outcome for a short TTL so
// repeated page renders do not re-read the file.
package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies how a candidate is parsed.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatSQLite   Format = "sqlite"
	FormatPostgres Format = "postgres"
)

// DefaultCandidates is the lookup order used when none is configured.
var DefaultCandidates = []string{"dados.xlsx.xlsx", "dados.xlsx", "dados.csv"}

// Candidate is one place the table may come from.
type Candidate struct {
	// Name is the file name as configured, or "postgres" for the DSN source.
	Name string
	// Path is the resolved file path. Empty for non-file sources.
	Path   string
	Format Format
}

// String returns the candidate name. DSNs are never included.
func (c Candidate) String() string {
	return c.Name
}

// FormatFor infers a format from a file name. Anything that is not a CSV or
// SQLite file is treated as a spreadsheet.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatXLSX
	}
}

// FileCandidates resolves names against dir, preserving order.
func FileCandidates(dir string, names []string) []Candidate {
	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		path := name
		if !filepath.IsAbs(name) {
			path = filepath.Join(dir, name)
		}
		out = append(out, Candidate{Name: name, Path: path, Format: FormatFor(name)})
	}
	return out
}

// PostgresCandidate is the database source appended after file candidates
// when a DSN is configured.
func PostgresCandidate() Candidate {
	return Candidate{Name: "postgres", Format: FormatPostgres}
}

// exists reports whether the candidate can be attempted. Non-file sources
// are always attempted.
func (c Candidate) exists() (bool, error) {
	if c.Path == "" {
		return true, nil
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
