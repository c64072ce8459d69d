// Package report holds the project-status table and the pure operations over
// it: schema validation, normalization, status filtering, KPI counts and CSV
// export.
//
// # Columns
//
// A table may carry any number of columns, but three are required:
//
//	Projeto   - project name (not unique)
//	Progresso - integer progress, coerced to 0 when missing or non-numeric
//	Status    - categorical label, "A definir" when missing
//
// After [Normalize] every Progresso cell is a base-10 integer and every
// Status cell is non-empty. Tables are never mutated in place; each operation
// returns a new [Table] so a cached snapshot can be shared between requests.
//
// # Pipeline
//
//	source.Loader -> Normalize -> Filter -> {Summarize, dashboard, ExportCSV}
package report
