package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Download metadata for the exported report.
const (
	ExportFileName = "relatorio_projetos_cgdin.csv"
	ExportMIME     = "text/csv"
)

// WriteCSV writes the header and every row of t as UTF-8 CSV.
// No index column is emitted.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV returns the CSV payload for t.
func ExportCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return buf.Bytes(), nil
}
