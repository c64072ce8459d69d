package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cgdin/painel/internal/report"
)

// XLSXParser reads the first worksheet of a spreadsheet. The first row is the
// header.
type XLSXParser struct{}

// Parse implements Parser.
func (XLSXParser) Parse(ctx context.Context, c Candidate) (*report.Table, error) {
	f, err := excelize.OpenFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", c.Name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", c.Name)
	}

	// Raw values keep percent/number formats from leaking into Progresso.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return report.NewTable(rows[0], rows[1:]), nil
}
