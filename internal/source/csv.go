package source

// csv.go parses comma-separated exports.
//
// Files exported from Excel on Windows frequently carry a UTF-8 BOM, are
// encoded as Windows-1252 instead of UTF-8, or use ';' as the delimiter
// (pt-BR locale). All three are handled before encoding/csv sees the data.

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/cgdin/painel/internal/report"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile is returned for sources without a header row.
var ErrEmptyFile = errors.New("empty file")

// CSVParser reads a candidate as delimited text.
type CSVParser struct{}

// Parse implements Parser.
func (CSVParser) Parse(ctx context.Context, c Candidate) (*report.Table, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.Name, err)
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV parses delimited text with a header row.
func ParseCSV(r io.Reader) (*report.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	return report.NewTable(records[0], records[1:]), nil
}

// sniffDelimiter picks ';' when the header line has semicolons but no commas.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.IndexByte(header, ',') < 0 && bytes.IndexByte(header, ';') >= 0 {
		return ';'
	}
	return ','
}
