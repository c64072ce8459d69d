package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is the sentinel matched by errors.Is for any schema failure.
var ErrSchema = errors.New("invalid schema")

// SchemaError reports the required columns a source is missing.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// Is lets errors.Is(err, ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ValidateSchema checks that every required column is present.
// Header cells are compared after trimming surrounding whitespace.
func ValidateSchema(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = true
	}

	var missing []string
	for _, req := range RequiredColumns {
		if !present[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
