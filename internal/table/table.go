// Package table reads and writes the delimited unit tables the pipeline
// enriches. A table is an ordered header plus one record per physical unit.
package table

import (
	"errors"
	"fmt"
)

// Record holds one row keyed by column name. Column order lives on the Table
// so every record serializes identically.
type Record map[string]string

// Table is an ordered set of records read from a delimited file.
type Table struct {
	Columns []string
	Records []Record
}

// ErrColumnMissing indicates the configured identifier column is not present
// in the input header. This is a configuration problem, not an IO problem,
// and aborts the run before any row is processed.
var ErrColumnMissing = errors.New("identifier column missing")

// FormatBool serializes a boolean the way the output table expects it.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// requireColumn checks that the header contains the given column.
func requireColumn(header []string, column string) error {
	for _, h := range header {
		if h == column {
			return nil
		}
	}
	return fmt.Errorf("%w: %q not in header", ErrColumnMissing, column)
}
