package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadAll loads the delimited file at path, preserving file order, and
// validates that idColumn exists in the header. Identifier values are kept as
// strings verbatim; BAG identifiers have leading zeros that must survive.
func ReadAll(path, idColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	if err := requireColumn(header, idColumn); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Columns: header}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rec := make(Record, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}
