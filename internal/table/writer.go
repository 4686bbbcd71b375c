package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteAll serializes the records to path with the given column order. The
// file is written to a temporary sibling and renamed into place so a failed
// run never leaves a partial output table behind.
func WriteAll(path string, columns []string, records []Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".monumenten-*.csv")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := writeCSV(tmp, columns, records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

func writeCSV(f *os.File, columns []string, records []Record) error {
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
