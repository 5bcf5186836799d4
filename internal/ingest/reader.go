// Package ingest loads the input CSV tables into domain records. Headers are
// expected in snake_case (the upstream ingestion collaborator normalizes
// them); ingest validates required columns up front and absorbs value-level
// gaps as nils.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// table is a loaded CSV: a column-name index plus the raw records.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

// readTable loads a CSV file and maps its header to column indices. Column
// names are trimmed and lowercased; ragged rows are tolerated (short rows
// read as blanks).
func readTable(path, name string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", name, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return &table{name: name, cols: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}

	t := &table{name: name, cols: cols}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", name, err)
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

// field returns the raw cell for a column, "" when the row is short or the
// column absent.
func (t *table) field(row []string, col string) string {
	idx, ok := t.cols[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// floatField parses a numeric cell, nil for blank or unparseable values.
func (t *table) floatField(row []string, col string) *float64 {
	raw := t.field(row, col)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// floatOrZero parses a numeric cell, 0 for blank or unparseable values.
func (t *table) floatOrZero(row []string, col string) float64 {
	if v := t.floatField(row, col); v != nil {
		return *v
	}
	return 0
}

// Source dates arrive in a handful of formats depending on the exporter.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"2006/01/02",
}

// dateField parses a date cell, zero time when blank or unparseable.
func (t *table) dateField(row []string, col string) time.Time {
	raw := t.field(row, col)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
