package ingest

import (
	"fmt"
	"strings"
)

// MissingColumnsError is the fatal structural error: a required column is
// absent from an input table. It is raised before any rows are parsed, so a
// component never produces partial output from a malformed table.
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("table %q is missing required columns: %s",
		e.Table, strings.Join(e.Columns, ", "))
}

// requireColumns checks the header map for every required column and returns
// a MissingColumnsError naming all absentees at once.
func requireColumns(table string, cols map[string]int, required []string) error {
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Table: table, Columns: missing}
	}
	return nil
}
