// Package fetcher reads tabular and document inputs: CSV and XLSX
// tables, JSON and YAML documents. It is the collaborator seam between
// on-disk source artifacts and the reconciliation core.
package fetcher

import (
	"path/filepath"
	"strings"
)

// Table is one parsed tabular input: a source table name (the file
// stem), its header, and rows keyed by column name.
type Table struct {
	Name   string
	Header []string
	Rows   []map[string]string
}

// Fields returns the header columns; this is what the coverage analyzer
// consumes.
func (t Table) Fields() []string {
	return t.Header
}

// tableName derives the source table name from a file path:
// "exports/Case_Event.csv" → "case_event".
func tableName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ToLower(strings.TrimSpace(stem))
}
