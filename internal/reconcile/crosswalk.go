package reconcile

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/permitdata/nepa-reconcile/internal/fetcher"
)

// ParseCrosswalk reads a database column listing out of a tabular
// export shaped like (table_name, column_name[, data_type,
// is_nullable]). Extra columns are ignored; the core never introspects
// a live database.
func ParseCrosswalk(t fetcher.Table) (map[string][]string, error) {
	tableCol := findColumn(t.Header, "table_name", "table")
	columnCol := findColumn(t.Header, "column_name", "column")
	if tableCol == "" || columnCol == "" {
		return nil, eris.Errorf("reconcile: crosswalk %q needs table and column headers", t.Name)
	}

	out := make(map[string][]string)
	for _, row := range t.Rows {
		table := strings.ToLower(strings.TrimSpace(row[tableCol]))
		column := strings.TrimSpace(row[columnCol])
		if table == "" || column == "" {
			continue
		}
		out[table] = append(out[table], column)
	}

	if len(out) == 0 {
		return nil, eris.Errorf("reconcile: crosswalk %q lists no columns", t.Name)
	}
	return out, nil
}

func findColumn(header []string, candidates ...string) string {
	for _, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		for _, c := range candidates {
			if normalized == c {
				return col
			}
		}
	}
	return ""
}
