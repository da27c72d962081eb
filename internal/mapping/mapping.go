// Package mapping holds the static field-mapping table: per-table and
// global renames, entity bindings, coverage special cases, enum value
// translators, and the ignore list. The table is built once and is
// read-only afterwards.
package mapping

import "strings"

// Table is the loaded field-mapping table. Construct with Default or
// Load; the zero value is not usable.
type Table struct {
	bindings    map[string]Binding
	tableRename map[string]map[string]string
	global      map[string]string
	overrides   []Override
	ignore      map[string]bool
}

// Default builds the mapping table from the built-in static data.
func Default() *Table {
	t := &Table{
		bindings:    make(map[string]Binding, len(entityBindings)),
		tableRename: make(map[string]map[string]string, len(tableRenames)),
		global:      make(map[string]string, len(globalRenames)),
		overrides:   make([]Override, len(coverageOverrides)),
		ignore:      make(map[string]bool, len(ignoreExact)),
	}
	for k := range ignoreExact {
		t.ignore[k] = true
	}
	for k, v := range entityBindings {
		t.bindings[k] = v
	}
	for tbl, m := range tableRenames {
		cp := make(map[string]string, len(m))
		for k, v := range m {
			cp[k] = v
		}
		t.tableRename[tbl] = cp
	}
	for k, v := range globalRenames {
		t.global[k] = v
	}
	copy(t.overrides, coverageOverrides)
	return t
}

// Binding returns the canonical entity binding for a source table.
func (t *Table) Binding(table string) (Binding, bool) {
	b, ok := t.bindings[normalizeTable(table)]
	return b, ok
}

// Resolve maps a source field name to its canonical property name.
// Resolution order: table-specific rename, global rename, identity.
// A field literally named "id" always resolves to the bound entity's
// canonical identifier field, never to a property named "id".
func (t *Table) Resolve(table, field string) string {
	table = normalizeTable(table)
	field = strings.TrimSpace(field)

	if field == "id" {
		if b, ok := t.bindings[table]; ok {
			return b.IDField
		}
	}
	if m, ok := t.tableRename[table]; ok {
		if canonical, ok := m[field]; ok {
			return canonical
		}
	}
	if canonical, ok := t.global[field]; ok {
		return canonical
	}
	return field
}

// OverrideFor reports whether a curated special-case source field
// satisfies the canonical property for the given table.
func (t *Table) OverrideFor(table, canonical string) (string, bool) {
	table = normalizeTable(table)
	for _, o := range t.overrides {
		if o.Table == table && o.Canonical == canonical {
			return o.SourceField, true
		}
	}
	return "", false
}

// OverrideTarget is the reverse lookup: the canonical property a source
// field satisfies via the special-case table, if any.
func (t *Table) OverrideTarget(table, sourceField string) (string, bool) {
	table = normalizeTable(table)
	for _, o := range t.overrides {
		if o.Table == table && o.SourceField == sourceField {
			return o.Canonical, true
		}
	}
	return "", false
}

// Ignored reports whether a field is invisible to reconciliation: it is
// excluded from coverage totals and from mismatch warnings alike.
func (t *Table) Ignored(field string) bool {
	field = strings.TrimSpace(field)

	// Relationship-bearing parent ids are never ignored; this must win
	// over the parent_ pattern below.
	if parentAllow[field] {
		return false
	}
	if t.ignore[field] {
		return true
	}
	if strings.HasPrefix(field, "_") {
		return true
	}
	if strings.HasSuffix(field, "_json") {
		return true
	}
	if strings.HasPrefix(field, "parent_") && strings.HasSuffix(field, "_id") {
		return true
	}
	return false
}

// normalizeTable canonicalizes table-name lookups: trimmed, lowercased.
func normalizeTable(table string) string {
	return strings.ToLower(strings.TrimSpace(table))
}
