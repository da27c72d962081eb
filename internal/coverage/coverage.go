// Package coverage computes per-table compatibility between a source
// representation's fields and a canonical entity definition. The
// analyzer is a read-only diagnostic pass: it never mutates source data.
package coverage

import (
	"fmt"
	"sort"

	"github.com/permitdata/nepa-reconcile/internal/mapping"
	"github.com/permitdata/nepa-reconcile/internal/schema"
)

// Result is the coverage outcome for one source table against its
// canonical entity.
type Result struct {
	Table  string `json:"table"`
	Entity string `json:"entity"`

	// Found never exceeds Total: a canonical property counts at most
	// once no matter how many rules match it.
	Found int `json:"found"`
	Total int `json:"total"`

	// MissingRequired are hard errors; the other two buckets are soft
	// warnings.
	MissingRequired    []string `json:"missing_required,omitempty"`
	UnmatchedCanonical []string `json:"unmatched_canonical,omitempty"`
	UnmatchedSource    []string `json:"unmatched_source,omitempty"`

	Valid bool `json:"valid"`
}

// HardErrors renders the missing-required findings as report lines.
func (r Result) HardErrors() []string {
	out := make([]string, 0, len(r.MissingRequired))
	for _, p := range r.MissingRequired {
		out = append(out, fmt.Sprintf("Required property '%s' missing in '%s'", p, r.Table))
	}
	return out
}

// Warnings renders the soft findings as report lines.
func (r Result) Warnings() []string {
	var out []string
	for _, p := range r.UnmatchedCanonical {
		out = append(out, fmt.Sprintf("optional property '%s' has no source counterpart in '%s'", p, r.Table))
	}
	for _, f := range r.UnmatchedSource {
		out = append(out, fmt.Sprintf("unmatched source field '%s' in '%s'", f, r.Table))
	}
	return out
}

// Analyzer resolves field presence through the mapping table.
type Analyzer struct {
	table *mapping.Table
}

// NewAnalyzer builds an analyzer over the given mapping table.
func NewAnalyzer(t *mapping.Table) *Analyzer {
	return &Analyzer{table: t}
}

// Analyze checks which canonical properties of def are satisfied by the
// source fields of the named table. Presence is resolved in order:
// direct name match, curated special-case override, reverse-mapping
// every source field. Fields on the ignore list are invisible on both
// sides.
func (a *Analyzer) Analyze(tableName string, sourceFields []string, def *schema.Definition) Result {
	res := Result{
		Table:  tableName,
		Entity: def.Name,
		Valid:  true,
	}

	sourceSet := make(map[string]bool, len(sourceFields))
	for _, f := range sourceFields {
		sourceSet[f] = true
	}

	// Every source field resolved through the mapping table, for the
	// reverse-match rule and the unmatched-source scan.
	resolved := make(map[string]string, len(sourceFields))
	for _, f := range sourceFields {
		resolved[f] = a.table.Resolve(tableName, f)
	}

	// matched guards against double counting: a canonical property
	// satisfied by several rules still counts once.
	matched := make(map[string]bool)

	for _, prop := range def.PropertyNames() {
		if a.table.Ignored(prop) {
			continue
		}
		res.Total++

		switch {
		case sourceSet[prop]:
			matched[prop] = true
		case a.overrideSatisfied(tableName, prop, sourceSet):
			matched[prop] = true
		case reverseMatch(prop, sourceFields, resolved):
			matched[prop] = true
		}

		if matched[prop] {
			res.Found++
			continue
		}
		if def.Property(prop).Required {
			res.MissingRequired = append(res.MissingRequired, prop)
			res.Valid = false
		} else {
			res.UnmatchedCanonical = append(res.UnmatchedCanonical, prop)
		}
	}

	// Independent scan: source fields whose mapped name corresponds to
	// no canonical property.
	for _, f := range sourceFields {
		if a.table.Ignored(f) {
			continue
		}
		canonical := resolved[f]
		if def.Property(canonical) != nil {
			continue
		}
		if target, ok := a.table.OverrideTarget(tableName, f); ok && def.Property(target) != nil {
			continue
		}
		res.UnmatchedSource = append(res.UnmatchedSource, f)
	}
	sort.Strings(res.UnmatchedSource)

	return res
}

// overrideSatisfied checks the curated (table, sourceField, canonical)
// exception list.
func (a *Analyzer) overrideSatisfied(tableName, canonical string, sourceSet map[string]bool) bool {
	src, ok := a.table.OverrideFor(tableName, canonical)
	return ok && sourceSet[src]
}

// reverseMatch reports whether any source field maps onto the canonical
// property through the rename table.
func reverseMatch(canonical string, sourceFields []string, resolved map[string]string) bool {
	for _, f := range sourceFields {
		if resolved[f] == canonical {
			return true
		}
	}
	return false
}
