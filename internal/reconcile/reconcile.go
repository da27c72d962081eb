// Package reconcile drives a full reconciliation run: legacy-document
// migration, per-table coverage, transformation, the idempotent
// defaults pass, and external schema validation, aggregated into one
// report. Runs are pure: no state survives between invocations.
package reconcile

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/permitdata/nepa-reconcile/internal/coverage"
	"github.com/permitdata/nepa-reconcile/internal/fetcher"
	"github.com/permitdata/nepa-reconcile/internal/mapping"
	"github.com/permitdata/nepa-reconcile/internal/openapi"
	"github.com/permitdata/nepa-reconcile/internal/report"
	"github.com/permitdata/nepa-reconcile/internal/schema"
	"github.com/permitdata/nepa-reconcile/internal/transform"
)

// requiredArrayKey is the one top-level array the canonical document
// must always carry, even when empty.
const requiredArrayKey = "projects"

// Orchestrator wires the mapping table, analyzer, transformer, and
// validator into end-to-end runs. A nil validator skips the external
// validation step (coverage-only runs).
type Orchestrator struct {
	schema      *schema.Schema
	table       *mapping.Table
	analyzer    *coverage.Analyzer
	transformer *transform.Transformer
	validator   *schema.Validator
	log         *zap.Logger
}

// New builds an orchestrator. validator may be nil.
func New(s *schema.Schema, t *mapping.Table, v *schema.Validator) *Orchestrator {
	return &Orchestrator{
		schema:      s,
		table:       t,
		analyzer:    coverage.NewAnalyzer(t),
		transformer: transform.New(s, t),
		validator:   v,
		log:         zap.L(),
	}
}

// Transformer exposes the orchestrator's transformer, mainly so callers
// can inject a deterministic id generator.
func (o *Orchestrator) Transformer() *transform.Transformer {
	return o.transformer
}

// Outcome is one run's canonical document plus its aggregate report.
// OpenAPI and crosswalk runs are coverage-only and carry no document.
type Outcome struct {
	Document map[string]any
	Report   *report.Report
}

// Document reconciles a root source document: legacy table-named keys
// are migrated record-by-record into canonical arrays, the required
// projects array is synthesized when absent, every canonical array gets
// the defaults-only second pass, and the result is validated.
func (o *Orchestrator) Document(doc map[string]any) (*Outcome, error) {
	if doc == nil {
		return nil, eris.New("reconcile: root document is not an object")
	}

	rep := report.New("document")
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	o.migrateLegacy(out, rep)

	// Checked after migration: a legacy project collection populates the
	// array, so the fix log describes the final document.
	if _, ok := out[requiredArrayKey]; !ok {
		out[requiredArrayKey] = []any{}
		rep.AddFixes([]string{"synthesized empty required 'projects' array"})
	}

	o.normalizePass(out, rep)
	o.validate(out, rep)

	rep.Finalize()
	return &Outcome{Document: out, Report: rep}, nil
}

// migrateLegacy rewrites top-level keys named after source tables into
// their canonical arrays, transforming each record, then removes the
// legacy keys.
func (o *Orchestrator) migrateLegacy(out map[string]any, rep *report.Report) {
	for _, key := range sortedKeys(out) {
		b, ok := o.table.Binding(key)
		if !ok || b.ArrayKey == key {
			continue
		}
		arr, ok := out[key].([]any)
		if !ok {
			rep.AddWarning("legacy key '%s' is not an array; left in place", key)
			continue
		}

		def, hasDef := o.schema.Entity(b.Entity)
		if hasDef {
			rep.AddCoverage(o.analyzer.Analyze(key, unionFields(arr), def))
		}

		// The target array is copied before appending so the caller's
		// slice is never written through.
		existing, _ := out[b.ArrayKey].([]any)
		target := append([]any(nil), existing...)
		for i, rec := range arr {
			m, ok := rec.(map[string]any)
			if !ok {
				rep.AddWarning("skipped non-object record %d in legacy '%s'", i, key)
				continue
			}
			canonical, fixes, err := o.transformer.Transform(m, key, b.Entity)
			if err != nil {
				rep.AddWarning("skipped record %d in legacy '%s': %v", i, key, err)
				continue
			}
			rep.AddFixes(fixes.Entries())
			target = append(target, canonical)
		}
		out[b.ArrayKey] = target
		delete(out, key)

		o.log.Debug("migrated legacy collection",
			zap.String("table", key),
			zap.String("entity", b.Entity),
			zap.Int("records", len(arr)))
	}
}

// normalizePass applies null-to-default normalization to every canonical
// array. Idempotent: a second invocation logs no further fixes. Each
// array is rebuilt rather than rewritten so source documents handed to
// Document stay untouched.
func (o *Orchestrator) normalizePass(out map[string]any, rep *report.Report) {
	log := transform.NewFixLog()
	for _, entity := range o.schema.EntityNames() {
		def, _ := o.schema.Entity(entity)
		arr, ok := out[def.ArrayKey].([]any)
		if !ok {
			continue
		}
		normalized := make([]any, len(arr))
		for i, rec := range arr {
			m, ok := rec.(map[string]any)
			if !ok {
				normalized[i] = rec
				continue
			}
			norm, fixes := o.transformer.NormalizeDefaults(m, def)
			log.Merge(fixes)
			normalized[i] = norm
		}
		out[def.ArrayKey] = normalized
	}
	rep.AddFixes(log.Entries())
}

func (o *Orchestrator) validate(out map[string]any, rep *report.Report) {
	if o.validator == nil {
		return
	}
	if ok, errs := o.validator.Validate(out); !ok {
		rep.SchemaErrors = errs
	}
}

// Tables reconciles per-table tabular inputs (CSV/XLSX) into one merged
// canonical document. Empty cells are treated as nulls so they receive
// typed defaults.
func (o *Orchestrator) Tables(tables []fetcher.Table) (*Outcome, error) {
	rep := report.New("tables")
	out := map[string]any{}

	sorted := make([]fetcher.Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, tbl := range sorted {
		b, ok := o.table.Binding(tbl.Name)
		if !ok {
			rep.AddWarning("no entity binding for table '%s'; skipped", tbl.Name)
			continue
		}
		def, hasDef := o.schema.Entity(b.Entity)
		if hasDef {
			rep.AddCoverage(o.analyzer.Analyze(tbl.Name, tbl.Header, def))
		}

		arr, _ := out[b.ArrayKey].([]any)
		for i, row := range tbl.Rows {
			canonical, fixes, err := o.transformer.Transform(rowToRecord(row), tbl.Name, b.Entity)
			if err != nil {
				rep.AddWarning("skipped row %d in table '%s': %v", i, tbl.Name, err)
				continue
			}
			rep.AddFixes(fixes.Entries())
			arr = append(arr, canonical)
		}
		out[b.ArrayKey] = arr
	}

	if _, ok := out[requiredArrayKey]; !ok {
		out[requiredArrayKey] = []any{}
		rep.AddFixes([]string{"synthesized empty required 'projects' array"})
	}

	o.normalizePass(out, rep)
	o.validate(out, rep)

	rep.Finalize()
	return &Outcome{Document: out, Report: rep}, nil
}

// OpenAPI runs coverage analysis over REST contract definitions. No
// transformation: contracts carry no data, only shape.
func (o *Orchestrator) OpenAPI(defs []openapi.Definition) *Outcome {
	rep := report.New("openapi")
	for _, d := range defs {
		b, ok := o.table.Binding(d.Table)
		if !ok {
			rep.AddWarning("no entity binding for definition '%s' (table '%s'); skipped", d.Name, d.Table)
			continue
		}
		def, hasDef := o.schema.Entity(b.Entity)
		if !hasDef {
			continue
		}
		rep.AddCoverage(o.analyzer.Analyze(d.Table, d.Fields, def))
	}
	rep.Finalize()
	return &Outcome{Report: rep}
}

// Crosswalk runs coverage analysis over a database column listing:
// table name → column names.
func (o *Orchestrator) Crosswalk(columns map[string][]string) *Outcome {
	rep := report.New("crosswalk")

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b, ok := o.table.Binding(name)
		if !ok {
			rep.AddWarning("no entity binding for table '%s'; skipped", name)
			continue
		}
		def, hasDef := o.schema.Entity(b.Entity)
		if !hasDef {
			continue
		}
		rep.AddCoverage(o.analyzer.Analyze(name, columns[name], def))
	}
	rep.Finalize()
	return &Outcome{Report: rep}
}

// rowToRecord converts a CSV row to a source record; empty cells become
// nulls so the transformer's default filling applies.
func rowToRecord(row map[string]string) map[string]any {
	rec := make(map[string]any, len(row))
	for k, v := range row {
		if v == "" {
			rec[k] = nil
			continue
		}
		rec[k] = v
	}
	return rec
}

// unionFields collects the distinct field names across a legacy
// collection's records, sorted for deterministic coverage output.
func unionFields(arr []any) []string {
	seen := map[string]bool{}
	for _, rec := range arr {
		m, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		for k := range m {
			seen[k] = true
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
