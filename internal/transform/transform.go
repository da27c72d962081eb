// Package transform converts source records into canonical shape:
// renamed fields, rewritten enum values, typed defaults for nulls,
// string identifiers, and recursively normalized nested values. The
// transformer never mutates its input and never fails on bad data; it
// degrades to defaults and logs every repair.
package transform

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/permitdata/nepa-reconcile/internal/geo"
	"github.com/permitdata/nepa-reconcile/internal/mapping"
	"github.com/permitdata/nepa-reconcile/internal/schema"
)

// Transformer converts source records for one schema and mapping table.
type Transformer struct {
	schema *schema.Schema
	table  *mapping.Table

	// newGISID synthesizes identifiers for gis_data records that arrive
	// without one. Injectable so tests stay deterministic.
	newGISID func() string
}

// New builds a transformer over the given schema and mapping table.
func New(s *schema.Schema, t *mapping.Table) *Transformer {
	return &Transformer{
		schema: s,
		table:  t,
		newGISID: func() string {
			return "gis-" + uuid.NewString()
		},
	}
}

// WithGISIDFunc overrides the gis_data identifier generator.
func (t *Transformer) WithGISIDFunc(fn func() string) *Transformer {
	t.newGISID = fn
	return t
}

// Transform converts one source record from the named table into a
// canonical record for the target entity. An empty entityName is
// resolved through the mapping table's bindings. The returned fix log
// lists every applied correction in order. The input record is never
// mutated. Transform errors only on structurally invalid input; data
// problems degrade to defaults.
func (t *Transformer) Transform(record map[string]any, tableName, entityName string) (map[string]any, *FixLog, error) {
	if record == nil {
		return nil, nil, eris.Errorf("transform: record for table %q is not an object", tableName)
	}

	if entityName == "" {
		b, ok := t.table.Binding(tableName)
		if !ok {
			return nil, nil, eris.Errorf("transform: no entity binding for table %q", tableName)
		}
		entityName = b.Entity
	}
	def, _ := t.schema.Entity(entityName)

	log := NewFixLog()
	out := make(map[string]any, len(record))

	for _, field := range sortedKeys(record) {
		canonical := t.table.Resolve(tableName, field)
		prop := def.Property(canonical)
		out[canonical] = t.convert(record[field], canonical, prop, entityName, tableName, log)
	}

	t.repairEntity(out, def, entityName, tableName, log)

	return out, log, nil
}

// convert applies the per-field pipeline: enum rewrite, null default,
// identifier coercion, nested recursion, structural repairs.
func (t *Transformer) convert(value any, canonical string, prop *schema.Property, entityName, tableName string, log *FixLog) any {
	// container_inventory sometimes arrives as an array in legacy dumps;
	// collapse to the first element. Heuristic, so it is logged.
	if canonical == "container_inventory" {
		if arr, ok := value.([]any); ok {
			if len(arr) == 0 {
				log.Addf("collapsed empty container_inventory array in '%s' to empty object", tableName)
				value = map[string]any{}
			} else {
				log.Addf("collapsed container_inventory array in '%s' to its first element", tableName)
				value = arr[0]
			}
		}
	}

	if s, ok := value.(string); ok {
		if fn, isEnum := mapping.Translator(canonical); isEnum {
			value = fn(s)
		}
	}

	if value == nil {
		if prop != nil && prop.Type != schema.TypeUnknown {
			def := prop.Type.Default()
			log.Addf("defaulted null '%s' in '%s' to %s type default", canonical, tableName, prop.Type)
			return def
		}
		return nil
	}

	if strings.HasSuffix(canonical, "_id") {
		if s, coerced := coerceID(value); coerced {
			log.Addf("coerced numeric '%s' in '%s' to string %q", canonical, tableName, s)
			return s
		}
	}

	// gis_data_element geometry is validated and re-encoded as canonical
	// GeoJSON; unparseable geometry is kept as-is.
	if entityName == "gis_data_element" && canonical == "geometry" {
		if m, ok := value.(map[string]any); ok {
			normalized, _, err := geo.Normalize(m)
			if err != nil {
				log.Addf("kept unparseable geometry in '%s' unchanged", tableName)
				return value
			}
			if !reflect.DeepEqual(normalized, m) {
				log.Addf("normalized geometry in '%s' to canonical geojson", tableName)
			}
			return normalized
		}
	}

	switch v := value.(type) {
	case map[string]any:
		if prop != nil && prop.Object != nil {
			return t.normalizeNested(v, prop.Object, tableName, log)
		}
		return v
	case []any:
		if prop != nil && prop.Items != nil {
			out := make([]any, len(v))
			for i, elem := range v {
				if m, ok := elem.(map[string]any); ok {
					out[i] = t.normalizeNested(m, prop.Items, tableName, log)
				} else {
					out[i] = elem
				}
			}
			return out
		}
		return v
	default:
		return value
	}
}

// normalizeNested walks a nested object with its sub-schema: identity
// naming, enum rewrite, null defaults, id coercion, deeper recursion.
func (t *Transformer) normalizeNested(obj map[string]any, def *schema.Definition, tableName string, log *FixLog) map[string]any {
	out := make(map[string]any, len(obj))
	for _, key := range sortedKeys(obj) {
		prop := def.Property(key)
		out[key] = t.convert(obj[key], key, prop, "", tableName, log)
	}
	return out
}

// repairEntity applies entity-specific structural repairs and the
// required-property and identifier guarantees.
func (t *Transformer) repairEntity(out map[string]any, def *schema.Definition, entityName, tableName string, log *FixLog) {
	if entityName == "gis_data" {
		if empty(out["gis_id"]) {
			out["gis_id"] = t.newGISID()
			log.Addf("synthesized gis_id in '%s'", tableName)
		}
		if empty(out["data_type"]) {
			out["data_type"] = "point"
			log.Addf("defaulted missing data_type in '%s' to \"point\"", tableName)
		}
		if empty(out["coordinate_system"]) {
			out["coordinate_system"] = geo.DefaultCoordinateSystem
			log.Addf("defaulted missing coordinate_system in '%s' to %q", tableName, geo.DefaultCoordinateSystem)
		}
	}

	if def == nil {
		return
	}

	for _, req := range def.Required() {
		if _, ok := out[req]; ok {
			continue
		}
		prop := def.Property(req)
		out[req] = prop.Type.Default()
		log.Addf("filled missing required '%s' in '%s' with %s type default", req, tableName, prop.Type)
	}

	// A canonical record always carries its identifier property, even
	// when no required rule covers it.
	if def.IDField != "" {
		if _, ok := out[def.IDField]; !ok {
			out[def.IDField] = ""
			log.Addf("synthesized empty identifier '%s' in '%s'", def.IDField, tableName)
		}
	}
}

// NormalizeDefaults is the idempotent second pass: null-to-default
// normalization only, no renames, no enum rewrites, no coercion. Applied
// to every canonical array so hand-authored canonical input receives the
// same default filling as migrated legacy input.
func (t *Transformer) NormalizeDefaults(record map[string]any, def *schema.Definition) (map[string]any, *FixLog) {
	log := NewFixLog()
	return t.normalizeDefaults(record, def, def.Name, log), log
}

func (t *Transformer) normalizeDefaults(record map[string]any, def *schema.Definition, context string, log *FixLog) map[string]any {
	out := make(map[string]any, len(record))
	for _, key := range sortedKeys(record) {
		value := record[key]
		prop := def.Property(key)

		if value == nil {
			if prop != nil && prop.Type != schema.TypeUnknown {
				out[key] = prop.Type.Default()
				log.Addf("defaulted null '%s' in '%s' to %s type default", key, context, prop.Type)
				continue
			}
			out[key] = nil
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			if prop != nil && prop.Object != nil {
				out[key] = t.normalizeDefaults(v, prop.Object, context, log)
				continue
			}
			out[key] = v
		case []any:
			if prop != nil && prop.Items != nil {
				arr := make([]any, len(v))
				for i, elem := range v {
					if m, ok := elem.(map[string]any); ok {
						arr[i] = t.normalizeDefaults(m, prop.Items, context, log)
					} else {
						arr[i] = elem
					}
				}
				out[key] = arr
				continue
			}
			out[key] = v
		default:
			out[key] = value
		}
	}
	return out
}

// coerceID turns a numeric identifier value into its canonical string
// representation. Strings pass through untouched.
func coerceID(value any) (string, bool) {
	switch v := value.(type) {
	case float64:
		// Conversion to int64 is only defined inside its range; larger
		// integral identifiers are formatted from the float directly.
		if v == math.Trunc(v) && !math.IsInf(v, 0) && v >= math.MinInt64 && v < math.MaxInt64 {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return coerceID(float64(v))
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// empty reports whether an identifier-ish value is absent or blank.
func empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
