package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permitdata/nepa-reconcile/internal/mapping"
	"github.com/permitdata/nepa-reconcile/internal/schema"
)

func newTransformer(t *testing.T) *Transformer {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)
	return New(s, mapping.Default())
}

func TestTransformCoercesNumericID(t *testing.T) {
	tr := newTransformer(t)

	out, log, err := tr.Transform(map[string]any{"id": float64(42), "title": "Bridge Replacement"}, "project", "")
	require.NoError(t, err)

	assert.Equal(t, "42", out["project_id"])
	assert.Equal(t, "Bridge Replacement", out["project_title"])

	require.Positive(t, log.Len())
	assert.True(t, hasFixContaining(log, "coerced numeric 'project_id'"), "fix log: %v", log.Entries())
}

func TestTransformRewritesStatusEnum(t *testing.T) {
	tr := newTransformer(t)

	out, _, err := tr.Transform(map[string]any{"status": "In Progress"}, "process", "")
	require.NoError(t, err)

	assert.Equal(t, "in-progress", out["process_status"])
	_, hasLegacyKey := out["status"]
	assert.False(t, hasLegacyKey)
}

func TestTransformSynthesizesGISDefaults(t *testing.T) {
	tr := newTransformer(t).WithGISIDFunc(func() string { return "gis-test-0001" })

	out, log, err := tr.Transform(map[string]any{"description": "wetland boundary"}, "gis", "")
	require.NoError(t, err)

	assert.Equal(t, "gis-test-0001", out["gis_id"])
	assert.Equal(t, "point", out["data_type"])
	assert.Equal(t, "WGS84", out["coordinate_system"])

	assert.True(t, hasFixContaining(log, "synthesized gis_id"))
	assert.True(t, hasFixContaining(log, "data_type"))
	assert.True(t, hasFixContaining(log, "coordinate_system"))
}

func TestTransformIdempotent(t *testing.T) {
	tr := newTransformer(t).WithGISIDFunc(func() string { return "gis-test-0002" })

	tests := []struct {
		name   string
		table  string
		record map[string]any
	}{
		{"project with nulls", "project", map[string]any{
			"id":          float64(7),
			"title":       "Transit Corridor",
			"description": nil,
			"status":      "Underway",
		}},
		{"gis record", "gis", map[string]any{"description": "parcel"}},
		{"comment", "comment", map[string]any{"id": "c-1", "commenter": "Basin Alliance", "text": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, log1, err := tr.Transform(tt.record, tt.table, "")
			require.NoError(t, err)
			require.Positive(t, log1.Len())

			second, log2, err := tr.Transform(first, tt.table, "")
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Zero(t, log2.Len(), "second pass fixes: %v", log2.Entries())
		})
	}
}

func TestTransformIdentifierInvariant(t *testing.T) {
	tr := newTransformer(t)

	records := map[string]map[string]any{
		"project":    {"title": "No ID Project"},
		"process":    {"id": float64(31)},
		"document":   {"type": "Record of Decision"},
		"comment":    {"commenter": "Jo"},
		"case_event": {"status": "Upcoming"},
	}

	for table, rec := range records {
		t.Run(table, func(t *testing.T) {
			b, ok := mapping.Default().Binding(table)
			require.True(t, ok)

			out, _, err := tr.Transform(rec, table, "")
			require.NoError(t, err)

			id, present := out[b.IDField]
			require.True(t, present, "identifier %q must always be present", b.IDField)
			_, isString := id.(string)
			assert.True(t, isString, "identifier %q must be a string, got %T", b.IDField, id)
		})
	}
}

func TestTransformFillsNullsWithTypedDefaults(t *testing.T) {
	tr := newTransformer(t)

	out, log, err := tr.Transform(map[string]any{
		"id":         "d-1",
		"type":       "rod",
		"title":      nil,
		"page_count": nil,
	}, "document", "")
	require.NoError(t, err)

	assert.Equal(t, "", out["document_title"])
	assert.Equal(t, 0, out["page_count"])
	assert.True(t, hasFixContaining(log, "defaulted null 'document_title'"))
	assert.True(t, hasFixContaining(log, "defaulted null 'page_count'"))
}

func TestTransformCollapsesContainerInventoryArray(t *testing.T) {
	tr := newTransformer(t)

	t.Run("non-empty array", func(t *testing.T) {
		out, log, err := tr.Transform(map[string]any{
			"id":                  "pr-1",
			"container_inventory": []any{map[string]any{"container_id": "c-9"}, map[string]any{"container_id": "c-10"}},
		}, "process", "")
		require.NoError(t, err)

		inv, ok := out["container_inventory"].(map[string]any)
		require.True(t, ok, "container_inventory must collapse to an object")
		assert.Equal(t, "c-9", inv["container_id"])
		assert.True(t, hasFixContaining(log, "collapsed container_inventory"))
	})

	t.Run("empty array", func(t *testing.T) {
		out, log, err := tr.Transform(map[string]any{
			"id":                  "pr-2",
			"container_inventory": []any{},
		}, "process", "")
		require.NoError(t, err)

		assert.Equal(t, map[string]any{}, out["container_inventory"])
		assert.True(t, hasFixContaining(log, "collapsed empty container_inventory"))
	})
}

func TestTransformNestedObjectNormalization(t *testing.T) {
	tr := newTransformer(t)

	out, log, err := tr.Transform(map[string]any{
		"id":    "p-5",
		"title": "Dam Removal",
		"sponsor": map[string]any{
			"sponsor_name": "River Authority",
			"sponsor_type": nil,
		},
	}, "project", "")
	require.NoError(t, err)

	sponsor, ok := out["project_sponsor"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "River Authority", sponsor["sponsor_name"])
	assert.Equal(t, "", sponsor["sponsor_type"])
	assert.True(t, hasFixContaining(log, "defaulted null 'sponsor_type'"))
}

func TestTransformGeometryNormalization(t *testing.T) {
	tr := newTransformer(t)

	out, _, err := tr.Transform(map[string]any{
		"id": "el-1",
		"geometry": map[string]any{
			"type":        "Point",
			"coordinates": []any{float64(-105.05), float64(39.72)},
		},
	}, "gis_element", "")
	require.NoError(t, err)

	g, ok := out["geometry"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Point", g["type"])
}

func TestTransformKeepsUnparseableGeometry(t *testing.T) {
	tr := newTransformer(t)

	bad := map[string]any{"type": "Blob", "coordinates": "nope"}
	out, log, err := tr.Transform(map[string]any{"id": "el-2", "geometry": bad}, "gis_element", "")
	require.NoError(t, err)

	assert.Equal(t, bad, out["geometry"])
	assert.True(t, hasFixContaining(log, "unparseable geometry"))
}

func TestTransformRejectsNilRecord(t *testing.T) {
	tr := newTransformer(t)

	_, _, err := tr.Transform(nil, "project", "")
	assert.Error(t, err)
}

func TestTransformUnknownTableWithoutEntity(t *testing.T) {
	tr := newTransformer(t)

	_, _, err := tr.Transform(map[string]any{"x": 1}, "mystery_table", "")
	assert.Error(t, err)
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	tr := newTransformer(t)

	rec := map[string]any{"id": float64(3), "title": nil}
	_, _, err := tr.Transform(rec, "project", "")
	require.NoError(t, err)

	assert.Equal(t, float64(3), rec["id"])
	assert.Nil(t, rec["title"])
}

func TestNormalizeDefaults(t *testing.T) {
	tr := newTransformer(t)
	s, err := schema.Default()
	require.NoError(t, err)
	def, ok := s.Entity("document")
	require.True(t, ok)

	rec := map[string]any{
		"document_id":       "d-2",
		"document_title":    nil,
		"page_count":        nil,
		"unknown_extension": nil,
	}
	out, log := tr.NormalizeDefaults(rec, def)

	assert.Equal(t, "", out["document_title"])
	assert.Equal(t, 0, out["page_count"])
	// Properties outside the schema keep their null.
	assert.Nil(t, out["unknown_extension"])
	assert.Equal(t, 2, log.Len())

	// Second pass is a no-op.
	again, log2 := tr.NormalizeDefaults(out, def)
	assert.Equal(t, out, again)
	assert.Zero(t, log2.Len())
}

func TestCoerceID(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
		coerced  bool
	}{
		{"integral float", float64(42), "42", true},
		{"fractional float", 3.25, "3.25", true},
		{"int", 7, "7", true},
		{"int64", int64(900), "900", true},
		{"float beyond int64 range", 1e20, "100000000000000000000", true},
		{"negative float beyond int64 range", -1e20, "-100000000000000000000", true},
		{"string untouched", "abc", "", false},
		{"bool untouched", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, coerced := coerceID(tt.in)
			assert.Equal(t, tt.coerced, coerced)
			if tt.coerced {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func hasFixContaining(log *FixLog, substr string) bool {
	for _, e := range log.Entries() {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
