package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestNormalizePoint(t *testing.T) {
	in := map[string]any{
		"type":        "Point",
		"coordinates": []any{float64(-104.99), float64(39.74)},
	}

	out, typeName, err := Normalize(in)
	require.NoError(t, err)

	assert.Equal(t, "point", typeName)
	assert.Equal(t, "Point", out["type"])
	require.Len(t, out["coordinates"], 2)
}

func TestNormalizePolygon(t *testing.T) {
	in := map[string]any{
		"type": "Polygon",
		"coordinates": []any{
			[]any{
				[]any{float64(0), float64(0)},
				[]any{float64(1), float64(0)},
				[]any{float64(1), float64(1)},
				[]any{float64(0), float64(0)},
			},
		},
	}

	out, typeName, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "polygon", typeName)
	assert.Equal(t, "Polygon", out["type"])
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, _, err := Normalize(map[string]any{"type": "Blob", "coordinates": "nope"})
	assert.Error(t, err)
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name     string
		g        geom.T
		expected string
	}{
		{"point", geom.NewPointEmpty(geom.XY), "point"},
		{"linestring", geom.NewLineString(geom.XY), "linestring"},
		{"polygon", geom.NewPolygon(geom.XY), "polygon"},
		{"multipolygon", geom.NewMultiPolygon(geom.XY), "multipolygon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeName(tt.g))
		})
	}
}
