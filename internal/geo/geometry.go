// Package geo normalizes GeoJSON geometry values carried by gis_data
// and gis_data_element records.
package geo

import (
	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// DefaultCoordinateSystem is the coordinate system assumed when a source
// record carries none.
const DefaultCoordinateSystem = "WGS84"

// Normalize parses an arbitrary geometry value as GeoJSON and re-encodes
// it canonically. The geometry type name (lowercased GeoJSON type, e.g.
// "point", "polygon") is returned alongside. Values that do not parse
// are returned as an error; callers are expected to keep the original
// value and log, not fail.
func Normalize(value map[string]any) (map[string]any, string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, "", eris.Wrap(err, "geo: encode geometry value")
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return nil, "", eris.Wrap(err, "geo: parse geojson geometry")
	}

	out, err := geojson.Marshal(g)
	if err != nil {
		return nil, "", eris.Wrap(err, "geo: encode geojson geometry")
	}

	var normalized map[string]any
	if err := json.Unmarshal(out, &normalized); err != nil {
		return nil, "", eris.Wrap(err, "geo: decode normalized geometry")
	}

	return normalized, TypeName(g), nil
}

// TypeName returns the lowercased GeoJSON type name for a geometry.
func TypeName(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "point"
	case *geom.MultiPoint:
		return "multipoint"
	case *geom.LineString:
		return "linestring"
	case *geom.MultiLineString:
		return "multilinestring"
	case *geom.Polygon:
		return "polygon"
	case *geom.MultiPolygon:
		return "multipolygon"
	case *geom.GeometryCollection:
		return "geometrycollection"
	default:
		return "unknown"
	}
}
