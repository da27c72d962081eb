// Package openapi extracts property listings from REST contract files
// (OpenAPI 3 components.schemas or Swagger 2 definitions) for coverage
// analysis against the canonical schema.
package openapi

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/permitdata/nepa-reconcile/internal/fetcher"
)

// Definition is one contract schema flattened to its field listing.
type Definition struct {
	Name     string   // contract name, e.g. "PublicComment"
	Table    string   // snake_cased source table name, e.g. "public_comment"
	Fields   []string // property names, sorted
	Required []string // contract-required property names, sorted
}

// Load reads an OpenAPI or Swagger contract file and extracts its
// object definitions.
func Load(path string) ([]Definition, error) {
	doc, err := fetcher.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return Extract(doc)
}

// Extract pulls object schemas out of a parsed contract document.
// OpenAPI 3 components.schemas wins over Swagger 2 definitions when
// both are present.
func Extract(doc map[string]any) ([]Definition, error) {
	schemas := definitionsNode(doc)
	if schemas == nil {
		return nil, eris.New("openapi: document has no components.schemas or definitions")
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		node, ok := schemas[name].(map[string]any)
		if !ok {
			continue
		}
		def := Definition{
			Name:  name,
			Table: SnakeCase(name),
		}
		if props, ok := node["properties"].(map[string]any); ok {
			for pn := range props {
				def.Fields = append(def.Fields, pn)
			}
			sort.Strings(def.Fields)
		}
		if req, ok := node["required"].([]any); ok {
			for _, r := range req {
				if rs, ok := r.(string); ok {
					def.Required = append(def.Required, rs)
				}
			}
			sort.Strings(def.Required)
		}
		if len(def.Fields) == 0 {
			continue
		}
		defs = append(defs, def)
	}

	if len(defs) == 0 {
		return nil, eris.New("openapi: no object definitions with properties found")
	}
	return defs, nil
}

func definitionsNode(doc map[string]any) map[string]any {
	if components, ok := doc["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			return schemas
		}
	}
	if defs, ok := doc["definitions"].(map[string]any); ok {
		return defs
	}
	return nil
}

// SnakeCase converts a contract definition name to the source table
// convention: "PublicComment" → "public_comment", "GISData" →
// "gis_data". Acronym runs stay together.
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		newWord := i > 0 && !unicode.IsUpper(runes[i-1])
		acronymEnd := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
		if newWord || acronymEnd {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
