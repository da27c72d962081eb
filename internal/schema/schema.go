// Package schema models the canonical NEPA entity definitions and loads
// them from the authoritative JSON Schema document.
package schema

import (
	_ "embed"
	"os"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

//go:embed nepa_schema.json
var defaultSchemaJSON []byte

// Type is the closed set of property types the transformer dispatches on.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeUnknown Type = ""
)

// Default returns the type-appropriate zero value used when a null or
// missing value is repaired.
func (t Type) Default() any {
	switch t {
	case TypeString:
		return ""
	case TypeInteger, TypeNumber:
		return 0
	case TypeBoolean:
		return false
	case TypeObject:
		return map[string]any{}
	case TypeArray:
		return []any{}
	default:
		return nil
	}
}

// Property is one canonical property of an entity definition.
type Property struct {
	Name     string
	Type     Type
	Required bool
	Enum     []string
	Object   *Definition // nested object sub-schema, nil for scalars
	Items    *Definition // array item sub-schema when items are objects
}

// Definition describes one canonical entity (or a nested sub-object).
type Definition struct {
	Name     string // entity name, e.g. "public_comment"
	ArrayKey string // top-level array key, e.g. "public_comments"
	IDField  string // canonical identifier property, e.g. "comment_id"

	props map[string]*Property
	order []string
}

// Property returns the named property, or nil if the definition has no
// such property.
func (d *Definition) Property(name string) *Property {
	if d == nil {
		return nil
	}
	return d.props[name]
}

// PropertyNames returns the property names in schema declaration order.
func (d *Definition) PropertyNames() []string {
	return d.order
}

// Required returns the names of required properties in declaration order.
func (d *Definition) Required() []string {
	var req []string
	for _, name := range d.order {
		if d.props[name].Required {
			req = append(req, name)
		}
	}
	return req
}

// entityKey binds a top-level array key to its entity name and id field.
type entityKey struct {
	entity  string
	idField string
}

// arrayKeys is the closed set of canonical top-level arrays.
var arrayKeys = map[string]entityKey{
	"projects":                 {"project", "project_id"},
	"processes":                {"process", "process_id"},
	"documents":                {"document", "document_id"},
	"public_comments":          {"public_comment", "comment_id"},
	"public_engagement_events": {"public_engagement_event", "engagement_id"},
	"case_events":              {"case_event", "case_event_id"},
	"gis_data":                 {"gis_data", "gis_id"},
	"gis_data_elements":        {"gis_data_element", "gis_element_id"},
	"legal_structures":         {"legal_structure", "legal_structure_id"},
	"decision_elements":        {"decision_element", "decision_element_id"},
	"process_models":           {"process_model", "process_model_id"},
	"decision_payloads":        {"decision_payload", "decision_payload_id"},
	"user_roles":               {"user_role", "user_role_id"},
}

// Schema holds every canonical entity definition plus the raw parsed
// document for the external validator. It is loaded once and read-only.
type Schema struct {
	entities map[string]*Definition
	byArray  map[string]*Definition
	order    []string

	// Raw is the parsed JSON Schema document, kept for validator
	// compilation. Strict mode mutates the copy, never the source file.
	Raw map[string]any
}

// Entity returns the definition for the named canonical entity.
func (s *Schema) Entity(name string) (*Definition, bool) {
	d, ok := s.entities[name]
	return d, ok
}

// ByArrayKey returns the definition owning the given top-level array key.
func (s *Schema) ByArrayKey(key string) (*Definition, bool) {
	d, ok := s.byArray[key]
	return d, ok
}

// EntityNames returns entity names in deterministic (sorted) order.
func (s *Schema) EntityNames() []string {
	return s.order
}

// Load reads and parses the schema document at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "schema: read schema file")
	}
	return Parse(data)
}

// Default parses the embedded authoritative schema.
func Default() (*Schema, error) {
	return Parse(defaultSchemaJSON)
}

// Parse decodes a JSON Schema document into typed entity definitions.
// Top-level properties are expected to be arrays of entity objects; keys
// outside the canonical set are ignored.
func Parse(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "schema: decode schema document")
	}

	props, ok := raw["properties"].(map[string]any)
	if !ok {
		return nil, eris.New("schema: document has no top-level properties")
	}

	s := &Schema{
		entities: make(map[string]*Definition),
		byArray:  make(map[string]*Definition),
		Raw:      raw,
	}

	for key, v := range props {
		ek, ok := arrayKeys[key]
		if !ok {
			continue
		}
		arr, ok := v.(map[string]any)
		if !ok {
			continue
		}
		items, ok := arr["items"].(map[string]any)
		if !ok {
			return nil, eris.Errorf("schema: array %q has no items schema", key)
		}
		def, err := parseDefinition(ek.entity, items)
		if err != nil {
			return nil, err
		}
		def.ArrayKey = key
		def.IDField = ek.idField
		s.entities[ek.entity] = def
		s.byArray[key] = def
	}

	if len(s.entities) == 0 {
		return nil, eris.New("schema: no canonical entity arrays found")
	}

	for name := range s.entities {
		s.order = append(s.order, name)
	}
	sort.Strings(s.order)

	return s, nil
}

// parseDefinition walks one object schema fragment into a Definition.
func parseDefinition(name string, node map[string]any) (*Definition, error) {
	def := &Definition{
		Name:  name,
		props: make(map[string]*Property),
	}

	required := make(map[string]bool)
	if reqList, ok := node["required"].([]any); ok {
		for _, r := range reqList {
			if rs, ok := r.(string); ok {
				required[rs] = true
			}
		}
	}

	props, ok := node["properties"].(map[string]any)
	if !ok {
		return def, nil
	}

	// Sorted for deterministic PropertyNames; raw JSON maps carry no order.
	names := make([]string, 0, len(props))
	for pn := range props {
		names = append(names, pn)
	}
	sort.Strings(names)

	for _, pn := range names {
		pnode, ok := props[pn].(map[string]any)
		if !ok {
			continue
		}
		prop := &Property{
			Name:     pn,
			Type:     parseType(pnode),
			Required: required[pn],
		}
		if enums, ok := pnode["enum"].([]any); ok {
			for _, e := range enums {
				if es, ok := e.(string); ok {
					prop.Enum = append(prop.Enum, es)
				}
			}
		}
		switch prop.Type {
		case TypeObject:
			sub, err := parseDefinition(pn, pnode)
			if err != nil {
				return nil, err
			}
			prop.Object = sub
		case TypeArray:
			if items, ok := pnode["items"].(map[string]any); ok {
				if parseType(items) == TypeObject {
					sub, err := parseDefinition(pn, items)
					if err != nil {
						return nil, err
					}
					prop.Items = sub
				}
			}
		}
		def.props[pn] = prop
		def.order = append(def.order, pn)
	}

	return def, nil
}

func parseType(node map[string]any) Type {
	t, _ := node["type"].(string)
	switch Type(t) {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeObject, TypeArray:
		return Type(t)
	default:
		return TypeUnknown
	}
}
