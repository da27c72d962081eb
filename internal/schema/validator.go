package schema

import (
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError is one flattened finding from the external validator.
type ValidationError struct {
	Path    string `json:"path"`
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

// denyEntry suppresses a known false-positive validator finding by
// instance-path substring plus keyword.
type denyEntry struct {
	pathSubstring string
	keyword       string
}

// denylist filters validator noise that coverage analysis already owns.
// The geographic purpose enum rejects legitimate free-form values.
var denylist = []denyEntry{
	{"location/purpose", "enum"},
}

// Validator wraps the external JSON Schema implementation. The schema is
// compiled once; Validate never mutates the document.
type Validator struct {
	compiled *jsonschema.Schema
	strict   bool
}

const schemaURL = "nepa://schema.json"

// NewValidator compiles the schema's raw document. When strict is true,
// every entity item schema gets additionalProperties=false; otherwise
// unknown properties are accepted and ignored. The policy is applied
// uniformly at compile time, never per call.
func NewValidator(s *Schema, strict bool) (*Validator, error) {
	raw, err := copyDocument(s.Raw)
	if err != nil {
		return nil, err
	}
	if strict {
		applyStrictMode(raw)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, raw); err != nil {
		return nil, eris.Wrap(err, "schema: add validator resource")
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, eris.Wrap(err, "schema: compile validator")
	}

	return &Validator{compiled: compiled, strict: strict}, nil
}

// Validate checks a canonical document and returns the verdict plus the
// flattened, denylist-filtered error list.
func (v *Validator) Validate(doc map[string]any) (bool, []ValidationError) {
	err := v.compiled.Validate(doc)
	if err == nil {
		return true, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return false, []ValidationError{{Path: "/", Message: err.Error()}}
	}

	var out []ValidationError
	flatten(ve, &out)

	filtered := out[:0]
	for _, e := range out {
		if !denied(e) {
			filtered = append(filtered, e)
		}
	}
	return len(filtered) == 0, filtered
}

func denied(e ValidationError) bool {
	for _, d := range denylist {
		if d.keyword == e.Keyword && strings.Contains(e.Path, d.pathSubstring) {
			return true
		}
	}
	return false
}

// flatten walks the cause tree and keeps only leaf findings.
func flatten(ve *jsonschema.ValidationError, out *[]ValidationError) {
	if len(ve.Causes) == 0 {
		keyword := ""
		if kp := ve.ErrorKind.KeywordPath(); len(kp) > 0 {
			keyword = kp[len(kp)-1]
		}
		*out = append(*out, ValidationError{
			Path:    "/" + strings.Join(ve.InstanceLocation, "/"),
			Keyword: keyword,
			Message: ve.Error(),
		})
		return
	}
	for _, cause := range ve.Causes {
		flatten(cause, out)
	}
}

// copyDocument deep-copies the raw schema so strict mode never touches
// the loaded Schema.
func copyDocument(raw map[string]any) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, eris.Wrap(err, "schema: copy raw document")
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "schema: copy raw document")
	}
	return out, nil
}

// applyStrictMode sets additionalProperties=false on every canonical
// entity item schema.
func applyStrictMode(raw map[string]any) {
	props, ok := raw["properties"].(map[string]any)
	if !ok {
		return
	}
	for key, v := range props {
		if _, canonical := arrayKeys[key]; !canonical {
			continue
		}
		arr, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if items, ok := arr["items"].(map[string]any); ok {
			items["additionalProperties"] = false
		}
	}
}
