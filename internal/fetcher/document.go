package fetcher

import (
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ReadDocument reads a nested JSON or YAML document, dispatching on
// file extension. YAML is normalized so every nested mapping is a
// map[string]any, matching the JSON decode shape.
func ReadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "document: read file")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAMLDocument(data)
	default:
		return DecodeJSONDocument(data)
	}
}

// DecodeJSONDocument parses a JSON object document.
func DecodeJSONDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "document: decode json")
	}
	return doc, nil
}

// DecodeYAMLDocument parses a YAML document into the JSON decode shape.
func DecodeYAMLDocument(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "document: decode yaml")
	}
	normalized, ok := normalizeYAML(raw).(map[string]any)
	if !ok {
		return nil, eris.New("document: yaml root is not a mapping")
	}
	return normalized, nil
}

// normalizeYAML rewrites yaml.v3's map[string]any / map[any]any mix into
// pure map[string]any trees.
func normalizeYAML(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, val := range vv {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
