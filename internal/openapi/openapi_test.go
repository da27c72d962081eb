package openapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Project", "project"},
		{"PublicComment", "public_comment"},
		{"PublicEngagementEvent", "public_engagement_event"},
		{"GISData", "gis_data"},
		{"GISDataElement", "gis_data_element"},
		{"UserRole", "user_role"},
		{"process", "process"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakeCase(tt.in))
		})
	}
}

func TestExtractOpenAPI3(t *testing.T) {
	doc := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"PublicComment": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"comment_id":       map[string]any{"type": "string"},
						"comment_text":     map[string]any{"type": "string"},
						"commenter_entity": map[string]any{"type": "string"},
					},
					"required": []any{"comment_id", "comment_text"},
				},
				"Empty": map[string]any{"type": "object"},
			},
		},
	}

	defs, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, defs, 1, "definitions without properties are skipped")

	def := defs[0]
	assert.Equal(t, "PublicComment", def.Name)
	assert.Equal(t, "public_comment", def.Table)
	assert.Equal(t, []string{"comment_id", "comment_text", "commenter_entity"}, def.Fields)
	assert.Equal(t, []string{"comment_id", "comment_text"}, def.Required)
}

func TestExtractSwagger2(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"GISData": map[string]any{
				"properties": map[string]any{
					"gis_id": map[string]any{"type": "string"},
				},
			},
		},
	}

	defs, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "gis_data", defs[0].Table)
}

func TestExtractPrefersComponents(t *testing.T) {
	doc := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Project": map[string]any{
					"properties": map[string]any{"project_id": map[string]any{}},
				},
			},
		},
		"definitions": map[string]any{
			"Legacy": map[string]any{
				"properties": map[string]any{"id": map[string]any{}},
			},
		},
	}

	defs, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "Project", defs[0].Name)
}

func TestExtractNoDefinitions(t *testing.T) {
	_, err := Extract(map[string]any{"openapi": "3.0.0"})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contract.yaml")
	content := "components:\n" +
		"  schemas:\n" +
		"    CaseEvent:\n" +
		"      type: object\n" +
		"      properties:\n" +
		"        case_event_id: {type: string}\n" +
		"        event_status: {type: string}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	defs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "case_event", defs[0].Table)
	assert.Equal(t, []string{"case_event_id", "event_status"}, defs[0].Fields)
}
