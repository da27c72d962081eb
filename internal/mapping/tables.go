package mapping

// Binding ties a source table name to its canonical entity.
type Binding struct {
	Entity   string
	IDField  string
	ArrayKey string
}

// entityBindings maps known source table names (legacy database tables,
// export file stems, OpenAPI definition stems) to canonical entities.
// Several tables alias the same entity because the three source
// representations never agreed on naming.
var entityBindings = map[string]Binding{
	"project":                 {"project", "project_id", "projects"},
	"projects":                {"project", "project_id", "projects"},
	"process":                 {"process", "process_id", "processes"},
	"processes":               {"process", "process_id", "processes"},
	"document":                {"document", "document_id", "documents"},
	"documents":               {"document", "document_id", "documents"},
	"comment":                 {"public_comment", "comment_id", "public_comments"},
	"comments":                {"public_comment", "comment_id", "public_comments"},
	"public_comment":          {"public_comment", "comment_id", "public_comments"},
	"engagement":              {"public_engagement_event", "engagement_id", "public_engagement_events"},
	"engagement_event":        {"public_engagement_event", "engagement_id", "public_engagement_events"},
	"public_engagement_event": {"public_engagement_event", "engagement_id", "public_engagement_events"},
	"case_event":              {"case_event", "case_event_id", "case_events"},
	"case_events":             {"case_event", "case_event_id", "case_events"},
	"gis":                     {"gis_data", "gis_id", "gis_data"},
	"gis_data":                {"gis_data", "gis_id", "gis_data"},
	"gis_element":             {"gis_data_element", "gis_element_id", "gis_data_elements"},
	"gis_data_element":        {"gis_data_element", "gis_element_id", "gis_data_elements"},
	"legal_structure":         {"legal_structure", "legal_structure_id", "legal_structures"},
	"decision_element":        {"decision_element", "decision_element_id", "decision_elements"},
	"process_model":           {"process_model", "process_model_id", "process_models"},
	"decision_payload":        {"decision_payload", "decision_payload_id", "decision_payloads"},
	"user_role":               {"user_role", "user_role_id", "user_roles"},
	"user_roles":              {"user_role", "user_role_id", "user_roles"},
}

// tableRenames holds per-table source-field renames. These take
// precedence over globalRenames.
var tableRenames = map[string]map[string]string{
	"project": {
		"title":       "project_title",
		"name":        "project_title",
		"description": "project_description",
		"status":      "project_status",
		"sponsor":     "project_sponsor",
	},
	"process": {
		"type":    "process_type",
		"status":  "process_status",
		"agency":  "lead_agency",
		"purpose": "purpose_and_need",
	},
	"document": {
		"type":   "document_type",
		"title":  "document_title",
		"status": "document_status",
		"format": "file_format",
		"url":    "document_url",
	},
	"comment": {
		"commenter":    "commenter_name",
		"organization": "commenter_organization",
		"text":         "comment_text",
		"method":       "submission_method",
	},
	"engagement": {
		"type":   "engagement_type",
		"status": "event_status",
		"name":   "event_name",
		"where":  "venue",
	},
	"case_event": {
		"type":   "event_type",
		"status": "event_status",
		"date":   "event_date",
	},
	"gis": {
		"type":   "data_type",
		"system": "coordinate_system",
		"agency": "source_agency",
	},
	"gis_element": {
		"name": "element_name",
	},
	"legal_structure": {
		"type": "structure_type",
	},
	"decision_element": {
		"type": "decision_type",
	},
	"process_model": {
		"name":    "model_name",
		"version": "model_version",
	},
	"user_role": {
		"role": "role_name",
		"name": "user_name",
	},
}

// globalRenames is the fallback rename map applied when no table-specific
// entry matches.
var globalRenames = map[string]string{
	"status":       "process_status",
	"agency":       "lead_agency",
	"date_start":   "start_date",
	"date_end":     "end_date",
	"last_updated": "updated_date",
}

// Override records a curated non-obvious equivalence: the named source
// field satisfies the canonical property for one specific table. Kept as
// data rather than branching code so the exception set stays auditable.
type Override struct {
	Table       string `yaml:"table"`
	SourceField string `yaml:"source_field"`
	Canonical   string `yaml:"canonical"`
}

// coverageOverrides lists the known special cases used by the coverage
// analyzer when direct and reverse-mapped matching both fail.
var coverageOverrides = []Override{
	{"comment", "commenter_entity", "commenter_name"},
	{"document", "parent_document_id", "related_document_id"},
	{"case_event", "parent_process_id", "related_process_id"},
}

// ignoreExact lists metadata fields invisible to reconciliation.
var ignoreExact = map[string]bool{
	"created_at":    true,
	"created_date":  true,
	"updated_at":    true,
	"updated_date":  true,
	"last_modified": true,
	"notes":         true,
	"remarks":       true,
	"metadata":      true,
	"extensions":    true,
	"extra":         true,
}

// parentAllow lists parent_* identifier fields that carry required
// relationships and therefore must NOT be ignored. Checked before the
// general parent_ pattern rule.
var parentAllow = map[string]bool{
	"parent_project_id":  true,
	"parent_process_id":  true,
	"parent_document_id": true,
}
