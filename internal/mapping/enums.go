package mapping

import "strings"

// statusValues translates source status spellings to the canonical enum.
var statusValues = map[string]string{
	"planned":     "planned",
	"not started": "planned",
	"pending":     "planned",
	"in progress": "in-progress",
	"in-progress": "in-progress",
	"underway":    "in-progress",
	"active":      "in-progress",
	"paused":      "paused",
	"on hold":     "paused",
	"suspended":   "paused",
	"complete":    "completed",
	"completed":   "completed",
	"done":        "completed",
	"closed out":  "completed",
	"cancelled":   "cancelled",
	"canceled":    "cancelled",
	"terminated":  "cancelled",
	"withdrawn":   "cancelled",
}

// documentTypeValues translates long-form NEPA document type names to
// their canonical short codes.
var documentTypeValues = map[string]string{
	"notice of intent":                      "noi",
	"noi":                                   "noi",
	"draft environmental impact statement":  "draft_eis",
	"draft eis":                             "draft_eis",
	"deis":                                  "draft_eis",
	"final environmental impact statement":  "final_eis",
	"final eis":                             "final_eis",
	"feis":                                  "final_eis",
	"environmental assessment":              "ea",
	"ea":                                    "ea",
	"finding of no significant impact":      "fonsi",
	"fonsi":                                 "fonsi",
	"record of decision":                    "rod",
	"rod":                                   "rod",
	"categorical exclusion":                 "ce",
	"cat ex":                                "ce",
	"catex":                                 "ce",
	"ce":                                    "ce",
	"supplemental environmental assessment": "ea",
}

// engagementTypeValues translates engagement descriptions to canonical
// event types.
var engagementTypeValues = map[string]string{
	"public meeting":        "meeting",
	"meeting":               "meeting",
	"public hearing":        "hearing",
	"hearing":               "hearing",
	"comment period":        "comment_period",
	"public comment period": "comment_period",
	"open house":            "open_house",
	"webinar":               "webinar",
	"virtual meeting":       "webinar",
}

// eventStatusValues translates case event status spellings.
var eventStatusValues = map[string]string{
	"scheduled":   "scheduled",
	"planned":     "scheduled",
	"upcoming":    "scheduled",
	"open":        "open",
	"in progress": "open",
	"closed":      "closed",
	"complete":    "closed",
	"completed":   "closed",
	"cancelled":   "cancelled",
	"canceled":    "cancelled",
	"postponed":   "cancelled",
}

// StatusValue returns the canonical status for an arbitrary source
// string. Unrecognized values fall back to a lowercased copy so that
// coverage analysis, not hard failure, surfaces data-quality problems.
func StatusValue(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := statusValues[key]; ok {
		return v
	}
	return key
}

// DocumentTypeValue returns the canonical document type code.
// Unrecognized values pass through unchanged.
func DocumentTypeValue(s string) string {
	if v, ok := documentTypeValues[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return s
}

// EngagementTypeValue returns the canonical engagement type.
// Unrecognized values pass through unchanged.
func EngagementTypeValue(s string) string {
	if v, ok := engagementTypeValues[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return s
}

// EventStatusValue returns the canonical case event status. Falls back
// to a lowercased copy like StatusValue.
func EventStatusValue(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := eventStatusValues[key]; ok {
		return v
	}
	return key
}

// enumTranslators maps canonical property names to their translators.
var enumTranslators = map[string]func(string) string{
	"project_status":  StatusValue,
	"process_status":  StatusValue,
	"document_status": StatusValue,
	"document_type":   DocumentTypeValue,
	"engagement_type": EngagementTypeValue,
	"event_status":    EventStatusValue,
}

// Translator returns the enum translator for a canonical property, if
// the property is one of the recognized enum fields.
func Translator(canonical string) (func(string) string, bool) {
	fn, ok := enumTranslators[canonical]
	return fn, ok
}
