// Package report aggregates coverage results, the fix log, and the
// validator verdict into the run's user-visible output.
package report

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/permitdata/nepa-reconcile/internal/coverage"
	"github.com/permitdata/nepa-reconcile/internal/schema"
)

// Report is the aggregate outcome of one reconciliation run.
type Report struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`

	Tables []coverage.Result `json:"tables"`
	Fixes  []string          `json:"fixes,omitempty"`

	HardErrors   []string                 `json:"hard_errors,omitempty"`
	Warnings     []string                 `json:"warnings,omitempty"`
	SchemaErrors []schema.ValidationError `json:"schema_errors,omitempty"`
	FileErrors   []string                 `json:"file_errors,omitempty"`

	// Found/Total are reporting statistics only; they never gate
	// validity by themselves.
	Found int  `json:"found"`
	Total int  `json:"total"`
	Valid bool `json:"valid"`
}

// New starts an empty report for the named source kind.
func New(source string) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
	}
}

// AddCoverage folds one table's coverage result into the aggregate.
func (r *Report) AddCoverage(res coverage.Result) {
	r.Tables = append(r.Tables, res)
	r.Found += res.Found
	r.Total += res.Total
	r.HardErrors = append(r.HardErrors, res.HardErrors()...)
	r.Warnings = append(r.Warnings, res.Warnings()...)
}

// AddFixes appends applied corrections in order.
func (r *Report) AddFixes(entries []string) {
	r.Fixes = append(r.Fixes, entries...)
}

// AddWarning records one soft finding outside the per-table coverage
// buckets (skipped records, unbound tables).
func (r *Report) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// AddFileError records a structurally unreadable input file. The run
// continues; the file is reported and excluded.
func (r *Report) AddFileError(path string, err error) {
	r.FileErrors = append(r.FileErrors, fmt.Sprintf("%s: %v", path, err))
}

// Finalize computes the validity verdict: hard coverage errors, schema
// validation errors, and unreadable files invalidate the run; soft
// warnings and the coverage ratio never do.
func (r *Report) Finalize() {
	r.Valid = len(r.HardErrors) == 0 && len(r.SchemaErrors) == 0 && len(r.FileErrors) == 0
}

// Ratio returns the overall found/total coverage ratio.
func (r *Report) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Found) / float64(r.Total)
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "report: encode json")
	}
	return data, nil
}

// EncodeDocument renders a canonical document as indented JSON.
func EncodeDocument(doc map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "report: encode canonical document")
	}
	return data, nil
}

// Text renders the human-readable report: per-table coverage, every
// hard error, every warning, every applied fix, and the verdict.
func (r *Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reconciliation run %s (%s)\n", r.RunID, r.Source)
	fmt.Fprintf(&b, "Coverage: %d/%d (%.1f%%)\n", r.Found, r.Total, r.Ratio()*100)

	if len(r.Tables) > 0 {
		b.WriteString("\nTables:\n")
		for _, t := range r.Tables {
			status := "ok"
			if !t.Valid {
				status = "INVALID"
			}
			fmt.Fprintf(&b, "  %-28s → %-26s %d/%d %s\n", t.Table, t.Entity, t.Found, t.Total, status)
		}
	}

	writeSection(&b, "Hard errors", r.HardErrors)
	writeSection(&b, "Warnings", r.Warnings)
	writeSection(&b, "File errors", r.FileErrors)

	if len(r.SchemaErrors) > 0 {
		fmt.Fprintf(&b, "\nSchema validation errors (%d):\n", len(r.SchemaErrors))
		for _, e := range r.SchemaErrors {
			fmt.Fprintf(&b, "  %s [%s]: %s\n", e.Path, e.Keyword, e.Message)
		}
	}

	writeSection(&b, "Applied fixes", r.Fixes)

	verdict := "VALID"
	if !r.Valid {
		verdict = "INVALID"
	}
	fmt.Fprintf(&b, "\nVerdict: %s\n", verdict)

	return b.String()
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):\n", title, len(lines))
	for _, line := range lines {
		fmt.Fprintf(b, "  %s\n", line)
	}
}
