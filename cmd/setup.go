package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"

	"github.com/permitdata/nepa-reconcile/internal/mapping"
	"github.com/permitdata/nepa-reconcile/internal/reconcile"
	"github.com/permitdata/nepa-reconcile/internal/report"
	"github.com/permitdata/nepa-reconcile/internal/schema"
)

// buildOrchestrator assembles the reconciliation engine from config:
// schema (embedded unless a path is set), mapping table with optional
// overrides, and the compiled validator. withValidator is false for
// coverage-only commands, which need no compiled schema.
func buildOrchestrator(withValidator bool) (*reconcile.Orchestrator, error) {
	var (
		s   *schema.Schema
		err error
	)
	if cfg.Schema.Path != "" {
		s, err = schema.Load(cfg.Schema.Path)
	} else {
		s, err = schema.Default()
	}
	if err != nil {
		return nil, err
	}

	table, err := mapping.Load(cfg.Mapping.OverridesPath)
	if err != nil {
		return nil, err
	}

	var v *schema.Validator
	if withValidator {
		v, err = schema.NewValidator(s, cfg.Schema.Strict)
		if err != nil {
			return nil, err
		}
	}

	return reconcile.New(s, table, v), nil
}

// emitReport renders a report per the configured output format.
func emitReport(r *report.Report) error {
	if cfg.Output.Format == "json" {
		data, err := r.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(r.Text())
	return nil
}

// writeDocument writes the canonical document to a file, or stdout when
// path is empty.
func writeDocument(doc map[string]any, path string) error {
	data, err := report.EncodeDocument(doc)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "write canonical document")
	}
	return nil
}
