package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/permitdata/nepa-reconcile/internal/fetcher"
)

var reconcileOut string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <document.json|yaml>",
	Short: "Reconcile a root source document against the canonical schema",
	Long:  "Migrates legacy-shaped collections to canonical arrays, fills typed defaults, validates, and reports coverage and applied fixes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := fetcher.ReadDocument(args[0])
		if err != nil {
			// The sole root input being unreadable halts the run.
			return eris.Wrap(err, "reconcile")
		}

		orch, err := buildOrchestrator(true)
		if err != nil {
			return err
		}

		outcome, err := orch.Document(doc)
		if err != nil {
			return err
		}

		zap.L().Info("reconciliation complete",
			zap.String("run_id", outcome.Report.RunID),
			zap.Int("fixes", len(outcome.Report.Fixes)),
			zap.Bool("valid", outcome.Report.Valid))

		if err := writeDocument(outcome.Document, reconcileOut); err != nil {
			return err
		}
		return emitReport(outcome.Report)
	},
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileOut, "out", "o", "", "write the canonical document to this file (default stdout)")
	rootCmd.AddCommand(reconcileCmd)
}
