package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/permitdata/nepa-reconcile/internal/fetcher"
	"github.com/permitdata/nepa-reconcile/internal/reconcile"
)

var crosswalkCmd = &cobra.Command{
	Use:   "crosswalk <columns.csv>",
	Short: "Check a database column listing against the canonical schema",
	Long:  "Reads a (table_name, column_name, ...) listing exported from a database catalog and reports per-table coverage. No live introspection is performed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := fetcher.ReadCSVTable(args[0], fetcher.CSVOptions{TrimSpace: true})
		if err != nil {
			return err
		}

		columns, err := reconcile.ParseCrosswalk(t)
		if err != nil {
			return err
		}

		orch, err := buildOrchestrator(false)
		if err != nil {
			return err
		}

		outcome := orch.Crosswalk(columns)

		zap.L().Info("crosswalk coverage complete",
			zap.Int("tables", len(columns)),
			zap.Bool("valid", outcome.Report.Valid))

		return emitReport(outcome.Report)
	},
}

func init() {
	rootCmd.AddCommand(crosswalkCmd)
}
