package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/permitdata/nepa-reconcile/internal/reconcile"
)

var tablesOut string

var tablesCmd = &cobra.Command{
	Use:   "tables <file-or-dir>...",
	Short: "Merge per-table CSV/XLSX exports into one canonical document",
	Long:  "Reads each table export, reports coverage per table, transforms every row, and merges the results into a single schema-shape-complete document.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := collectTablePaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return eris.New("tables: no .csv or .xlsx inputs found")
		}

		orch, err := buildOrchestrator(true)
		if err != nil {
			return err
		}

		loaded, fileErrs := reconcile.LoadTables(cmd.Context(), paths, cfg.Readers.Concurrency)

		outcome, err := orch.Tables(loaded)
		if err != nil {
			return err
		}
		for _, fe := range fileErrs {
			outcome.Report.AddFileError(fe.Path, fe.Err)
		}
		outcome.Report.Finalize()

		zap.L().Info("table reconciliation complete",
			zap.Int("tables", len(loaded)),
			zap.Int("failed_files", len(fileErrs)),
			zap.Bool("valid", outcome.Report.Valid))

		if err := writeDocument(outcome.Document, tablesOut); err != nil {
			return err
		}
		return emitReport(outcome.Report)
	},
}

// collectTablePaths expands directories into their .csv/.xlsx files.
func collectTablePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, eris.Wrap(err, "tables: stat input")
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, eris.Wrap(err, "tables: read input dir")
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".csv", ".xlsx":
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func init() {
	tablesCmd.Flags().StringVarP(&tablesOut, "out", "o", "", "write the canonical document to this file (default stdout)")
	rootCmd.AddCommand(tablesCmd)
}
