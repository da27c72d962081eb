package reconcile

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/permitdata/nepa-reconcile/internal/fetcher"
)

// FileError records one unreadable input file. Structural file errors
// never abort a run; the file is reported and excluded.
type FileError struct {
	Path string
	Err  error
}

// LoadTables reads tabular files concurrently, bounded by limit.
// Results come back in input order regardless of completion order so
// downstream accumulation stays deterministic. A malformed file becomes
// a FileError, not a run failure.
func LoadTables(ctx context.Context, paths []string, limit int) ([]fetcher.Table, []FileError) {
	if limit < 1 {
		limit = 1
	}

	tables := make([]*fetcher.Table, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = eris.Wrap(err, "reconcile: load cancelled")
				return nil
			}
			t, err := loadTable(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			tables[i] = &t
			return nil
		})
	}
	// Workers only record per-file errors; Wait cannot fail.
	_ = g.Wait()

	var out []fetcher.Table
	var fileErrs []FileError
	for i, path := range paths {
		if errs[i] != nil {
			fileErrs = append(fileErrs, FileError{Path: path, Err: errs[i]})
			continue
		}
		out = append(out, *tables[i])
	}
	return out, fileErrs
}

func loadTable(path string) (fetcher.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return fetcher.ReadXLSXTable(path, fetcher.XLSXOptions{})
	case ".csv":
		return fetcher.ReadCSVTable(path, fetcher.CSVOptions{TrimSpace: true})
	default:
		return fetcher.Table{}, eris.Errorf("reconcile: unsupported table file %q", path)
	}
}
