package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions configures the XLSX table reader.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSXTable parses one worksheet into a Table. The first row is the
// header, matching the CSV reader's contract.
func ReadXLSXTable(path string, opts XLSXOptions) (Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return Table{}, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return Table{}, err
	}

	t := Table{Name: tableName(path)}
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			t.Header = cells
			continue
		}
		m := make(map[string]string, len(t.Header))
		for j, col := range t.Header {
			if j < len(cells) {
				m[col] = cells[j]
			}
		}
		t.Rows = append(t.Rows, m)
	}

	if t.Header == nil {
		return Table{}, eris.Errorf("xlsx: sheet in %q has no header row", path)
	}
	return t, nil
}

func pickSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: no sheet named %q", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (%d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out
}
