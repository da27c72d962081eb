package fetcher

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV table reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSVTable parses one CSV export into a Table. The first row is the
// header; every following row becomes a columnName → value map. Short
// rows leave trailing columns absent rather than erroring.
func ReadCSVTable(path string, opts CSVOptions) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, eris.Wrap(err, "csv: open file")
	}
	defer f.Close()

	t, err := DecodeCSV(f, opts)
	if err != nil {
		return Table{}, err
	}
	t.Name = tableName(path)
	return t, nil
}

// DecodeCSV parses CSV content from a reader.
func DecodeCSV(r io.Reader, opts CSVOptions) (Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	var t Table
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, eris.Wrap(err, "csv: read row")
		}

		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}

		if first {
			first = false
			t.Header = record
			continue
		}

		row := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}

	if t.Header == nil {
		return Table{}, eris.New("csv: file has no header row")
	}
	return t, nil
}
