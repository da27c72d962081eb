package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeXLSXFixture(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "GIS_Data.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSXTable(t *testing.T) {
	path := writeXLSXFixture(t, "export", [][]string{
		{"id", "data_type", "coordinate_system"},
		{"g-1", "point", "WGS84"},
		{"g-2", "polygon"},
	})

	table, err := ReadXLSXTable(path, XLSXOptions{})
	require.NoError(t, err)

	assert.Equal(t, "gis_data", table.Name)
	assert.Equal(t, []string{"id", "data_type", "coordinate_system"}, table.Fields())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "WGS84", table.Rows[0]["coordinate_system"])
	_, present := table.Rows[1]["coordinate_system"]
	assert.False(t, present, "short rows leave trailing columns absent")
}

func TestReadXLSXTableSheetName(t *testing.T) {
	path := writeXLSXFixture(t, "gis", [][]string{
		{"id"},
		{"g-1"},
	})

	_, err := ReadXLSXTable(path, XLSXOptions{SheetName: "missing"})
	assert.Error(t, err)

	table, err := ReadXLSXTable(path, XLSXOptions{SheetName: "gis"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", table.Rows[0]["id"])
}

func TestReadXLSXTableMissingFile(t *testing.T) {
	_, err := ReadXLSXTable("/nonexistent/table.xlsx", XLSXOptions{})
	assert.Error(t, err)
}
