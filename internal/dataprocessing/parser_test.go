package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/shared/testutil"
)

func TestReadTable_CSV(t *testing.T) {
	path := testutil.WriteReportCSV(t, t.TempDir())

	table, err := ReadTable(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "training_report.csv", table.Name)
	assert.Equal(t, testutil.ReportHeader, table.Columns)
	require.Equal(t, len(testutil.ReportRows), table.Len())
	assert.Equal(t, testutil.ReportRows[0], table.Rows[0])
}

func TestReadTable_CSVLayout(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
		columns []string
		rows    [][]string
	}{
		{
			name:    "bom and semicolons",
			content: []byte("\xEF\xBB\xBFa;b;c\n1;2\n;;\n4;5;6;7\n"),
			columns: []string{"a", "b", "c"},
			rows:    [][]string{{"1", "2", ""}, {"4", "5", "6"}},
		},
		{
			name:    "leading blank rows",
			content: []byte(",,\nx,y\n1,2\n"),
			columns: []string{"x", "y"},
			rows:    [][]string{{"1", "2"}},
		},
		{
			name:    "trailing empty headers",
			content: []byte("x,y,,\n1,2,,\n"),
			columns: []string{"x", "y"},
			rows:    [][]string{{"1", "2"}},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "layout"+string(rune('a'+i))+".csv")
			require.NoError(t, os.WriteFile(path, tt.content, 0644))

			table, err := ReadTable(context.Background(), path, "")
			require.NoError(t, err)
			assert.Equal(t, tt.columns, table.Columns)
			assert.Equal(t, tt.rows, table.Rows)
		})
	}
}

func TestReadTable_Windows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Име,Фамилия\nИван,Петров\n")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cyrillic.csv")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))

	table, err := ReadTable(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Име", "Фамилия"}, table.Columns)
	assert.Equal(t, [][]string{{"Иван", "Петров"}}, table.Rows)
}

func TestReadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet("Attendance")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Attendance", "A1", &[]interface{}{"First Name", "Last Name"}))
	require.NoError(t, f.SetSheetRow("Attendance", "A2", &[]interface{}{"Иван", "Петров"}))
	require.NoError(t, f.SetSheetRow("Attendance", "A4", &[]interface{}{"Elena"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	t.Run("first sheet with data", func(t *testing.T) {
		table, err := ReadTable(context.Background(), path, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"First Name", "Last Name"}, table.Columns)
		assert.Equal(t, [][]string{{"Иван", "Петров"}, {"Elena", ""}}, table.Rows)
	})

	t.Run("named sheet", func(t *testing.T) {
		table, err := ReadTable(context.Background(), path, "Attendance")
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := ReadTable(context.Background(), path, "Nope")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})
}

func TestReadTable_Errors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("a,b"), 0644))

	tests := []struct {
		name    string
		path    string
		errType apperrors.ErrorType
	}{
		{"missing file", filepath.Join(dir, "absent.csv"), apperrors.ErrTypeInput},
		{"unsupported extension", text, apperrors.ErrTypeInput},
		{"no header", empty, apperrors.ErrTypeParsing},
		{"broken workbook", func() string {
			p := filepath.Join(dir, "broken.xlsx")
			require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0644))
			return p
		}(), apperrors.ErrTypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(context.Background(), tt.path, "")
			require.Error(t, err)
			assert.Equal(t, tt.errType, apperrors.TypeOf(err))
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b,c\n1;2;3")))
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb\tc")))
	assert.Equal(t, ',', sniffDelimiter([]byte("single")))
}
