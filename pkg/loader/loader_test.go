package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadData_Formats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows int
	}{
		{
			name:     "json array keeps key order",
			input:    `[{"zeta": 1, "alpha": "a"}, {"zeta": 2, "mid": true}]`,
			wantCols: []string{"zeta", "alpha", "mid"},
			wantRows: 2,
		},
		{
			name:     "single json object",
			input:    `{"name": "test", "value": 42}`,
			wantCols: []string{"name", "value"},
			wantRows: 1,
		},
		{
			name:     "ndjson",
			input:    "{\"id\": 1, \"tag\": \"x\"}\n{\"id\": 2}\n",
			wantCols: []string{"id", "tag"},
			wantRows: 2,
		},
		{
			name:     "multi document yaml",
			input:    "---\nname: a\nqty: 1\n---\nname: b\nqty: 2\n",
			wantCols: []string{"name", "qty"},
			wantRows: 2,
		},
		{
			name:     "yaml list",
			input:    "- name: a\n  qty: 1\n- name: b\n",
			wantCols: []string{"name", "qty"},
			wantRows: 2,
		},
		{
			name:     "toml array of tables",
			input:    "[[rows]]\nname = \"a\"\nqty = 1\n\n[[rows]]\nname = \"b\"\nqty = 2\n",
			wantCols: []string{"name", "qty"},
			wantRows: 2,
		},
		{
			name:     "csv",
			input:    "name,qty\na,1\nb,2\n",
			wantCols: []string{"name", "qty"},
			wantRows: 2,
		},
		{
			name:     "tsv",
			input:    "name\tqty\na\t1\n",
			wantCols: []string{"name", "qty"},
			wantRows: 1,
		},
		{
			name:     "list of lists",
			input:    `[[1, "a"], [2, "b"]]`,
			wantCols: []string{"f0", "f1"},
			wantRows: 2,
		},
		{
			name:     "scalars",
			input:    `[1, 2, 3]`,
			wantCols: []string{"value"},
			wantRows: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadData(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, got.Columns)
			assert.Equal(t, tt.wantRows, got.Len())
		})
	}
}

func TestLoadData_MissingKeysAreNil(t *testing.T) {
	got, err := LoadData(`[{"a": 1, "b": null}, {"a": 2}]`)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Nil(t, got.Rows[0][1])
	assert.Nil(t, got.Rows[1][1])
	assert.Equal(t, 2, got.Rows[1][0])
}

func TestLoadData_NestedValuesStayStructured(t *testing.T) {
	got, err := LoadData(`[{"id": 1, "tags": ["x", "y"], "meta": {"k": "v"}}]`)
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, got.Rows[0][1])
	assert.Equal(t, map[string]any{"k": "v"}, got.Rows[0][2])
}

func TestLoadData_Empty(t *testing.T) {
	_, err := LoadData("   \n")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParse_CSVPadsShortRows(t *testing.T) {
	got, err := Parse("a,b,c\n1,2\n3,4,5,6\n", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2", ""}, got.Rows[0])
	assert.Equal(t, []any{"3", "4", "5"}, got.Rows[1])
}

func TestParse_CSVDuplicateHeaders(t *testing.T) {
	got, err := Parse("x,x\n1,2\n", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x"}, got.Columns)
	recs := got.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]any{"x": "2"}, recs[0])
}

func TestParse_NDJSONPlainLines(t *testing.T) {
	got, err := Parse("{\"a\": 1}\nnot json\n", FormatNDJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "value"}, got.Columns)
	assert.Equal(t, "not json", got.Rows[1][1])
}

func TestLoadFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,total\n1,9.50\n"), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "total"}, got.Columns)
	assert.Equal(t, "9.50", got.Rows[0][1])

	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a": [1,`), 0o600))
	_, err = LoadFile(bad)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "broken.json:"), err.Error())
}

func TestLoadSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"name", "url"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"logo", "https://example.com/logo.png"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"k"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"v"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheets, err := Sheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Other"}, sheets)

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "url"}, got.Columns)
	assert.Equal(t, []any{"logo", "https://example.com/logo.png"}, got.Rows[0])

	other, err := LoadSheet(path, "Other")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, other.Columns)

	_, err = LoadSheet(path, "Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestFromValueOrdered(t *testing.T) {
	v := []any{
		map[string]any{"b": 1, "a": 2, "c": 3},
	}
	got := FromValueOrdered(v, []string{"c", "a"})
	assert.Equal(t, []string{"c", "a", "b"}, got.Columns)
	assert.Equal(t, []any{3, 2, 1}, got.Rows[0])
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatNDJSON, FormatForPath("x.JSONL"))
	assert.Equal(t, FormatXLSX, FormatForPath("/a/b.xlsx"))
	assert.Equal(t, FormatAuto, FormatForPath("README"))
}
