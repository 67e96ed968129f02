package loader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a workbook has no sheet of the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// Sheets lists the sheet names of an XLSX workbook in workbook order.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// LoadSheet reads one sheet of an XLSX workbook. The first row is the header.
// An empty sheet name selects the first sheet.
func LoadSheet(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("%s: %w", path, ErrSheetNotFound)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return Table{}, fmt.Errorf("%s: %q: %w", path, sheet, ErrSheetNotFound)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("%s: read sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	return tableFromStrings(rows), nil
}
