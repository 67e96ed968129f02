package loader

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// loadDelimited parses CSV (sep ',') or TSV (sep '\t'). The first record is
// the header. Short rows are padded with "" and long rows are cut to the
// header width.
func loadDelimited(input string, sep rune) (Table, error) {
	r := csv.NewReader(strings.NewReader(input))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyInput
	}
	return tableFromStrings(records), nil
}

func tableFromStrings(records [][]string) Table {
	header := records[0]
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(header))
		for j := range header {
			if j < len(rec) {
				row[j] = rec[j]
			} else {
				row[j] = ""
			}
		}
		rows = append(rows, row)
	}
	return Table{Columns: header, Rows: rows}
}

// isLikelyDelimited reports whether the first lines all carry the same,
// non-zero number of separators.
func isLikelyDelimited(lines []string, sep rune) bool {
	want := -1
	checked := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := strings.Count(line, string(sep))
		if n == 0 {
			return false
		}
		if want >= 0 && n != want {
			return false
		}
		want = n
		checked++
		if checked == 5 {
			break
		}
	}
	return checked > 1
}
