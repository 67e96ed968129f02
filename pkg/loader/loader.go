// Package loader reads tabular data files into a Table: ordered column names
// and rows of raw values. It understands JSON, NDJSON, YAML (single and
// multi-document), TOML, CSV/TSV and XLSX workbooks.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("empty input")
	// ErrUnsupportedFormat is returned for file extensions the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format names a supported input encoding.
type Format string

const (
	FormatAuto   Format = ""
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatXLSX   Format = "xlsx"
)

// Extensions lists the file extensions recognised by FormatForPath, in the
// order a catalog should probe them.
var Extensions = []string{".json", ".ndjson", ".jsonl", ".yaml", ".yml", ".toml", ".csv", ".tsv", ".xlsx"}

// FormatForPath maps a file extension to a Format. Unknown extensions return
// FormatAuto so the content is sniffed.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatAuto
	}
}

// LoadFile reads path and parses it according to its extension. XLSX files
// load their first sheet; use LoadSheet to pick another.
func LoadFile(path string) (Table, error) {
	format := FormatForPath(path)
	if format == FormatXLSX {
		return LoadSheet(path, "")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	t, err := Parse(string(data), format)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// LoadReader reads all of r and sniffs its format.
func LoadReader(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read input: %w", err)
	}
	return LoadData(string(data))
}

// LoadData parses input, auto-detecting its format.
func LoadData(input string) (Table, error) {
	return Parse(input, FormatAuto)
}

// Parse parses input as the given format. FormatAuto sniffs the content:
// multi-document YAML, NDJSON, TOML, JSON, CSV and finally YAML are tried in
// that order.
func Parse(input string, format Format) (Table, error) {
	if strings.TrimSpace(input) == "" {
		return Table{}, ErrEmptyInput
	}
	switch format {
	case FormatJSON:
		return loadJSON(input)
	case FormatNDJSON:
		return loadNDJSON(input)
	case FormatYAML:
		return loadYAML(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatCSV:
		return loadDelimited(input, ',')
	case FormatTSV:
		return loadDelimited(input, '\t')
	case FormatXLSX:
		return Table{}, fmt.Errorf("xlsx needs a file path: %w", ErrUnsupportedFormat)
	case FormatAuto:
		return sniff(input)
	default:
		return Table{}, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

func sniff(input string) (Table, error) {
	trimmed := strings.TrimSpace(input)

	if strings.Contains(trimmed, "\n---") || strings.HasPrefix(trimmed, "---") {
		return loadYAML(trimmed)
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(trimmed)
	}

	// TOML [section] headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(trimmed) {
		return loadTOML(trimmed)
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return loadJSON(trimmed)
	}

	if isLikelyDelimited(lines, '\t') {
		return loadDelimited(trimmed, '\t')
	}
	if isLikelyDelimited(lines, ',') {
		return loadDelimited(trimmed, ',')
	}

	return loadYAML(trimmed)
}

// isLikelyNDJSON requires several non-empty lines, most of them starting like
// a JSON object or array. YAML block lists ("- name") do not qualify.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML looks for [section] headers or a majority of key = value lines.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
