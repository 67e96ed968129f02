package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// loadJSON parses a JSON document. Objects keep their key order by going
// through the YAML node tree (JSON is valid YAML); inputs YAML rejects, such
// as tab-indented JSON, fall back to encoding/json with sorted keys.
func loadJSON(input string) (Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(input), &doc); err == nil {
		b := newRecordBuilder()
		if err := b.addNode(&doc); err == nil {
			return b.table(), nil
		}
	}
	var data any
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return Table{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromValue(data), nil
}

// loadYAML parses one or more YAML documents. Each document contributes its
// records; a document holding a list contributes one record per item.
func loadYAML(input string) (Table, error) {
	b := newRecordBuilder()
	dec := yaml.NewDecoder(strings.NewReader(input))
	docs := 0
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("invalid YAML: %w", err)
		}
		if len(doc.Content) == 0 || isNullNode(doc.Content[0]) {
			continue
		}
		if err := b.addNode(&doc); err != nil {
			return Table{}, fmt.Errorf("invalid YAML: %w", err)
		}
		docs++
	}
	if docs == 0 {
		return Table{}, fmt.Errorf("no documents found in YAML: %w", ErrEmptyInput)
	}
	return b.table(), nil
}

func isNullNode(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// loadNDJSON parses one JSON value per line. Lines that are not valid JSON
// become plain string records.
func loadNDJSON(input string) (Table, error) {
	b := newRecordBuilder()
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "{") && !strings.HasPrefix(line, "[") {
			b.add([]field{{key: ValueColumn, value: line}})
			continue
		}
		var n yaml.Node
		if err := yaml.Unmarshal([]byte(line), &n); err != nil || len(n.Content) == 0 {
			b.add([]field{{key: ValueColumn, value: line}})
			continue
		}
		if err := b.addNodeRecord(n.Content[0]); err != nil {
			return Table{}, fmt.Errorf("invalid NDJSON: %w", err)
		}
	}
	if len(b.records) == 0 {
		return Table{}, ErrEmptyInput
	}
	return b.table(), nil
}

// loadTOML parses a TOML document. A document whose only top-level key is an
// array of tables ([[rows]]) yields one record per table; any other document
// is a single record.
func loadTOML(input string) (Table, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return Table{}, fmt.Errorf("invalid TOML: %w", err)
	}
	if len(data) == 1 {
		for _, v := range data {
			if items, ok := v.([]any); ok {
				return FromValue(items), nil
			}
		}
	}
	return FromValue(data), nil
}
