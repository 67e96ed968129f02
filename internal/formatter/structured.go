package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

// UniqueColumns returns the column names with repeats suffixed "_2", "_3"…
// so they can key an object.
func UniqueColumns(columns []string) []string {
	out := make([]string, len(columns))
	used := make(map[string]bool, len(columns))
	for _, c := range columns {
		used[c] = true
	}
	counts := make(map[string]int, len(columns))
	for i, c := range columns {
		counts[c]++
		if counts[c] == 1 {
			out[i] = c
			continue
		}
		n := counts[c]
		name := fmt.Sprintf("%s_%d", c, n)
		for used[name] {
			n++
			name = fmt.Sprintf("%s_%d", c, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// RenderJSON writes the rows as a JSON array of objects whose keys follow
// column order.
func RenderJSON(g grid.Grid) (string, error) {
	cols := UniqueColumns(g.Columns)
	var buf bytes.Buffer
	buf.WriteString("[")
	for r, row := range g.Rows {
		if r > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for c, v := range row {
			if c > 0 {
				buf.WriteString(", ")
			}
			if err := writeJSONString(&buf, cols[c]); err != nil {
				return "", err
			}
			buf.WriteString(": ")
			if err := writeJSONString(&buf, v); err != nil {
				return "", err
			}
		}
		buf.WriteString("}")
	}
	if len(g.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.String(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// RenderYAML writes the rows as a YAML sequence of mappings in column order.
// Multi-line values use literal blocks.
func RenderYAML(g grid.Grid) (string, error) {
	cols := UniqueColumns(g.Columns)
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range g.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for c, v := range row {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cols[c]},
				stringNode(v),
			)
		}
		seq.Content = append(seq.Content, m)
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}
