package loader

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Table is tabular data as loaded from a file: ordered column names and rows
// of raw values aligned to them. A nil value marks a missing or null cell.
// Column names may repeat (CSV headers, spreadsheet headers).
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Records returns each row as a map keyed by column name. When names repeat,
// the rightmost column wins.
func (t Table) Records() []any {
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j]
			} else {
				rec[col] = nil
			}
		}
		out[i] = rec
	}
	return out
}

type field struct {
	key   string
	value any
}

// recordBuilder accumulates records with possibly differing keys and lines
// them up under the union of keys, in first-seen order.
type recordBuilder struct {
	columns []string
	index   map[string]int
	records [][]field
}

func newRecordBuilder() *recordBuilder {
	return &recordBuilder{index: map[string]int{}}
}

func (b *recordBuilder) add(fields []field) {
	for _, f := range fields {
		if _, ok := b.index[f.key]; !ok {
			b.index[f.key] = len(b.columns)
			b.columns = append(b.columns, f.key)
		}
	}
	b.records = append(b.records, fields)
}

func (b *recordBuilder) table() Table {
	rows := make([][]any, len(b.records))
	for i, rec := range b.records {
		row := make([]any, len(b.columns))
		for _, f := range rec {
			row[b.index[f.key]] = f.value
		}
		rows[i] = row
	}
	return Table{Columns: b.columns, Rows: rows}
}

// addNode adds the records held by a YAML node. A sequence contributes one
// record per item; anything else is a single record.
func (b *recordBuilder) addNode(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := b.addNode(c); err != nil {
				return err
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if err := b.addNodeRecord(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return b.addNodeRecord(n)
	}
}

func (b *recordBuilder) addNodeRecord(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	var fields []field
	switch n.Kind {
	case yaml.MappingNode:
		fields = make([]field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var v any
			if err := n.Content[i+1].Decode(&v); err != nil {
				return fmt.Errorf("line %d: %w", n.Content[i+1].Line, err)
			}
			fields = append(fields, field{key: n.Content[i].Value, value: v})
		}
	case yaml.SequenceNode:
		fields = make([]field, 0, len(n.Content))
		for i, c := range n.Content {
			var v any
			if err := c.Decode(&v); err != nil {
				return fmt.Errorf("line %d: %w", c.Line, err)
			}
			fields = append(fields, field{key: positionalColumn(i), value: v})
		}
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		fields = []field{{key: ValueColumn, value: v}}
	}
	b.add(fields)
	return nil
}

// addValue is addNode for already-decoded values, whose map keys carry no
// order; they are sorted.
func (b *recordBuilder) addValue(v any) {
	if items, ok := v.([]any); ok {
		for _, item := range items {
			b.addValueRecord(item)
		}
		return
	}
	b.addValueRecord(v)
}

func (b *recordBuilder) addValueRecord(v any) {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]field, len(keys))
		for i, k := range keys {
			fields[i] = field{key: k, value: x[k]}
		}
		b.add(fields)
	case []any:
		fields := make([]field, len(x))
		for i, item := range x {
			fields[i] = field{key: positionalColumn(i), value: item}
		}
		b.add(fields)
	default:
		b.add([]field{{key: ValueColumn, value: v}})
	}
}

// ValueColumn names the single column produced for scalar records.
const ValueColumn = "value"

func positionalColumn(i int) string {
	return fmt.Sprintf("f%d", i)
}

// FromValue shapes an arbitrary decoded value into a Table: a list of maps
// becomes one row per map, a list of lists becomes positional columns f0..fn,
// scalars become a single "value" column.
func FromValue(v any) Table {
	b := newRecordBuilder()
	b.addValue(v)
	return b.table()
}

// FromValueOrdered is FromValue with a preferred column order. Columns named
// in order come first, in that order; other keys follow sorted.
func FromValueOrdered(v any, order []string) Table {
	t := FromValue(v)
	if len(order) == 0 || len(t.Columns) == 0 {
		return t
	}
	rank := make(map[string]int, len(order))
	for i, c := range order {
		if _, ok := rank[c]; !ok {
			rank[c] = i
		}
	}
	perm := make([]int, len(t.Columns))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ca, cb := t.Columns[perm[a]], t.Columns[perm[b]]
		ra, oka := rank[ca]
		rb, okb := rank[cb]
		switch {
		case oka && okb:
			return ra < rb
		case oka:
			return true
		default:
			return false
		}
	})
	cols := make([]string, len(perm))
	for i, p := range perm {
		cols[i] = t.Columns[p]
	}
	rows := make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]any, len(perm))
		for i, p := range perm {
			out[i] = row[p]
		}
		rows[r] = out
	}
	return Table{Columns: cols, Rows: rows}
}
