package cel

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestFunctionsIncludesExtensions(t *testing.T) {
	funcs, err := Functions()
	if err != nil {
		t.Fatalf("Functions error: %v", err)
	}
	if len(funcs) < 10 {
		t.Fatalf("expected at least 10 CEL functions, got %d: %v", len(funcs), funcs)
	}
	for _, f := range funcs {
		if strings.HasPrefix(f, "@") || strings.HasPrefix(f, "_") {
			t.Fatalf("operator leaked into function list: %q", f)
		}
	}
}

func TestFunctionsIncludesTable(t *testing.T) {
	funcs, err := Functions(WithTables(func(string) ([]any, error) { return nil, nil }))
	if err != nil {
		t.Fatalf("Functions error: %v", err)
	}
	found := false
	for _, f := range funcs {
		if f == TableFunctionName {
			found = true
		}
	}
	if !found {
		t.Fatalf("table() missing from %v", funcs)
	}
}

func TestNewEvaluator_CreatesValidEnvironment(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	if eval.Environment() == nil {
		t.Fatal("Environment returned nil")
	}
}

func TestEvaluate_SimpleExpressions(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	tests := []struct {
		name     string
		expr     string
		data     any
		expected any
	}{
		{"access field", "_.name", map[string]any{"name": "test"}, "test"},
		{"access number", "_.count", map[string]any{"count": 42}, int64(42)},
		{"array index", "_[0]", []any{"first", "second"}, "first"},
		{"boolean", "_.active", map[string]any{"active": true}, true},
		{"double", "1.5 * 2.0", nil, float64(3)},
		{"null", "null", nil, nil},
		{"list literal", "[1, 2]", nil, []any{int64(1), int64(2)}},
		{"map literal", `{"a": 1}`, nil, map[string]any{"a": int64(1)}},
		{"filter", "_.filter(x, x > 1)", []any{1, 2, 3}, []any{int64(2), int64(3)}},
		{"map macro", `_.map(x, x.name)`, []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}, []any{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eval.Evaluate(context.Background(), tt.expr, tt.data)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Fatalf("expected %#v, got %#v", tt.expected, result)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	tests := []struct {
		name   string
		expr   string
		prefix string
	}{
		{"empty", "  ", "compilation error"},
		{"syntax", "_.(", "compilation error"},
		{"missing key", "_.nope", "eval error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.Evaluate(context.Background(), tt.expr, map[string]any{})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.HasPrefix(err.Error(), tt.prefix) {
				t.Fatalf("expected %q prefix, got %v", tt.prefix, err)
			}
		})
	}
}

func TestEvaluate_TableFunction(t *testing.T) {
	tables := map[string][]any{
		"sales.orders": {
			map[string]any{"id": 1, "total": 9.5},
			map[string]any{"id": 2, "total": 20.0},
		},
	}
	var calls []string
	eval, err := NewEvaluator(WithTables(func(id string) ([]any, error) {
		calls = append(calls, id)
		rows, ok := tables[id]
		if !ok {
			return nil, errors.New("table " + id + " not found")
		}
		return rows, nil
	}))
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	got, err := eval.Evaluate(context.Background(), `table("sales.orders").filter(r, r.total > 10.0)`, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	want := []any{map[string]any{"id": 2, "total": 20.0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	if len(calls) != 1 || calls[0] != "sales.orders" {
		t.Fatalf("unexpected lookups %v", calls)
	}

	_, err = eval.Evaluate(context.Background(), `table("sales.missing")`, nil)
	if err == nil || !strings.Contains(err.Error(), "table sales.missing not found") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items := make([]any, 1000)
	for i := range items {
		items[i] = i
	}
	if _, err := eval.Evaluate(ctx, "_.map(x, _.filter(y, y == x)).size()", items); err == nil {
		t.Fatal("expected cancellation error")
	}
}
