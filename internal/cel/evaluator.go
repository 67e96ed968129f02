// Package cel wraps cel-go for the query language: an environment with the
// common extension libraries, "_" bound to the evaluation input, and an
// optional table("id") function that resolves catalog tables.
package cel

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
)

// TableFunctionName is the name of the table lookup function.
const TableFunctionName = "table"

// TableFunc resolves a table id to its rows, each row a map of column name to
// value.
type TableFunc func(id string) ([]any, error)

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates a new CEL evaluator with standard library functions.
// Extra options extend the environment, e.g. WithTables.
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Environment returns the CEL environment for introspection.
func (e *Evaluator) Environment() *cel.Env {
	return e.env
}

// WithTables declares table(string) -> list(dyn) backed by fn. A lookup error
// becomes a CEL evaluation error carrying fn's message.
func WithTables(fn TableFunc) cel.EnvOption {
	return cel.Function(TableFunctionName,
		cel.Overload("table_string",
			[]*cel.Type{cel.StringType},
			cel.ListType(cel.DynType),
			cel.UnaryBinding(func(arg ref.Val) ref.Val {
				id, ok := arg.(types.String)
				if !ok {
					return types.NewErr("table() requires a string argument")
				}
				rows, err := fn(string(id))
				if err != nil {
					return types.NewErr("%s", err.Error())
				}
				return types.DefaultTypeAdapter.NativeToValue(rows)
			}),
		),
	)
}

// newStandardCELEnv creates a standard CEL environment with common extensions.
func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// EvaluateExpressionWithEnv compiles expr in env and evaluates it with data
// bound to "_". Comprehensions check ctx for cancellation.
func EvaluateExpressionWithEnv(ctx context.Context, env *cel.Env, expr string, data any) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("compilation error: empty expression")
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}

	prg, err := env.Program(ast, cel.InterruptCheckFrequency(100))
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	result, _, err := prg.ContextEval(ctx, map[string]any{
		"_": data,
	})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}

	converted := ToGo(result)
	if refVal, ok := converted.(ref.Val); ok {
		converted = refVal.Value()
	}
	return converted, nil
}

// Evaluate evaluates a CEL expression against data, which the expression
// reaches as "_".
func (e *Evaluator) Evaluate(ctx context.Context, expr string, data any) (any, error) {
	return EvaluateExpressionWithEnv(ctx, e.env, expr, data)
}

// ToGo converts CEL values to Go native values recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	case types.Timestamp:
		return v.Time
	}

	inner := val.Value()
	switch x := inner.(type) {
	case []ref.Val:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		return convertSlice(x)
	case map[string]any:
		return convertMapValues(x)
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[fmt.Sprintf("%v", k.Value())] = ToGo(v)
		}
		return out
	}

	// Lists and maps built by comprehensions only expose their elements
	// through the traits interfaces.
	if lister, ok := val.(interface {
		Size() ref.Val
		Get(ref.Val) ref.Val
	}); ok && val.Type() == types.ListType {
		n, _ := lister.Size().(types.Int)
		out := make([]any, int(n))
		for i := range out {
			out[i] = ToGo(lister.Get(types.Int(i)))
		}
		return out
	}
	return inner
}

func convertSlice(s []any) []any {
	out := make([]any, len(s))
	for i, elem := range s {
		out[i] = convertNative(elem)
	}
	return out
}

// convertMapValues recursively converts map values from CEL types.
func convertMapValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = convertNative(v)
	}
	return out
}

func convertNative(v any) any {
	switch x := v.(type) {
	case ref.Val:
		return ToGo(x)
	case map[string]any:
		return convertMapValues(x)
	case []any:
		return convertSlice(x)
	default:
		return v
	}
}

// Functions lists the callable functions and macros of an environment built
// with opts, sorted, with operator declarations filtered out.
func Functions(opts ...cel.EnvOption) ([]string, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	seen := make(map[string]bool)
	for _, fn := range env.Functions() {
		if isOperator(fn.Name()) {
			continue
		}
		seen[fn.Name()] = true
	}
	for _, m := range env.Macros() {
		if isOperator(m.Function()) {
			continue
		}
		seen[m.Function()] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// isOperator filters out internal operator-style declarations.
func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	operators := map[string]bool{
		"!_": true, "-_": true, "@in": true,
		"_[_]": true, "_?_:_": true,
	}
	return operators[name]
}
