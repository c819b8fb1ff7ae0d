package condition

import (
	"fmt"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluator evaluates rule conditions with github.com/expr-lang/expr.
// Field values are exposed as top-level identifiers (`position != ""`) and
// under `values`; caller extras live under `extras`. Compiled programs are
// cached per expression.
type ExprEvaluator struct {
	mu       sync.RWMutex
	programs map[string]*exprvm.Program
}

// NewExprEvaluator constructs an expr-backed Evaluator.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{programs: make(map[string]*exprvm.Program)}
}

// Eval compiles (once) and runs rule. Empty rules always apply.
func (e *ExprEvaluator) Eval(field, rule string, ctx Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	program, err := e.program(trimmed)
	if err != nil {
		return false, fmt.Errorf("condition: field %q: compile %q: %w", field, trimmed, err)
	}

	out, err := exprvm.Run(program, environment(ctx))
	if err != nil {
		return false, fmt.Errorf("condition: field %q: run %q: %w", field, trimmed, err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition: field %q: %q returned %T, want bool", field, trimmed, out)
	}
	return result, nil
}

func (e *ExprEvaluator) program(expression string) (*exprvm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	// values is also an expr builtin; the form namespace takes precedence.
	program, err := exprlang.Compile(expression,
		exprlang.AllowUndefinedVariables(),
		exprlang.DisableBuiltin("values"),
	)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.programs[expression] = program
	e.mu.Unlock()
	return program, nil
}

func environment(ctx Context) map[string]any {
	env := make(map[string]any, len(ctx.Values)+2)
	for name, value := range ctx.Values {
		env[name] = value
	}
	values := ctx.Values
	if values == nil {
		values = map[string]any{}
	}
	extras := ctx.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	env["values"] = values
	env["extras"] = extras
	return env
}
