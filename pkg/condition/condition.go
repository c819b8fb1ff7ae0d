package condition

// Evaluator decides whether a conditional rule applies to a field given the
// current form values.
type Evaluator interface {
	Eval(field, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the flattened form
// values keyed by field name while Extras lets callers inject anything else
// (feature flags, request metadata) under the `extras` identifier.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field, rule string, ctx Context) (bool, error) {
	return fn(field, rule, ctx)
}

// Always is an Evaluator that applies every rule.
var Always Evaluator = EvaluatorFunc(func(string, string, Context) (bool, error) {
	return true, nil
})
