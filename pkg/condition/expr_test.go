package condition_test

import (
	"testing"

	"github.com/goliatone/go-contactform/pkg/condition"
)

func TestExprEvaluator(t *testing.T) {
	eval := condition.NewExprEvaluator()
	ctx := condition.Context{
		Values: map[string]any{
			"position": "developer",
			"skills":   []string{"go", "sql"},
			"terms":    true,
		},
		Extras: map[string]any{"strict": true},
	}

	cases := []struct {
		rule string
		want bool
	}{
		{rule: "", want: true},
		{rule: `position == "developer"`, want: true},
		{rule: `position != "developer"`, want: false},
		{rule: `len(skills) > 1 && terms`, want: true},
		{rule: `"go" in skills`, want: true},
		{rule: `values.position == "designer"`, want: false},
		{rule: `values.position == "developer" && values.terms`, want: true},
		{rule: `"sql" in values.skills`, want: true},
		{rule: `extras.strict`, want: true},
		{rule: `missing == nil`, want: true},
	}
	for _, tc := range cases {
		got, err := eval.Eval("experience", tc.rule, ctx)
		if err != nil {
			t.Fatalf("eval %q: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("eval %q = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestExprEvaluatorErrors(t *testing.T) {
	eval := condition.NewExprEvaluator()
	if _, err := eval.Eval("age", `position ==`, condition.Context{}); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := eval.Eval("age", `"not a bool"`, condition.Context{}); err == nil {
		t.Fatalf("expected non-bool error")
	}
}

func TestAlways(t *testing.T) {
	ok, err := condition.Always.Eval("x", "false", condition.Context{})
	if err != nil || !ok {
		t.Fatalf("Always should apply, got %v (%v)", ok, err)
	}
}
