package validation

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-contactform/pkg/condition"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/rules"
)

// Option configures a Validator.
type Option func(*Validator)

// WithEvaluator overrides the evaluator used for conditional rules.
func WithEvaluator(eval condition.Evaluator) Option {
	return func(v *Validator) {
		if eval != nil {
			v.eval = eval
		}
	}
}

// WithExtras exposes caller data to rule conditions under `extras`.
func WithExtras(extras map[string]any) Option {
	return func(v *Validator) {
		v.extras = extras
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator evaluates field values against the form's rule table.
type Validator struct {
	form   model.Form
	table  *rules.Table
	eval   condition.Evaluator
	extras map[string]any
	logger *slog.Logger
}

// New builds a Validator for form, compiling its rule table.
func New(form model.Form, opts ...Option) (*Validator, error) {
	table, err := form.Rules()
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	v := &Validator{
		form:   form,
		table:  table,
		eval:   condition.NewExprEvaluator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v, nil
}

// Table exposes the compiled rule table.
func (v *Validator) Table() *rules.Table {
	return v.table
}

// FieldResult is the outcome of validating one field. Skipped is set when the
// field has no rule, is unknown, or its rule condition does not apply; skipped
// results are always valid.
type FieldResult struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Check validates a single field without touching any visual state.
func (v *Validator) Check(name string, values url.Values) FieldResult {
	result, _ := v.check(name, values)
	return result
}

// check also reports whether a rule exists but its condition switched it off.
func (v *Validator) check(name string, values url.Values) (FieldResult, bool) {
	field, ok := v.form.Field(name)
	if !ok {
		return FieldResult{Field: name, Valid: true, Skipped: true}, false
	}
	rule, ok := v.table.Lookup(name)
	if !ok {
		return FieldResult{Field: name, Valid: true, Skipped: true}, false
	}
	if !v.applies(name, rule, values) {
		return FieldResult{Field: name, Valid: true, Skipped: true}, true
	}

	valid, message := evaluate(field, rule, values)
	return FieldResult{Field: name, Valid: valid, Message: message}, false
}

func (v *Validator) applies(name string, rule rules.Compiled, values url.Values) bool {
	if strings.TrimSpace(rule.When) == "" {
		return true
	}
	ok, err := v.eval.Eval(name, rule.When, condition.Context{
		Values: v.form.Env(values),
		Extras: v.extras,
	})
	if err != nil {
		v.logger.Warn("rule condition failed, applying rule", "field", name, "when", rule.When, "error", err)
		return true
	}
	return ok
}

// evaluate runs the constraint checks in order. Required failures stop early;
// otherwise every constraint is checked against non-empty values and the last
// failure wins, all of them reporting the rule message.
func evaluate(field model.Field, rule rules.Compiled, values url.Values) (bool, string) {
	switch field.Kind {
	case model.FieldKindCheckbox:
		if rule.Required && !field.Checked(values) {
			return false, rule.RequiredMessage(field.Name)
		}
		return true, ""
	case model.FieldKindCheckboxGroup:
		if rule.Required && len(field.Selected(values)) == 0 {
			return false, rule.RequiredMessage(field.Name)
		}
		return true, ""
	}

	value := field.Text(values)
	if value == "" {
		if rule.Required {
			return false, rule.RequiredMessage(field.Name)
		}
		return true, ""
	}

	message := strings.TrimSpace(rule.Message)
	if message == "" {
		message = field.Name + " is invalid"
	}

	valid := true
	if !rule.MatchString(value) {
		valid = false
	}
	length := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && length < rule.MinLength {
		valid = false
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		valid = false
	}
	if rule.HasRange() {
		if n, ok := parseIntPrefix(value); ok {
			if rule.Min != nil && n < *rule.Min {
				valid = false
			}
			if rule.Max != nil && n > *rule.Max {
				valid = false
			}
		}
	}
	if valid {
		return true, ""
	}
	return false, message
}

// parseIntPrefix reads the leading base-10 integer of s, ignoring anything
// after it ("25.9" and "25 years" both read 25). ok is false when s does not
// start with a number.
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n < 1<<31 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ValidateField validates name and updates its mark: success clears the
// message, failure shows the rule message. Fields without a rule keep their
// current mark; a rule whose condition no longer applies clears it.
func (v *Validator) ValidateField(name string, values url.Values, marks *Marks) FieldResult {
	result, inactive := v.check(name, values)
	if marks == nil {
		return result
	}
	switch {
	case inactive:
		marks.Clear(name)
	case result.Skipped:
	case result.Valid:
		marks.Success(name)
	default:
		marks.Error(name, result.Message)
	}
	return result
}

// Live is the as-you-type check for email-like fields: a non-empty value that
// already matches the pattern is marked valid straight away, otherwise the
// field is only re-validated when it is currently showing an error. A rule
// whose condition is off clears the mark. marks may be nil.
func (v *Validator) Live(name string, values url.Values, marks *Marks) FieldResult {
	skipped := FieldResult{Field: name, Valid: true, Skipped: true}
	rule, ok := v.table.Lookup(name)
	if ok && !v.applies(name, rule, values) {
		if marks != nil {
			marks.Clear(name)
		}
		return skipped
	}
	if ok && rule.HasPattern() {
		raw := values.Get(name)
		if raw != "" && rule.MatchString(raw) {
			if marks != nil {
				marks.Success(name)
			}
			return FieldResult{Field: name, Valid: true}
		}
	}
	if marks == nil || !marks.HasError(name) {
		return skipped
	}
	return v.ValidateField(name, values, marks)
}

// Report aggregates a whole-form validation pass.
type Report struct {
	Valid   bool          `json:"valid"`
	Results []FieldResult `json:"results"`
	// Notices are non-blocking hints, such as an empty recommended field.
	Notices []string `json:"notices,omitempty"`
}

// Errors returns the failing results in validation order.
func (r Report) Errors() []FieldResult {
	var out []FieldResult
	for _, res := range r.Results {
		if !res.Valid {
			out = append(out, res)
		}
	}
	return out
}

// FirstError returns the first failing result.
func (r Report) FirstError() (FieldResult, bool) {
	for _, res := range r.Results {
		if !res.Valid {
			return res, true
		}
	}
	return FieldResult{}, false
}

// ValidateForm validates every ruled field (without stopping at the first
// failure), then applies the form-level length limits and reports empty
// recommended fields as notices.
func (v *Validator) ValidateForm(values url.Values, marks *Marks) Report {
	report := Report{Valid: true}
	for _, name := range v.table.Fields() {
		res := v.ValidateField(name, values, marks)
		report.Results = append(report.Results, res)
		if !res.Valid {
			report.Valid = false
		}
	}

	for _, limit := range v.form.Limits {
		field, ok := v.form.Field(limit.Field)
		if !ok {
			continue
		}
		_, ruled := v.table.Lookup(limit.Field)
		if utf8.RuneCountInString(field.Text(values)) > limit.Max {
			if marks != nil {
				marks.Error(limit.Field, limit.Message)
			}
			report.Results = append(report.Results, FieldResult{Field: limit.Field, Message: limit.Message})
			report.Valid = false
			continue
		}
		if marks != nil && !ruled {
			marks.Clear(limit.Field)
		}
	}

	for _, name := range v.form.Recommended {
		field, ok := v.form.Field(name)
		if !ok || !isEmpty(field, values) {
			continue
		}
		notice := fmt.Sprintf("No %s selected - this is optional", name)
		report.Notices = append(report.Notices, notice)
		v.logger.Debug(notice, "field", name)
	}

	if !report.Valid {
		v.logger.Info("form validation failed", "form", v.form.ID, "errors", len(report.Errors()))
	}
	return report
}

func isEmpty(field model.Field, values url.Values) bool {
	switch field.Kind {
	case model.FieldKindCheckbox:
		return !field.Checked(values)
	case model.FieldKindCheckboxGroup:
		return len(field.Selected(values)) == 0
	default:
		return field.Text(values) == ""
	}
}
