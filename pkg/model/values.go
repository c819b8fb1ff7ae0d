package model

import (
	"net/url"
	"strings"
)

// CheckedValue is what a checked single checkbox posts when it has no
// explicit value.
const CheckedValue = "on"

// Raw inputs are url.Values, shaped like a browser form post: text-like
// controls hold one value, a radio holds the selected option, a checkbox holds
// CheckedValue while checked and a checkbox group holds every checked option.

// Text returns the trimmed value of a text-like control or the selected radio
// option. Missing fields yield "".
func (f Field) Text(values url.Values) string {
	return strings.TrimSpace(values.Get(f.Name))
}

// Checked reports whether a single checkbox is checked. An empty value is not
// a check.
func (f Field) Checked(values url.Values) bool {
	return values.Get(f.Name) != ""
}

// Selected returns the checked options of a checkbox group in option order.
// Values that are not declared options are dropped.
func (f Field) Selected(values url.Values) []string {
	picked := values[f.Name]
	if len(picked) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(picked))
	for _, v := range picked {
		seen[v] = struct{}{}
	}
	var out []string
	for _, opt := range f.Options {
		if _, ok := seen[opt.Value]; ok {
			out = append(out, opt.Value)
		}
	}
	return out
}

// HasOption reports whether value is one of the declared options.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// IsCheckbox reports whether the field is a single checkbox.
func (f Field) IsCheckbox() bool {
	return f.Kind == FieldKindCheckbox
}

// IsChoice reports whether the field picks from declared options.
func (f Field) IsChoice() bool {
	switch f.Kind {
	case FieldKindRadio, FieldKindSelect, FieldKindCheckboxGroup:
		return true
	default:
		return false
	}
}

// CloneValues returns a deep copy of values.
func CloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Env flattens raw inputs for expression evaluation: single-valued controls
// become strings, checkbox groups become string slices and single checkboxes
// become booleans. Every declared field is present.
func (f Form) Env(values url.Values) map[string]any {
	env := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		switch field.Kind {
		case FieldKindCheckbox:
			env[field.Name] = field.Checked(values)
		case FieldKindCheckboxGroup:
			selected := field.Selected(values)
			if selected == nil {
				selected = []string{}
			}
			env[field.Name] = selected
		default:
			env[field.Name] = field.Text(values)
		}
	}
	return env
}
