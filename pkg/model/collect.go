package model

import (
	"net/url"
	"time"
)

// Data is the collected snapshot of a form: what gets submitted and what the
// autosave store keeps.
type Data struct {
	Text        map[string]string   `json:"text,omitempty"`
	Lists       map[string][]string `json:"lists,omitempty"`
	Flags       map[string]bool     `json:"flags,omitempty"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

// Empty reports whether the snapshot carries no field data.
func (d Data) Empty() bool {
	return len(d.Text) == 0 && len(d.Lists) == 0 && len(d.Flags) == 0
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	out := Data{SubmittedAt: d.SubmittedAt}
	if d.Text != nil {
		out.Text = make(map[string]string, len(d.Text))
		for k, v := range d.Text {
			out.Text[k] = v
		}
	}
	if d.Lists != nil {
		out.Lists = make(map[string][]string, len(d.Lists))
		for k, v := range d.Lists {
			out.Lists[k] = append([]string{}, v...)
		}
	}
	if d.Flags != nil {
		out.Flags = make(map[string]bool, len(d.Flags))
		for k, v := range d.Flags {
			out.Flags[k] = v
		}
	}
	return out
}

// Collect reads every field from values. Text controls and radios are
// trimmed, checkbox groups keep their checked options (possibly none) and
// single checkboxes become flags. now stamps SubmittedAt.
func Collect(form Form, values url.Values, now time.Time) Data {
	data := Data{
		Text:        make(map[string]string),
		Lists:       make(map[string][]string),
		Flags:       make(map[string]bool),
		SubmittedAt: now.UTC(),
	}
	for _, field := range form.Fields {
		switch field.Kind {
		case FieldKindCheckbox:
			data.Flags[field.Name] = field.Checked(values)
		case FieldKindCheckboxGroup:
			selected := field.Selected(values)
			if selected == nil {
				selected = []string{}
			}
			data.Lists[field.Name] = selected
		default:
			data.Text[field.Name] = field.Text(values)
		}
	}
	return data
}

// Restore writes a snapshot back onto values following the form's restore
// rules: text is only restored when the saved value is non-empty, a radio or
// select is restored when its saved option still exists, group options are
// checked on top of the current ones and checkboxes are only ever checked,
// never cleared. It reports whether anything was applied.
func Restore(form Form, data Data, values url.Values) bool {
	if data.Empty() {
		return false
	}
	applied := false
	for _, field := range form.Fields {
		switch field.Kind {
		case FieldKindCheckbox:
			if data.Flags[field.Name] {
				values.Set(field.Name, CheckedValue)
				applied = true
			}
		case FieldKindCheckboxGroup:
			saved := data.Lists[field.Name]
			if len(saved) == 0 {
				continue
			}
			current := make(map[string]struct{}, len(values[field.Name]))
			for _, v := range values[field.Name] {
				current[v] = struct{}{}
			}
			for _, v := range saved {
				if !field.HasOption(v) {
					continue
				}
				if _, ok := current[v]; ok {
					continue
				}
				values.Add(field.Name, v)
				current[v] = struct{}{}
				applied = true
			}
		case FieldKindRadio, FieldKindSelect:
			saved := data.Text[field.Name]
			if saved == "" || !field.HasOption(saved) {
				continue
			}
			values.Set(field.Name, saved)
			applied = true
		default:
			saved := data.Text[field.Name]
			if saved == "" {
				continue
			}
			values.Set(field.Name, saved)
			applied = true
		}
	}
	return applied
}
