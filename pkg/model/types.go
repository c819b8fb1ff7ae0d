package model

import (
	"time"

	"github.com/goliatone/go-contactform/pkg/rules"
)

// FieldKind is the input control backing a field.
type FieldKind string

const (
	FieldKindText          FieldKind = "text"
	FieldKindEmail         FieldKind = "email"
	FieldKindTel           FieldKind = "tel"
	FieldKindNumber        FieldKind = "number"
	FieldKindTextArea      FieldKind = "textarea"
	FieldKindSelect        FieldKind = "select"
	FieldKindRadio         FieldKind = "radio"
	FieldKindCheckbox      FieldKind = "checkbox"
	FieldKindCheckboxGroup FieldKind = "checkbox-group"
)

// Valid reports whether k is a known kind.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindEmail, FieldKindTel, FieldKindNumber, FieldKindTextArea,
		FieldKindSelect, FieldKindRadio, FieldKindCheckbox, FieldKindCheckboxGroup:
		return true
	default:
		return false
	}
}

// Typed reports whether k is a control the user types into, as opposed to a
// checkbox or a choice.
func (k FieldKind) Typed() bool {
	switch k {
	case FieldKindText, FieldKindEmail, FieldKindTel, FieldKindNumber, FieldKindTextArea:
		return true
	default:
		return false
	}
}

// MaskPhone formats tel inputs as (ddd) ddd-dddd while typing.
const MaskPhone = "phone"

// Option is a selectable value for radio, select and checkbox group fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Range bounds a number input. Typed values outside it are pulled back in.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Field models a single control on the form.
type Field struct {
	Name        string      `json:"name"`
	Kind        FieldKind   `json:"kind"`
	Label       string      `json:"label,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Options     []Option    `json:"options,omitempty"`
	Clamp       *Range      `json:"clamp,omitempty"`
	Mask        string      `json:"mask,omitempty"`
	Rule        *rules.Rule `json:"rule,omitempty"`
}

// Payload encodings applied when a collected value is written to the
// submission body.
const (
	EncodingText  = ""
	EncodingJoin  = "join"
	EncodingYesNo = "yesno"
	EncodingTime  = "time"
)

// SourceSubmittedAt names the collection timestamp as a payload source.
const SourceSubmittedAt = "submittedAt"

// PayloadField maps a collected value onto an outbound form key.
type PayloadField struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Encoding string `json:"encoding,omitempty"`
}

// Limit caps the trimmed length of a free-text field during whole-form
// validation and drives its character counter.
type Limit struct {
	Field   string `json:"field"`
	Max     int    `json:"max"`
	Message string `json:"message"`
}

// Form is the full definition of a contact form: fields, rules, submission
// target and timing.
type Form struct {
	ID             string         `json:"id"`
	Title          string         `json:"title,omitempty"`
	Endpoint       string         `json:"endpoint"`
	Method         string         `json:"method"`
	SubmitLabel    string         `json:"submitLabel"`
	BusyLabel      string         `json:"busyLabel"`
	SuccessMessage string         `json:"successMessage,omitempty"`
	FailureMessage string         `json:"failureMessage,omitempty"`
	Fields         []Field        `json:"fields"`
	Payload        []PayloadField `json:"payload"`
	Limits         []Limit        `json:"limits,omitempty"`
	// Recommended fields are reported when empty but never block submission.
	Recommended      []string      `json:"recommended,omitempty"`
	AutosaveInterval time.Duration `json:"autosaveInterval"`
	ResetDelay       time.Duration `json:"resetDelay"`
}

// Field returns the field named name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns field names in form order.
func (f Form) FieldNames() []string {
	out := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		out = append(out, field.Name)
	}
	return out
}

// Rules builds the rule table from the fields that declare a rule.
func (f Form) Rules() (*rules.Table, error) {
	var entries []rules.Entry
	for _, field := range f.Fields {
		if field.Rule == nil {
			continue
		}
		entries = append(entries, rules.Entry{Field: field.Name, Rule: *field.Rule})
	}
	return rules.NewTable(entries...)
}

// Limit returns the length limit registered for field.
func (f Form) Limit(field string) (Limit, bool) {
	for _, limit := range f.Limits {
		if limit.Field == field {
			return limit, true
		}
	}
	return Limit{}, false
}
