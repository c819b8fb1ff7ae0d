package rules

import (
	"fmt"
	"strings"
)

// Entry pairs a field name with its rule when building a Table.
type Entry struct {
	Field string
	Rule  Rule
}

// Table maps field names to compiled rules, preserving declaration order so
// whole-form validation visits fields the way they appear on the form.
type Table struct {
	order []string
	rules map[string]Compiled
}

// NewTable compiles the provided entries. Duplicate or empty field names are
// rejected.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		order: make([]string, 0, len(entries)),
		rules: make(map[string]Compiled, len(entries)),
	}
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Field)
		if name == "" {
			return nil, fmt.Errorf("rules: entry with empty field name")
		}
		if _, exists := t.rules[name]; exists {
			return nil, fmt.Errorf("rules: duplicate rule for field %q", name)
		}
		compiled, err := Compile(entry.Rule)
		if err != nil {
			return nil, fmt.Errorf("rules: field %q: %w", name, err)
		}
		t.order = append(t.order, name)
		t.rules[name] = compiled
	}
	return t, nil
}

// Lookup returns the rule for field.
func (t *Table) Lookup(field string) (Compiled, bool) {
	if t == nil {
		return Compiled{}, false
	}
	rule, ok := t.rules[field]
	return rule, ok
}

// Fields returns the ruled field names in declaration order.
func (t *Table) Fields() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len reports the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Entries returns the uncompiled rules in declaration order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, Entry{Field: name, Rule: t.rules[name].Rule})
	}
	return out
}

const (
	namePattern  = `^[a-zA-Z\s'-]+$`
	emailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	phonePattern = `^[\+]?[\d\s\-\(\)]{10,15}$`
)

// DefaultEntries returns the contact form rule table.
func DefaultEntries() []Entry {
	return []Entry{
		{Field: "firstName", Rule: Rule{
			Required:  true,
			MinLength: 2,
			MaxLength: 50,
			Pattern:   namePattern,
			Message:   "First name must be 2-50 characters and contain only letters, spaces, hyphens, and apostrophes",
		}},
		{Field: "lastName", Rule: Rule{
			Required:  true,
			MinLength: 2,
			MaxLength: 50,
			Pattern:   namePattern,
			Message:   "Last name must be 2-50 characters and contain only letters, spaces, hyphens, and apostrophes",
		}},
		{Field: "email", Rule: Rule{
			Required: true,
			Pattern:  emailPattern,
			Message:  "Please enter a valid email address",
		}},
		{Field: "phone", Rule: Rule{
			Required: true,
			Pattern:  phonePattern,
			Message:  "Please enter a valid phone number (10-15 digits)",
		}},
		{Field: "age", Rule: Rule{
			Required: true,
			Min:      Int(18),
			Max:      Int(100),
			Message:  "Age must be between 18 and 100",
		}},
		{Field: "availability", Rule: Rule{
			Required: true,
			Message:  "Please select your availability",
		}},
		{Field: "terms", Rule: Rule{
			Required: true,
			Message:  "You must agree to the terms and conditions",
		}},
	}
}

// Default returns the compiled contact form rule table.
func Default() *Table {
	t, err := NewTable(DefaultEntries()...)
	if err != nil {
		panic(err)
	}
	return t
}
