package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Rule is the constraint set attached to a single field. Zero lengths mean the
// bound is unset; Min and Max are pointers because zero is a meaningful bound.
type Rule struct {
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	MinLength int    `json:"minLength,omitempty" yaml:"minLength,omitempty" toml:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty" toml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Min       *int   `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max       *int   `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	// When gates the rule behind an expression evaluated against the current
	// form values. Empty means the rule always applies.
	When string `json:"when,omitempty" yaml:"when,omitempty" toml:"when,omitempty"`
}

// HasRange reports whether the rule carries a numeric bound.
func (r Rule) HasRange() bool {
	return r.Min != nil || r.Max != nil
}

// RequiredMessage returns the message used when a required value is missing.
func (r Rule) RequiredMessage(field string) string {
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return msg
	}
	return field + " is required"
}

// Compiled is a Rule with its pattern compiled once.
type Compiled struct {
	Rule
	pattern *regexp.Regexp
}

// Compile validates the rule and compiles its pattern.
func Compile(rule Rule) (Compiled, error) {
	if rule.MinLength < 0 || rule.MaxLength < 0 {
		return Compiled{}, errors.New("rules: length bounds must not be negative")
	}
	if rule.MaxLength > 0 && rule.MinLength > rule.MaxLength {
		return Compiled{}, fmt.Errorf("rules: minLength %d exceeds maxLength %d", rule.MinLength, rule.MaxLength)
	}
	if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
		return Compiled{}, fmt.Errorf("rules: min %d exceeds max %d", *rule.Min, *rule.Max)
	}

	out := Compiled{Rule: rule}
	if pattern := strings.TrimSpace(rule.Pattern); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Compiled{}, fmt.Errorf("rules: compile pattern %q: %w", pattern, err)
		}
		out.pattern = re
	}
	return out, nil
}

// MustCompile panics when the rule is invalid. Intended for static tables.
func MustCompile(rule Rule) Compiled {
	c, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return c
}

// HasPattern reports whether a pattern constraint is set.
func (c Compiled) HasPattern() bool {
	return c.pattern != nil
}

// MatchString reports whether value satisfies the pattern. A rule without a
// pattern matches everything.
func (c Compiled) MatchString(value string) bool {
	if c.pattern == nil {
		return true
	}
	return c.pattern.MatchString(value)
}

// Int returns a pointer to v, for building Min/Max bounds inline.
func Int(v int) *int {
	return &v
}
