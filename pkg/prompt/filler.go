package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/session"
)

const (
	defaultMaxAttempts = 5
	skipOption         = "(skip)"
)

// Option configures a Filler.
type Option func(*Filler)

// WithDriver swaps the terminal driver, mostly for tests.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxAttempts bounds how often a field is asked again after failing
// validation.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// Filler walks a session's fields in form order, asking for each answer and
// feeding it through the same events the form controls raise. Answers that
// fail validation are explained and asked again.
type Filler struct {
	session     *session.Session
	driver      Driver
	logger      *slog.Logger
	maxAttempts int
}

// NewFiller prepares a fill flow for s.
func NewFiller(s *session.Session, opts ...Option) (*Filler, error) {
	if s == nil {
		return nil, fmt.Errorf("prompt: session is required")
	}
	f := &Filler{
		session:     s,
		logger:      slog.Default(),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f, nil
}

// Fill asks for every field of the form.
func (f *Filler) Fill(ctx context.Context) error {
	return f.FillFields(ctx, f.session.Form().FieldNames())
}

// FillFields asks for the named fields, in the given order.
func (f *Filler) FillFields(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := f.FillField(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// FillField asks for one field until its answer validates.
func (f *Filler) FillField(ctx context.Context, name string) error {
	field, ok := f.session.Form().Field(name)
	if !ok {
		return fmt.Errorf("prompt: unknown field %q", name)
	}
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		valid, message, err := f.ask(ctx, field)
		if err != nil {
			return err
		}
		if valid {
			return nil
		}
		f.logger.Debug("answer rejected", "field", name, "attempt", attempt, "reason", message)
		if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", label(field), message)); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, name)
}

// Confirm asks a yes/no question, defaulting to no. It serves as a
// session.Confirmer.
func (f *Filler) Confirm(message string) bool {
	ok, err := f.driver.Confirm(context.Background(), ConfirmConfig{Message: message})
	return err == nil && ok
}

func (f *Filler) ask(ctx context.Context, field model.Field) (bool, string, error) {
	s := f.session
	switch field.Kind {
	case model.FieldKindCheckbox:
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: label(field),
			Default: s.View().Values.Get(field.Name) == model.CheckedValue,
		})
		if err != nil {
			return false, "", err
		}
		if _, err := s.Toggle(field.Name, "", checked); err != nil {
			return false, "", err
		}

	case model.FieldKindCheckboxGroup:
		current := field.Selected(s.View().Values)
		options := optionLabels(field)
		indices, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message:  label(field),
			Options:  options,
			Defaults: optionIndices(field, current),
		})
		if err != nil {
			return false, "", err
		}
		chosen := make(map[int]bool, len(indices))
		for _, idx := range indices {
			chosen[idx] = true
		}
		for i, opt := range field.Options {
			if _, err := s.Toggle(field.Name, opt.Value, chosen[i]); err != nil {
				return false, "", err
			}
		}

	case model.FieldKindRadio, model.FieldKindSelect:
		options := optionLabels(field)
		offset := 0
		if !required(field) {
			options = append([]string{skipOption}, options...)
			offset = 1
		}
		defaultIndex := 0
		if idx := optionIndices(field, []string{s.Value(field.Name)}); len(idx) == 1 {
			defaultIndex = idx[0] + offset
		}
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label(field),
			Options:      options,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return false, "", err
		}
		value := ""
		if pos := idx - offset; pos >= 0 && pos < len(field.Options) {
			value = field.Options[pos].Value
		}
		res, err := s.Change(field.Name, value)
		if err != nil {
			return false, "", err
		}
		return res.Valid, res.Message, nil

	case model.FieldKindTextArea:
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message: label(field),
			Default: s.Value(field.Name),
			Help:    field.Placeholder,
		})
		if err != nil {
			return false, "", err
		}
		s.Input(field.Name, answer)
		if limit, ok := s.Form().Limit(field.Name); ok {
			if utf8.RuneCountInString(strings.TrimSpace(answer)) > limit.Max {
				return false, limit.Message, nil
			}
			if err := f.driver.Info(ctx, s.View().Counters[field.Name].String()); err != nil {
				return false, "", err
			}
		}

	default:
		answer, err := f.driver.Input(ctx, InputConfig{
			Message: label(field),
			Default: s.Value(field.Name),
			Help:    field.Placeholder,
		})
		if err != nil {
			return false, "", err
		}
		s.Input(field.Name, answer)
	}

	res := s.Blur(field.Name)
	return res.Valid, res.Message, nil
}

func label(field model.Field) string {
	text := field.Label
	if text == "" {
		text = field.Name
	}
	if required(field) {
		text += " *"
	}
	return text
}

func required(field model.Field) bool {
	return field.Rule != nil && field.Rule.Required
}

func optionLabels(field model.Field) []string {
	out := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		text := opt.Label
		if text == "" {
			text = opt.Value
		}
		out = append(out, text)
	}
	return out
}

func optionIndices(field model.Field, values []string) []int {
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	var out []int
	for i, opt := range field.Options {
		if want[opt.Value] {
			out = append(out, i)
		}
	}
	return out
}
