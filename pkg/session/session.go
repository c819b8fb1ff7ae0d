package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/goliatone/go-contactform/internal/clock"
	"github.com/goliatone/go-contactform/pkg/a11y"
	"github.com/goliatone/go-contactform/pkg/autosave"
	"github.com/goliatone/go-contactform/pkg/format"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/submit"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ClearPrompt is the question asked before Escape clears the form.
const ClearPrompt = "Are you sure you want to clear the form?"

// Key is a key press delivered to the form.
type Key struct {
	Name string
	Ctrl bool
	Meta bool
}

const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

// Session holds one user's in-progress form: raw inputs, field marks,
// counters and the success/failure display, and reacts to input events the
// way the form's controls do.
type Session struct {
	form      model.Form
	validator *validation.Validator
	handler   *submit.Handler
	store     *autosave.Store
	announcer *a11y.Announcer
	region    *a11y.Buffer
	clock     clock.Clock
	confirm   Confirmer
	logger    *slog.Logger

	mu             sync.Mutex
	values         url.Values
	marks          *validation.Marks
	counters       map[string]format.Counter
	formVisible    bool
	successVisible bool
	alert          string
	resetTimer     clock.Timer
}

// New starts a session for form that delivers through submitter. Anything
// found in the autosave store is restored straight away.
func New(form model.Form, submitter submit.Submitter, opts ...Option) (*Session, error) {
	if submitter == nil {
		return nil, errors.New("session: submitter is required")
	}
	cfg := config{
		clock:  clock.Real{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.store == nil {
		cfg.store = autosave.NewStore(autosave.WithClock(cfg.clock), autosave.WithLogger(cfg.logger))
	}

	validator, err := validation.New(form, append([]validation.Option{validation.WithLogger(cfg.logger)}, cfg.validationOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	region := &a11y.Buffer{}
	s := &Session{
		form:        form,
		validator:   validator,
		handler:     submit.NewHandler(submitter, form),
		store:       cfg.store,
		announcer:   a11y.New(region, a11y.WithClock(cfg.clock), a11y.WithLogger(cfg.logger)),
		region:      region,
		clock:       cfg.clock,
		confirm:     cfg.confirm,
		logger:      cfg.logger,
		values:      url.Values{},
		marks:       validation.NewMarks(form.FieldNames()),
		formVisible: true,
	}
	s.refreshCounters()

	if snap, ok := s.store.Load(); ok {
		if model.Restore(form, snap.Data, s.values) {
			s.refreshCounters()
			s.logger.Info("form restored from autosave", "snapshot", snap.ID)
		}
	}
	return s, nil
}

// Form returns the form definition.
func (s *Session) Form() model.Form {
	return s.form
}

// Validator exposes the field validator.
func (s *Session) Validator() *validation.Validator {
	return s.validator
}

// Input handles typing into a text-like control. The value is formatted
// first (phone mask, numeric clamp), counters are updated, then email fields
// get the live check and any other field is re-validated only while it shows
// an error. Checkboxes and choices only change through Toggle and Change, so
// Input leaves them untouched and reports a skipped result.
func (s *Session) Input(name, value string) validation.FieldResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.form.Field(name)
	if !ok {
		return validation.FieldResult{Field: name, Valid: true, Skipped: true}
	}
	if !field.Kind.Typed() {
		s.logger.Debug("input ignored for non-text field", "field", name, "kind", field.Kind)
		return validation.FieldResult{Field: name, Valid: !s.marks.HasError(name), Skipped: true}
	}
	s.values.Set(name, applyFormatting(field, value))
	s.refreshCounter(name)

	if field.Kind == model.FieldKindEmail {
		return s.validator.Live(name, s.values, s.marks)
	}
	if s.marks.HasError(name) {
		return s.validator.ValidateField(name, s.values, s.marks)
	}
	return validation.FieldResult{Field: name, Valid: true, Skipped: true}
}

func applyFormatting(field model.Field, value string) string {
	if field.Mask == model.MaskPhone {
		value = format.Phone(value)
	}
	if field.Clamp != nil {
		value = format.Clamp(value, field.Clamp.Min, field.Clamp.Max)
	}
	return value
}

// Blur validates a field when focus leaves it.
func (s *Session) Blur(name string) validation.FieldResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.ValidateField(name, s.values, s.marks)
}

// Change selects an option of a radio or select field and validates it.
func (s *Session) Change(name, value string) (validation.FieldResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.form.Field(name)
	if !ok {
		return validation.FieldResult{}, fmt.Errorf("session: unknown field %q", name)
	}
	if field.Kind != model.FieldKindRadio && field.Kind != model.FieldKindSelect {
		return validation.FieldResult{}, fmt.Errorf("session: field %q is a %s, not a choice", name, field.Kind)
	}
	if value != "" && !field.HasOption(value) {
		return validation.FieldResult{}, fmt.Errorf("session: field %q has no option %q", name, value)
	}
	if value == "" {
		s.values.Del(name)
	} else {
		s.values.Set(name, value)
	}
	return s.validator.ValidateField(name, s.values, s.marks), nil
}

// Toggle checks or unchecks a checkbox, or one option of a checkbox group.
// The field is re-validated only while it shows an error.
func (s *Session) Toggle(name, value string, checked bool) (validation.FieldResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.form.Field(name)
	if !ok {
		return validation.FieldResult{}, fmt.Errorf("session: unknown field %q", name)
	}
	switch field.Kind {
	case model.FieldKindCheckbox:
		if checked {
			s.values.Set(name, model.CheckedValue)
		} else {
			s.values.Del(name)
		}
	case model.FieldKindCheckboxGroup:
		if !field.HasOption(value) {
			return validation.FieldResult{}, fmt.Errorf("session: field %q has no option %q", name, value)
		}
		s.values[name] = toggleValue(s.values[name], value, checked)
		if len(s.values[name]) == 0 {
			s.values.Del(name)
		}
	default:
		return validation.FieldResult{}, fmt.Errorf("session: field %q is a %s, not a checkbox", name, field.Kind)
	}

	if s.marks.HasError(name) {
		return s.validator.ValidateField(name, s.values, s.marks), nil
	}
	return validation.FieldResult{Field: name, Valid: true, Skipped: true}, nil
}

func toggleValue(current []string, value string, checked bool) []string {
	out := make([]string, 0, len(current)+1)
	for _, v := range current {
		if v != value {
			out = append(out, v)
		}
	}
	if checked {
		out = append(out, value)
	}
	return out
}

// Validate runs whole-form validation. A failing pass schedules the error
// announcement for assistive technology.
func (s *Session) Validate() validation.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Session) validateLocked() validation.Report {
	report := s.validator.ValidateForm(s.values, s.marks)
	if !report.Valid {
		s.announcer.AnnounceErrors(s.shownErrors)
	}
	return report
}

func (s *Session) shownErrors() []string {
	errs := s.marks.Errors()
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

// Outcome reports what a submit attempt did.
type Outcome struct {
	Submitted bool              `json:"submitted"`
	Report    validation.Report `json:"report"`
	// FirstError is the first field group in error, the one to bring into
	// view when validation fails.
	FirstError string        `json:"firstError,omitempty"`
	Result     submit.Result `json:"result"`
}

// Submit validates the form and, when it passes, delivers it. On success the
// form is swapped for the success message, the autosave is dropped and the
// form resets itself after the configured delay. On failure the values stay,
// the failure alert is raised and the error is returned.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	report := s.validateLocked()
	if !report.Valid {
		first, _ := s.marks.FirstError()
		s.mu.Unlock()
		return Outcome{Report: report, FirstError: first}, nil
	}
	data := model.Collect(s.form, s.values, s.clock.Now())
	s.alert = ""
	s.mu.Unlock()

	result, err := s.handler.Submit(ctx, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !errors.Is(err, submit.ErrBusy) {
			s.alert = s.form.FailureMessage
			s.logger.Warn("form not submitted, values kept", "form", s.form.ID, "error", err)
		}
		return Outcome{Report: report}, err
	}

	s.formVisible = false
	s.successVisible = true
	s.store.Clear()
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.resetTimer = s.clock.AfterFunc(s.form.ResetDelay, s.restoreAfterSuccess)
	return Outcome{Submitted: true, Report: report, Result: result}, nil
}

func (s *Session) restoreAfterSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successVisible = false
	s.formVisible = true
	s.resetTimer = nil
	s.resetLocked()
}

// Reset clears every input and validation state and hides the success
// message.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.successVisible = false
}

func (s *Session) resetLocked() {
	s.values = url.Values{}
	s.marks.ClearAll()
	s.alert = ""
	s.refreshCounters()
}

// KeyDown handles keyboard shortcuts: Ctrl/Cmd+Enter submits, Escape clears
// the form (inputs, validation and autosave) once confirmed.
func (s *Session) KeyDown(ctx context.Context, key Key) (Outcome, error) {
	switch {
	case key.Name == KeyEnter && (key.Ctrl || key.Meta):
		return s.Submit(ctx)
	case key.Name == KeyEscape:
		if s.confirm == nil || !s.confirm(ClearPrompt) {
			return Outcome{}, nil
		}
		s.Reset()
		s.store.Clear()
	}
	return Outcome{}, nil
}

// Collect snapshots the current inputs.
func (s *Session) Collect() model.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Collect(s.form, s.values, s.clock.Now())
}

// SaveNow autosaves immediately.
func (s *Session) SaveNow() autosave.Snapshot {
	return s.store.Save(s.Collect())
}

// Autosave saves the form every autosave interval until ctx is done, and once
// more on the way out.
func (s *Session) Autosave(ctx context.Context) error {
	return s.store.Run(ctx, s.form.AutosaveInterval, s.Collect)
}

// Value returns the current raw value of a single-valued field.
func (s *Session) Value(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Get(name)
}

// Mark returns the validation mark of a field.
func (s *Session) Mark(name string) validation.Mark {
	return s.marks.Get(name)
}

func (s *Session) refreshCounters() {
	s.counters = make(map[string]format.Counter, len(s.form.Limits))
	for _, limit := range s.form.Limits {
		s.counters[limit.Field] = format.Count(s.values.Get(limit.Field), limit.Max)
	}
}

func (s *Session) refreshCounter(name string) {
	if limit, ok := s.form.Limit(name); ok {
		s.counters[name] = format.Count(s.values.Get(name), limit.Max)
	}
}
