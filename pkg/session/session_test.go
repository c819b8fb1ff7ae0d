package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/internal/clock"
	"github.com/goliatone/go-contactform/pkg/a11y"
	"github.com/goliatone/go-contactform/pkg/autosave"
	"github.com/goliatone/go-contactform/pkg/format"
	"github.com/goliatone/go-contactform/pkg/formdef"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/session"
	"github.com/goliatone/go-contactform/pkg/submit"
	"github.com/goliatone/go-contactform/pkg/validation"
)

var epoch = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type stubSubmitter struct {
	mu   sync.Mutex
	err  error
	sent []model.Data
}

func (s *stubSubmitter) Submit(_ context.Context, data model.Data) (submit.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, data)
	if s.err != nil {
		return submit.Result{}, s.err
	}
	return submit.Result{Status: 200}, nil
}

func newSession(t *testing.T, sub submit.Submitter, opts ...session.Option) (*session.Session, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(epoch)
	s, err := session.New(formdef.Default(), sub, append([]session.Option{session.WithClock(clk)}, opts...)...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, clk
}

func fillValid(t *testing.T, s *session.Session) {
	t.Helper()
	s.Input("firstName", "Ada")
	s.Input("lastName", "Lovelace")
	s.Input("email", "ada@example.com")
	s.Input("phone", "1234567890")
	s.Input("age", "36")
	s.Input("message", "Hello")
	if _, err := s.Change("availability", "contract"); err != nil {
		t.Fatalf("change availability: %v", err)
	}
	if _, err := s.Toggle("skills", "python", true); err != nil {
		t.Fatalf("toggle skills: %v", err)
	}
	if _, err := s.Toggle("terms", "", true); err != nil {
		t.Fatalf("toggle terms: %v", err)
	}
}

func TestInputFormatting(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})

	s.Input("phone", "123-456-78901")
	s.Input("age", "150")
	s.Input("experience", "-4")
	s.Input("message", strings.Repeat("x", 950))

	got := map[string]string{
		"phone":      s.Value("phone"),
		"age":        s.Value("age"),
		"experience": s.Value("experience"),
	}
	want := map[string]string{
		"phone":      "(123) 456-78901",
		"age":        "100",
		"experience": "0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("formatted values mismatch (-want +got):\n%s", diff)
	}

	counter := s.View().Counters["message"]
	if diff := cmp.Diff(format.Counter{Length: 950, Max: 1000, Level: format.LevelDanger}, counter); diff != "" {
		t.Fatalf("counter mismatch (-want +got):\n%s", diff)
	}
}

func TestInputRevalidatesOnlyFieldsInError(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})

	s.Input("firstName", "A")
	if got := s.Mark("firstName").State; got != validation.StateNone {
		t.Fatalf("untouched field validated on input: %q", got)
	}

	if res := s.Blur("firstName"); res.Valid {
		t.Fatalf("blur accepted a one letter name")
	}
	if !s.Mark("firstName").Shown {
		t.Fatalf("error not shown after blur")
	}

	s.Input("firstName", "Ada")
	if got := s.Mark("firstName").State; got != validation.StateSuccess {
		t.Fatalf("field in error not revalidated on input, state %q", got)
	}
}

func TestEmailLiveCheck(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})

	s.Input("email", "ada@")
	if got := s.Mark("email").State; got != validation.StateNone {
		t.Fatalf("partial email marked %q", got)
	}
	s.Input("email", "ada@example.com")
	if got := s.Mark("email").State; got != validation.StateSuccess {
		t.Fatalf("valid email marked %q", got)
	}
}

func TestChangeAndToggleReject(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})

	if _, err := s.Change("availability", "weekends"); err == nil {
		t.Fatalf("expected unknown option error")
	}
	if _, err := s.Change("firstName", "Ada"); err == nil {
		t.Fatalf("expected kind error for text field")
	}
	if _, err := s.Toggle("skills", "cobol", true); err == nil {
		t.Fatalf("expected unknown skill error")
	}
	if _, err := s.Toggle("email", "", true); err == nil {
		t.Fatalf("expected kind error for email field")
	}
}

func TestInputIgnoresCheckboxesAndChoices(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})

	for _, name := range []string{"terms", "skills", "availability", "position"} {
		res := s.Input(name, "")
		if !res.Skipped {
			t.Fatalf("input on %s should be skipped, got %+v", name, res)
		}
	}
	s.Input("availability", "weekends")
	if _, ok := s.View().Values["availability"]; ok {
		t.Fatalf("input must not bypass the option check")
	}
	if _, ok := s.View().Values["terms"]; ok {
		t.Fatalf("input must not store a checkbox value")
	}

	res := s.Blur("terms")
	want := validation.FieldResult{Field: "terms", Message: "You must agree to the terms and conditions"}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("terms result mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleGroup(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})

	for _, skill := range []string{"python", "sql", "java"} {
		if _, err := s.Toggle("skills", skill, true); err != nil {
			t.Fatalf("toggle %s: %v", skill, err)
		}
	}
	if _, err := s.Toggle("skills", "sql", false); err != nil {
		t.Fatalf("untoggle: %v", err)
	}

	got := s.View().Values["skills"]
	if diff := cmp.Diff([]string{"python", "java"}, got); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitInvalidAnnouncesErrors(t *testing.T) {
	sub := &stubSubmitter{}
	s, clk := newSession(t, sub)
	fillValid(t, s)
	s.Input("age", "17")

	out, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Submitted || out.Report.Valid {
		t.Fatalf("invalid form submitted: %+v", out)
	}
	if out.FirstError != "age" {
		t.Fatalf("first error = %q, want age", out.FirstError)
	}
	if len(sub.sent) != 0 {
		t.Fatalf("submitter called for invalid form")
	}

	if got := s.View().Announcements; len(got) != 0 {
		t.Fatalf("announcement before delay: %+v", got)
	}
	clk.Advance(a11y.DefaultDelay)
	want := []a11y.Announcement{{
		Text:   "Form has 1 error(s): Age must be between 18 and 100",
		Live:   "polite",
		Atomic: true,
	}}
	if diff := cmp.Diff(want, s.View().Announcements); diff != "" {
		t.Fatalf("announcements mismatch (-want +got):\n%s", diff)
	}
	clk.Advance(a11y.DefaultTTL)
	if got := s.View().Announcements; len(got) != 0 {
		t.Fatalf("announcement not removed: %+v", got)
	}
}

func TestSubmitSuccessResetsAfterDelay(t *testing.T) {
	sub := &stubSubmitter{}
	store := autosave.NewStore()
	s, clk := newSession(t, sub, session.WithStore(store))
	fillValid(t, s)
	s.SaveNow()

	out, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.Submitted {
		t.Fatalf("valid form not submitted: %+v", out.Report)
	}
	if len(sub.sent) != 1 {
		t.Fatalf("submitter called %d times", len(sub.sent))
	}
	sent := sub.sent[0]
	if sent.Text["firstName"] != "Ada" || !sent.Flags["terms"] || !sent.SubmittedAt.Equal(epoch) {
		t.Fatalf("unexpected collected data: %+v", sent)
	}

	view := s.View()
	if view.FormVisible || !view.SuccessVisible {
		t.Fatalf("success view not shown: %+v", view)
	}
	if !store.Empty() {
		t.Fatalf("autosave not cleared after success")
	}

	clk.Advance(formdef.DefaultResetDelay)
	view = s.View()
	if !view.FormVisible || view.SuccessVisible {
		t.Fatalf("form not restored after reset delay: %+v", view)
	}
	if s.Value("firstName") != "" || s.Mark("firstName").State != validation.StateNone {
		t.Fatalf("form not cleared after reset delay")
	}
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	sub := &stubSubmitter{err: submit.ErrSubmissionFailed}
	s, _ := newSession(t, sub)
	fillValid(t, s)

	out, err := s.Submit(context.Background())
	if !errors.Is(err, submit.ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
	if out.Submitted {
		t.Fatalf("failed submission reported as submitted")
	}

	view := s.View()
	if view.Alert != formdef.Default().FailureMessage {
		t.Fatalf("alert = %q", view.Alert)
	}
	if !view.FormVisible || view.SuccessVisible {
		t.Fatalf("form hidden after failure")
	}
	if s.Value("email") != "ada@example.com" {
		t.Fatalf("values lost after failure")
	}
	if diff := cmp.Diff(submit.ButtonState{Label: "Submit Application"}, view.Button); diff != "" {
		t.Fatalf("button not idle (-want +got):\n%s", diff)
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	sub := &stubSubmitter{}
	store := autosave.NewStore()
	var asked []string
	confirm := func(msg string) bool {
		asked = append(asked, msg)
		return true
	}
	s, _ := newSession(t, sub, session.WithStore(store), session.WithConfirmer(confirm))
	fillValid(t, s)

	if _, err := s.KeyDown(context.Background(), session.Key{Name: session.KeyEnter}); err != nil {
		t.Fatalf("plain enter: %v", err)
	}
	if len(sub.sent) != 0 {
		t.Fatalf("plain enter submitted the form")
	}

	s.SaveNow()
	if _, err := s.KeyDown(context.Background(), session.Key{Name: session.KeyEscape}); err != nil {
		t.Fatalf("escape: %v", err)
	}
	if diff := cmp.Diff([]string{session.ClearPrompt}, asked); diff != "" {
		t.Fatalf("confirm prompts mismatch (-want +got):\n%s", diff)
	}
	if s.Value("firstName") != "" || !store.Empty() {
		t.Fatalf("escape did not clear form and autosave")
	}

	fillValid(t, s)
	out, err := s.KeyDown(context.Background(), session.Key{Name: session.KeyEnter, Meta: true})
	if err != nil {
		t.Fatalf("cmd+enter: %v", err)
	}
	if !out.Submitted || len(sub.sent) != 1 {
		t.Fatalf("cmd+enter did not submit")
	}
}

func TestEscapeWithoutConfirmerKeepsValues(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})
	s.Input("firstName", "Ada")

	if _, err := s.KeyDown(context.Background(), session.Key{Name: session.KeyEscape}); err != nil {
		t.Fatalf("escape: %v", err)
	}
	if s.Value("firstName") != "Ada" {
		t.Fatalf("escape cleared the form without confirmation")
	}
}

func TestRestoreFromAutosave(t *testing.T) {
	store := autosave.NewStore()
	first, _ := newSession(t, &stubSubmitter{}, session.WithStore(store))
	fillValid(t, first)
	first.Input("message", "Saved draft")
	first.SaveNow()

	second, _ := newSession(t, &stubSubmitter{}, session.WithStore(store))
	view := second.View()
	got := map[string][]string{
		"firstName":    view.Values["firstName"],
		"availability": view.Values["availability"],
		"skills":       view.Values["skills"],
		"terms":        view.Values["terms"],
	}
	want := map[string][]string{
		"firstName":    {"Ada"},
		"availability": {"contract"},
		"skills":       {"python"},
		"terms":        {model.CheckedValue},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("restored values mismatch (-want +got):\n%s", diff)
	}
	if got := view.Counters["message"].Length; got != len("Saved draft") {
		t.Fatalf("counter not refreshed after restore: %d", got)
	}
}

func TestResetClearsState(t *testing.T) {
	s, _ := newSession(t, &stubSubmitter{})
	s.Blur("email")
	s.Input("message", "draft")

	s.Reset()
	view := s.View()
	if len(view.Values) != 0 {
		t.Fatalf("values not cleared: %v", view.Values)
	}
	if got := s.Mark("email"); got != (validation.Mark{}) {
		t.Fatalf("mark not cleared: %+v", got)
	}
	if view.Counters["message"].Length != 0 {
		t.Fatalf("counter not reset")
	}
}

func TestNewRequiresSubmitter(t *testing.T) {
	if _, err := session.New(formdef.Default(), nil); err == nil {
		t.Fatalf("expected error without submitter")
	}
}
