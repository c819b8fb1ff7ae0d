package formdef_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/formdef"
	"github.com/goliatone/go-contactform/pkg/model"
)

func TestLoadYAMLMatchesDefault(t *testing.T) {
	form, err := formdef.Load("testdata/contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(formdef.Default(), form); diff != "" {
		t.Fatalf("contact.yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTOMLAppliesDefaults(t *testing.T) {
	form, err := formdef.Load("testdata/newsletter.toml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if form.Method != "POST" {
		t.Fatalf("expected default method POST, got %q", form.Method)
	}
	if form.AutosaveInterval != 10*time.Second {
		t.Fatalf("expected autosave 10s, got %s", form.AutosaveInterval)
	}
	if form.ResetDelay != formdef.DefaultResetDelay {
		t.Fatalf("expected default reset delay, got %s", form.ResetDelay)
	}
	topics, ok := form.Field("topics")
	if !ok {
		t.Fatalf("topics field missing")
	}
	want := []model.Option{{Value: "releases", Label: "releases"}, {Value: "events", Label: "events"}}
	if diff := cmp.Diff(want, topics.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	table, err := form.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if diff := cmp.Diff([]string{"email"}, table.Fields()); diff != "" {
		t.Fatalf("ruled fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON(t *testing.T) {
	raw := `{
		"id": "callback",
		"endpoint": "https://example.test/f/cb",
		"fields": [{"name": "phone", "kind": "tel", "mask": "phone", "rule": {"required": true}}],
		"payload": [{"name": "phone", "source": "phone"}]
	}`
	form, err := formdef.Parse([]byte(raw), formdef.FormatJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	field, _ := form.Field("phone")
	if field.Rule == nil || !field.Rule.Required {
		t.Fatalf("expected required rule, got %+v", field.Rule)
	}
	if form.SubmitLabel != "Submit Application" {
		t.Fatalf("expected default submit label, got %q", form.SubmitLabel)
	}
}

func TestParseRejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]string{
		"missing id":       `{"endpoint": "x", "fields": [{"name": "a"}]}`,
		"missing endpoint": `{"id": "f", "fields": [{"name": "a"}]}`,
		"no fields":        `{"id": "f", "endpoint": "x"}`,
		"duplicate field":  `{"id": "f", "endpoint": "x", "fields": [{"name": "a"}, {"name": "a"}]}`,
		"unknown kind":     `{"id": "f", "endpoint": "x", "fields": [{"name": "a", "kind": "slider"}]}`,
		"radio no options": `{"id": "f", "endpoint": "x", "fields": [{"name": "a", "kind": "radio"}]}`,
		"bad pattern":      `{"id": "f", "endpoint": "x", "fields": [{"name": "a", "rule": {"pattern": "("}}]}`,
		"unknown source":   `{"id": "f", "endpoint": "x", "fields": [{"name": "a"}], "payload": [{"name": "b", "source": "b"}]}`,
		"bad encoding":     `{"id": "f", "endpoint": "x", "fields": [{"name": "a"}], "payload": [{"name": "a", "source": "a", "encoding": "rot13"}]}`,
		"unknown limit":    `{"id": "f", "endpoint": "x", "fields": [{"name": "a"}], "limits": [{"field": "b", "max": 3}]}`,
		"bad duration":     `{"id": "f", "endpoint": "x", "fields": [{"name": "a"}], "resetDelay": "soon"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := formdef.Parse([]byte(raw), formdef.FormatJSON); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if _, err := formdef.FormatFromPath("form.ini"); !errors.Is(err, formdef.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	format, err := formdef.FormatFromPath("FORM.YML")
	if err != nil || format != formdef.FormatYAML {
		t.Fatalf("expected yaml, got %q (%v)", format, err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := formdef.Validate(formdef.Default()); err != nil {
		t.Fatalf("default form invalid: %v", err)
	}
	_, err := formdef.Parse([]byte("   "), formdef.FormatYAML)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty definition error, got %v", err)
	}
}
