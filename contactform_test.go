package contactform_test

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contactform "github.com/goliatone/go-contactform"
	"github.com/goliatone/go-contactform/pkg/submit"
)

func TestNewSessionSubmitsToEndpoint(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	form := contactform.DefaultForm()
	s, err := contactform.NewSession(form, contactform.WithSubmitOptions(submit.WithEndpoint(srv.URL)))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Input("firstName", "Ada")
	s.Input("lastName", "Lovelace")
	s.Input("email", "ada@example.com")
	s.Input("phone", "1234567890")
	s.Input("age", "36")
	if _, err := s.Change("availability", "contract"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := s.Toggle("terms", "", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	out, err := s.Submit(context.Background())
	if err != nil || !out.Submitted {
		t.Fatalf("submit: %+v, %v", out.Report, err)
	}
	if hits != 1 {
		t.Fatalf("endpoint hit %d times", hits)
	}

	html, err := contactform.RenderHTML(context.Background(), s)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), `class="success-message show"`) {
		t.Fatalf("success message not shown after submit")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	for _, name := range []string{"form.tpl", "field.tpl"} {
		if _, err := fs.Stat(contactform.EmbeddedTemplates(), name); err != nil {
			t.Fatalf("embedded template %s: %v", name, err)
		}
	}
}
