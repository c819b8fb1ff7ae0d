package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/formdef"
	"github.com/goliatone/go-contactform/pkg/session"
)

func TestParseChecked(t *testing.T) {
	cases := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{raw: "on", want: true},
		{raw: "true", want: true},
		{raw: "TRUE", want: true},
		{raw: "1", want: true},
		{raw: "yes", want: true},
		{raw: "Y", want: true},
		{raw: "", want: false},
		{raw: "false", want: false},
		{raw: "0", want: false},
		{raw: "no", want: false},
		{raw: "n", want: false},
		{raw: "off", want: false},
		{raw: "Off", want: false},
		{raw: "maybe", wantErr: true},
		{raw: "2", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseChecked(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrNotBoolean) {
				t.Fatalf("ParseChecked(%q) error = %v, want ErrNotBoolean", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseChecked(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseChecked(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestApplyValuesTermsSpellings(t *testing.T) {
	cases := []struct {
		doc     string
		checked bool
		wantErr bool
	}{
		{doc: "terms: true", checked: true},
		{doc: "terms: yes", checked: true},
		{doc: "terms: on", checked: true},
		{doc: "terms: false"},
		{doc: "terms: no"},
		{doc: `terms: "no"`},
		{doc: "terms: 0"},
		{doc: `terms: "off"`},
		{doc: "terms: maybe", wantErr: true},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "values.yaml")
		if err := os.WriteFile(path, []byte(tc.doc+"\n"), 0o600); err != nil {
			t.Fatalf("write values: %v", err)
		}
		values, err := LoadValues(path)
		if err != nil {
			t.Fatalf("%s: load: %v", tc.doc, err)
		}
		s, err := session.New(formdef.Default(), discardSubmitter{})
		if err != nil {
			t.Fatalf("new session: %v", err)
		}

		err = ApplyValues(s, values)
		if tc.wantErr {
			if !errors.Is(err, ErrNotBoolean) {
				t.Fatalf("%s: error = %v, want ErrNotBoolean", tc.doc, err)
			}
		} else if err != nil {
			t.Fatalf("%s: apply: %v", tc.doc, err)
		}

		res := s.Blur("terms")
		if diff := cmp.Diff(tc.checked, res.Valid); diff != "" {
			t.Fatalf("%s: terms valid mismatch (-want +got):\n%s", tc.doc, diff)
		}
	}
}
