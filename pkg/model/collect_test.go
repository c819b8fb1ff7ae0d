package model_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/model"
)

func sampleForm() model.Form {
	return model.Form{
		ID: "sample",
		Fields: []model.Field{
			{Name: "name", Kind: model.FieldKindText},
			{Name: "color", Kind: model.FieldKindRadio, Options: []model.Option{{Value: "red"}, {Value: "blue"}}},
			{Name: "tags", Kind: model.FieldKindCheckboxGroup, Options: []model.Option{{Value: "a"}, {Value: "b"}, {Value: "c"}}},
			{Name: "agree", Kind: model.FieldKindCheckbox},
		},
	}
}

func TestCollect(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	values := url.Values{
		"name":  {"  Ada  "},
		"color": {"blue"},
		"tags":  {"c", "a", "zzz"},
		"agree": {model.CheckedValue},
	}

	got := model.Collect(sampleForm(), values, now)
	want := model.Data{
		Text:        map[string]string{"name": "Ada", "color": "blue"},
		Lists:       map[string][]string{"tags": {"a", "c"}},
		Flags:       map[string]bool{"agree": true},
		SubmittedAt: now.UTC(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collect mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectEmptyGroup(t *testing.T) {
	got := model.Collect(sampleForm(), url.Values{}, time.Time{})
	if got.Lists["tags"] == nil || len(got.Lists["tags"]) != 0 {
		t.Fatalf("empty group should collect as an empty list, got %#v", got.Lists["tags"])
	}
	if got.Flags["agree"] {
		t.Fatalf("unchecked box collected as checked")
	}
}

func TestRestore(t *testing.T) {
	saved := model.Data{
		Text:  map[string]string{"name": "", "color": "green"},
		Lists: map[string][]string{"tags": {"b", "zzz"}},
		Flags: map[string]bool{"agree": false},
	}
	values := url.Values{
		"name":  {"Current"},
		"color": {"red"},
		"tags":  {"a"},
		"agree": {model.CheckedValue},
	}

	applied := model.Restore(sampleForm(), saved, values)
	if !applied {
		t.Fatalf("expected the saved group option to be applied")
	}
	want := url.Values{
		"name":  {"Current"},
		"color": {"red"},
		"tags":  {"a", "b"},
		"agree": {model.CheckedValue},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("restore mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreEmptySnapshot(t *testing.T) {
	values := url.Values{}
	if model.Restore(sampleForm(), model.Data{}, values) {
		t.Fatalf("empty snapshot should not apply")
	}
	if len(values) != 0 {
		t.Fatalf("values changed: %v", values)
	}
}
