package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/session"
)

// LoadValues reads a YAML or JSON map of field name to value. Lists fill
// checkbox groups; booleans drive checkboxes.
func LoadValues(path string) (url.Values, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read values: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("cli: parse values %s: %w", path, err)
	}
	values := url.Values{}
	for name, v := range doc {
		switch typed := v.(type) {
		case nil:
		case []any:
			for _, item := range typed {
				values.Add(name, scalar(item))
			}
		case bool:
			if typed {
				values.Set(name, model.CheckedValue)
			} else {
				values.Set(name, "false")
			}
		default:
			values.Set(name, scalar(typed))
		}
	}
	return values, nil
}

func scalar(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

// ApplyValues replays values into s as the events a user would raise, in
// form order, so masks and clamps apply as they would when typing.
func ApplyValues(s *session.Session, values url.Values) error {
	var errs []error
	for _, field := range s.Form().Fields {
		raw, ok := values[field.Name]
		if !ok {
			continue
		}
		switch field.Kind {
		case model.FieldKindCheckbox:
			checked, err := ParseChecked(first(raw))
			if err != nil {
				errs = append(errs, fmt.Errorf("cli: field %q: %w", field.Name, err))
				continue
			}
			if _, err := s.Toggle(field.Name, "", checked); err != nil {
				errs = append(errs, err)
			}
		case model.FieldKindCheckboxGroup:
			for _, v := range raw {
				if _, err := s.Toggle(field.Name, v, true); err != nil {
					errs = append(errs, err)
				}
			}
		case model.FieldKindRadio, model.FieldKindSelect:
			if _, err := s.Change(field.Name, first(raw)); err != nil {
				errs = append(errs, err)
			}
		default:
			s.Input(field.Name, first(raw))
		}
	}
	return errors.Join(errs...)
}

// ErrNotBoolean is returned for checkbox values that are neither a yes nor a
// no spelling.
var ErrNotBoolean = errors.New("cli: not a checkbox value")

// ParseChecked reads a checkbox value. It accepts strconv.ParseBool spellings,
// the YAML 1.1 words (yes/no, y/n, on/off) in any case, and "" as unchecked.
func ParseChecked(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "no", "n", "off":
		return false, nil
	case "yes", "y", "on":
		return true, nil
	}
	checked, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrNotBoolean, raw)
	}
	return checked, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
