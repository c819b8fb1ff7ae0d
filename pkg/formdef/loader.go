package formdef

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/rules"
)

// Format identifies the encoding of a form definition file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for files whose extension is not one of
// .json, .yaml, .yml or .toml.
var ErrUnsupportedFormat = errors.New("formdef: unsupported file format")

// FormatFromPath infers the definition format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads a form definition from disk.
func Load(path string) (model.Form, error) {
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFS reads a form definition from an fs.FS.
func LoadFS(fsys fs.FS, name string) (model.Form, error) {
	format, err := FormatFromPath(name)
	if err != nil {
		return model.Form{}, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return model.Form{}, fmt.Errorf("formdef: read %s: %w", name, err)
	}
	form, err := Parse(data, format)
	if err != nil {
		return model.Form{}, fmt.Errorf("formdef: %s: %w", name, err)
	}
	return form, nil
}

type documentFile struct {
	ID               string        `json:"id" yaml:"id" toml:"id"`
	Title            string        `json:"title" yaml:"title" toml:"title"`
	Endpoint         string        `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Method           string        `json:"method" yaml:"method" toml:"method"`
	SubmitLabel      string        `json:"submitLabel" yaml:"submitLabel" toml:"submitLabel"`
	BusyLabel        string        `json:"busyLabel" yaml:"busyLabel" toml:"busyLabel"`
	SuccessMessage   string        `json:"successMessage" yaml:"successMessage" toml:"successMessage"`
	FailureMessage   string        `json:"failureMessage" yaml:"failureMessage" toml:"failureMessage"`
	Fields           []fieldFile   `json:"fields" yaml:"fields" toml:"fields"`
	Payload          []payloadFile `json:"payload" yaml:"payload" toml:"payload"`
	Limits           []limitFile   `json:"limits" yaml:"limits" toml:"limits"`
	Recommended      []string      `json:"recommended" yaml:"recommended" toml:"recommended"`
	AutosaveInterval string        `json:"autosaveInterval" yaml:"autosaveInterval" toml:"autosaveInterval"`
	ResetDelay       string        `json:"resetDelay" yaml:"resetDelay" toml:"resetDelay"`
}

type fieldFile struct {
	Name        string       `json:"name" yaml:"name" toml:"name"`
	Kind        string       `json:"kind" yaml:"kind" toml:"kind"`
	Label       string       `json:"label" yaml:"label" toml:"label"`
	Placeholder string       `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Options     []optionFile `json:"options" yaml:"options" toml:"options"`
	Clamp       *rangeFile   `json:"clamp" yaml:"clamp" toml:"clamp"`
	Mask        string       `json:"mask" yaml:"mask" toml:"mask"`
	Rule        *rules.Rule  `json:"rule" yaml:"rule" toml:"rule"`
}

type optionFile struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label" yaml:"label" toml:"label"`
}

type rangeFile struct {
	Min int `json:"min" yaml:"min" toml:"min"`
	Max int `json:"max" yaml:"max" toml:"max"`
}

type payloadFile struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Source   string `json:"source" yaml:"source" toml:"source"`
	Encoding string `json:"encoding" yaml:"encoding" toml:"encoding"`
}

type limitFile struct {
	Field   string `json:"field" yaml:"field" toml:"field"`
	Max     int    `json:"max" yaml:"max" toml:"max"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

// Parse decodes a form definition and applies defaults for omitted labels,
// method and timings.
func Parse(data []byte, format Format) (model.Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Form{}, errors.New("definition is empty")
	}

	var doc documentFile
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return model.Form{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return model.Form{}, fmt.Errorf("decode %s: %w", format, err)
	}

	form, err := normalise(doc)
	if err != nil {
		return model.Form{}, err
	}
	if err := Validate(form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

func normalise(doc documentFile) (model.Form, error) {
	defaults := Default()
	form := model.Form{
		ID:             strings.TrimSpace(doc.ID),
		Title:          strings.TrimSpace(doc.Title),
		Endpoint:       strings.TrimSpace(doc.Endpoint),
		Method:         strings.ToUpper(strings.TrimSpace(doc.Method)),
		SubmitLabel:    orDefault(doc.SubmitLabel, defaults.SubmitLabel),
		BusyLabel:      orDefault(doc.BusyLabel, defaults.BusyLabel),
		SuccessMessage: orDefault(doc.SuccessMessage, defaults.SuccessMessage),
		FailureMessage: orDefault(doc.FailureMessage, defaults.FailureMessage),
		Recommended:    trimAll(doc.Recommended),
	}
	if form.Method == "" {
		form.Method = "POST"
	}

	var err error
	if form.AutosaveInterval, err = parseDuration(doc.AutosaveInterval, DefaultAutosaveInterval); err != nil {
		return model.Form{}, fmt.Errorf("autosaveInterval: %w", err)
	}
	if form.ResetDelay, err = parseDuration(doc.ResetDelay, DefaultResetDelay); err != nil {
		return model.Form{}, fmt.Errorf("resetDelay: %w", err)
	}

	for _, raw := range doc.Fields {
		field := model.Field{
			Name:        strings.TrimSpace(raw.Name),
			Kind:        model.FieldKind(strings.ToLower(strings.TrimSpace(raw.Kind))),
			Label:       strings.TrimSpace(raw.Label),
			Placeholder: raw.Placeholder,
			Mask:        strings.TrimSpace(raw.Mask),
		}
		if field.Kind == "" {
			field.Kind = model.FieldKindText
		}
		for _, opt := range raw.Options {
			value := strings.TrimSpace(opt.Value)
			label := strings.TrimSpace(opt.Label)
			if label == "" {
				label = value
			}
			field.Options = append(field.Options, model.Option{Value: value, Label: label})
		}
		if raw.Clamp != nil {
			field.Clamp = &model.Range{Min: raw.Clamp.Min, Max: raw.Clamp.Max}
		}
		if raw.Rule != nil {
			rule := *raw.Rule
			field.Rule = &rule
		}
		form.Fields = append(form.Fields, field)
	}

	for _, raw := range doc.Payload {
		form.Payload = append(form.Payload, model.PayloadField{
			Name:     strings.TrimSpace(raw.Name),
			Source:   strings.TrimSpace(raw.Source),
			Encoding: strings.ToLower(strings.TrimSpace(raw.Encoding)),
		})
	}
	for _, raw := range doc.Limits {
		form.Limits = append(form.Limits, model.Limit{
			Field:   strings.TrimSpace(raw.Field),
			Max:     raw.Max,
			Message: strings.TrimSpace(raw.Message),
		})
	}
	return form, nil
}

// Validate checks a form definition for structural problems: missing
// identifiers, duplicate or unknown field references, choice fields without
// options and rules that fail to compile.
func Validate(form model.Form) error {
	if form.ID == "" {
		return errors.New("form id is required")
	}
	if form.Endpoint == "" {
		return errors.New("form endpoint is required")
	}
	if len(form.Fields) == 0 {
		return errors.New("form declares no fields")
	}

	seen := make(map[string]model.Field, len(form.Fields))
	for idx, field := range form.Fields {
		if field.Name == "" {
			return fmt.Errorf("field %d: name is required", idx)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("field %q declared twice", field.Name)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("field %q: unknown kind %q", field.Name, field.Kind)
		}
		if field.IsChoice() && len(field.Options) == 0 {
			return fmt.Errorf("field %q: %s requires options", field.Name, field.Kind)
		}
		if field.Clamp != nil && field.Clamp.Min > field.Clamp.Max {
			return fmt.Errorf("field %q: clamp min %d exceeds max %d", field.Name, field.Clamp.Min, field.Clamp.Max)
		}
		if field.Mask != "" && field.Mask != model.MaskPhone {
			return fmt.Errorf("field %q: unknown mask %q", field.Name, field.Mask)
		}
		seen[field.Name] = field
	}

	if _, err := form.Rules(); err != nil {
		return err
	}

	payloadNames := make(map[string]struct{}, len(form.Payload))
	for _, p := range form.Payload {
		if p.Name == "" {
			return errors.New("payload entry with empty name")
		}
		if _, dup := payloadNames[p.Name]; dup {
			return fmt.Errorf("payload name %q declared twice", p.Name)
		}
		payloadNames[p.Name] = struct{}{}
		if p.Source == model.SourceSubmittedAt {
			continue
		}
		if _, ok := seen[p.Source]; !ok {
			return fmt.Errorf("payload %q: unknown source field %q", p.Name, p.Source)
		}
		switch p.Encoding {
		case model.EncodingText, model.EncodingJoin, model.EncodingYesNo, model.EncodingTime:
		default:
			return fmt.Errorf("payload %q: unknown encoding %q", p.Name, p.Encoding)
		}
	}

	for _, limit := range form.Limits {
		if _, ok := seen[limit.Field]; !ok {
			return fmt.Errorf("limit: unknown field %q", limit.Field)
		}
		if limit.Max <= 0 {
			return fmt.Errorf("limit %q: max must be positive", limit.Field)
		}
	}
	for _, name := range form.Recommended {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("recommended: unknown field %q", name)
		}
	}
	if form.AutosaveInterval <= 0 {
		return errors.New("autosave interval must be positive")
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	return time.ParseDuration(trimmed)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
