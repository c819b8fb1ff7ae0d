package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/session"
	"github.com/goliatone/go-contactform/pkg/validation"
)

const formTemplate = "form.tpl"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	logger    *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// form.tpl and field.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templates = os.DirFS(path)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer turns a session view into HTML using a pongo2 template set.
type Renderer struct {
	logger *slog.Logger

	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

// New builds a renderer over the embedded templates unless another bundle is
// supplied.
func New(opts ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS(), logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if _, err := fs.Stat(cfg.templates, formTemplate); err != nil {
		return nil, fmt.Errorf("render: template bundle: %w", err)
	}
	return &Renderer{
		logger:    cfg.logger,
		set:       pongo2.NewSet("contactform", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
	}, nil
}

// Name identifies the renderer.
func (r *Renderer) Name() string { return "html" }

// ContentType is the MIME type of rendered output.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render draws the form in the state captured by view.
func (r *Renderer) Render(ctx context.Context, view session.View) ([]byte, error) {
	if r == nil || r.set == nil {
		return nil, errors.New("render: renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tmpl, err := r.template(formTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(buildContext(view), &buf); err != nil {
		return nil, fmt.Errorf("render: execute %q: %w", formTemplate, err)
	}
	r.logger.Debug("form rendered", "form", view.Form.ID, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldView struct {
	Name         string
	Kind         string
	Label        string
	Placeholder  string
	Value        string
	Checked      bool
	Required     bool
	Options      []optionView
	State        string
	Error        string
	ErrorShown   bool
	Counter      string
	CounterLevel string
}

func buildContext(view session.View) pongo2.Context {
	fields := make([]fieldView, 0, len(view.Form.Fields))
	for _, field := range view.Form.Fields {
		fields = append(fields, buildField(field, view))
	}
	return pongo2.Context{
		"form":            view.Form,
		"fields":          fields,
		"button":          view.Button,
		"visible":         view.FormVisible,
		"success_visible": view.SuccessVisible,
		"success":         SanitizeMessage(view.Form.SuccessMessage),
		"alert":           view.Alert,
		"announcements":   view.Announcements,
	}
}

func buildField(field model.Field, view session.View) fieldView {
	mark := view.Marks[field.Name]
	fv := fieldView{
		Name:        field.Name,
		Kind:        string(field.Kind),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Value:       view.Values.Get(field.Name),
		Checked:     field.Checked(view.Values),
		Required:    field.Rule != nil && field.Rule.Required,
		State:       string(mark.State),
	}
	if mark.State == validation.StateError {
		fv.Error = mark.Message
		fv.ErrorShown = mark.Shown
	}
	if field.IsChoice() {
		selected := make(map[string]bool)
		for _, v := range view.Values[field.Name] {
			selected[v] = true
		}
		for _, opt := range field.Options {
			fv.Options = append(fv.Options, optionView{Value: opt.Value, Label: opt.Label, Selected: selected[opt.Value]})
		}
	}
	if counter, ok := view.Counters[field.Name]; ok {
		fv.Counter = counter.String()
		fv.CounterLevel = string(counter.Level)
	}
	return fv
}
