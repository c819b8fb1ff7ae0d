// Package contactform wires the form packages together for callers that want
// a ready session: a definition, the HTTP submission client and the HTML
// renderer.
package contactform

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-contactform/pkg/formdef"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/session"
	"github.com/goliatone/go-contactform/pkg/submit"
)

// Form aliases model.Form for callers that only import the root package.
type Form = model.Form

// Option configures NewSession.
type Option func(*config)

type config struct {
	logger         *slog.Logger
	submitOptions  []submit.Option
	sessionOptions []session.Option
}

// WithLogger shares one logger between the client and the session.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSubmitOptions forwards options to the submission client.
func WithSubmitOptions(opts ...submit.Option) Option {
	return func(cfg *config) {
		cfg.submitOptions = append(cfg.submitOptions, opts...)
	}
}

// WithSessionOptions forwards options to the session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(cfg *config) {
		cfg.sessionOptions = append(cfg.sessionOptions, opts...)
	}
}

// DefaultForm returns the built-in application form.
func DefaultForm() Form {
	return formdef.Default()
}

// LoadForm reads a YAML, JSON or TOML form definition.
func LoadForm(path string) (Form, error) {
	return formdef.Load(path)
}

// NewSession builds a session for form that posts to the form's endpoint.
func NewSession(form Form, options ...Option) (*session.Session, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	client, err := submit.New(form, append([]submit.Option{submit.WithLogger(cfg.logger)}, cfg.submitOptions...)...)
	if err != nil {
		return nil, err
	}
	return session.New(form, client, append([]session.Option{session.WithLogger(cfg.logger)}, cfg.sessionOptions...)...)
}

// RenderHTML renders the session's current state with the built-in
// templates.
func RenderHTML(ctx context.Context, s *session.Session) ([]byte, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, s.View())
}
