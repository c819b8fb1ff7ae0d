package session

import (
	"log/slog"

	"github.com/goliatone/go-contactform/internal/clock"
	"github.com/goliatone/go-contactform/pkg/autosave"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Confirmer asks the user to confirm a destructive action.
type Confirmer func(message string) bool

// Option configures a Session.
type Option func(*config)

type config struct {
	clock             clock.Clock
	logger            *slog.Logger
	store             *autosave.Store
	confirm           Confirmer
	validationOptions []validation.Option
}

// WithClock overrides the clock driving timed behaviour.
func WithClock(c clock.Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithLogger sets the structured logger shared by the session's components.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStore shares an autosave store, so a new session restores what a
// previous one saved.
func WithStore(store *autosave.Store) Option {
	return func(cfg *config) {
		if store != nil {
			cfg.store = store
		}
	}
}

// WithConfirmer installs the prompt used before Escape clears the form.
// Without one, Escape does nothing.
func WithConfirmer(fn Confirmer) Option {
	return func(cfg *config) {
		cfg.confirm = fn
	}
}

// WithValidationOptions forwards options to the field validator.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(cfg *config) {
		cfg.validationOptions = append(cfg.validationOptions, opts...)
	}
}
