package submit

import (
	"context"
	"sync"

	"github.com/goliatone/go-contactform/pkg/model"
)

// Submitter delivers collected form data.
type Submitter interface {
	Submit(ctx context.Context, data model.Data) (Result, error)
}

// ButtonState is how the submit button renders.
type ButtonState struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Loading  bool   `json:"loading"`
}

// Handler wraps a Submitter with the submit button's busy state: busy while a
// request is in flight and back to idle afterwards, whatever the outcome.
type Handler struct {
	submitter Submitter
	idleLabel string
	busyLabel string

	mu   sync.Mutex
	busy bool
}

// NewHandler wraps submitter with button labels taken from form.
func NewHandler(submitter Submitter, form model.Form) *Handler {
	return &Handler{
		submitter: submitter,
		idleLabel: form.SubmitLabel,
		busyLabel: form.BusyLabel,
	}
}

// Submit delivers data, refusing with ErrBusy while another delivery runs.
func (h *Handler) Submit(ctx context.Context, data model.Data) (Result, error) {
	h.mu.Lock()
	if h.busy {
		h.mu.Unlock()
		return Result{}, ErrBusy
	}
	h.busy = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.busy = false
		h.mu.Unlock()
	}()

	return h.submitter.Submit(ctx, data)
}

// Button reports the current button state.
func (h *Handler) Button() ButtonState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.busy {
		return ButtonState{Label: h.busyLabel, Disabled: true, Loading: true}
	}
	return ButtonState{Label: h.idleLabel}
}

// Busy reports whether a submission is in flight.
func (h *Handler) Busy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.busy
}
