package validation

import "sync"

// State is the visual validation state of a field group.
type State string

const (
	StateNone    State = ""
	StateSuccess State = "success"
	StateError   State = "error"
)

// Mark is what a field group currently displays: its state class and the
// inline error message, shown only while the group is in error.
type Mark struct {
	State   State  `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Shown   bool   `json:"shown,omitempty"`
}

// FieldError pairs a field with the message it currently shows.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Marks tracks the rendered validation state of every field group in form
// order. It is safe for concurrent use.
type Marks struct {
	mu    sync.RWMutex
	order []string
	marks map[string]Mark
}

// NewMarks creates an empty tracker. order fixes the traversal order used by
// Errors and FirstError; fields outside it sort after, in first-touch order.
func NewMarks(order []string) *Marks {
	return &Marks{
		order: append([]string(nil), order...),
		marks: make(map[string]Mark, len(order)),
	}
}

// Get returns the current mark of field.
func (m *Marks) Get(field string) Mark {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.marks[field]
}

// HasError reports whether field is currently in error.
func (m *Marks) HasError(field string) bool {
	return m.Get(field).State == StateError
}

// Success marks field valid and hides its message.
func (m *Marks) Success(field string) {
	m.set(field, Mark{State: StateSuccess})
}

// Error marks field invalid and shows message.
func (m *Marks) Error(field, message string) {
	m.set(field, Mark{State: StateError, Message: message, Shown: true})
}

// Clear drops any state on field.
func (m *Marks) Clear(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.marks, field)
}

// ClearAll resets every field group.
func (m *Marks) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks = make(map[string]Mark, len(m.order))
}

// Snapshot returns a copy of all marks keyed by field.
func (m *Marks) Snapshot() map[string]Mark {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Mark, len(m.marks))
	for k, v := range m.marks {
		out[k] = v
	}
	return out
}

// Errors returns the shown error messages in form order.
func (m *Marks) Errors() []FieldError {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []FieldError
	for _, field := range m.order {
		mark := m.marks[field]
		if mark.State == StateError && mark.Shown && mark.Message != "" {
			out = append(out, FieldError{Field: field, Message: mark.Message})
		}
	}
	return out
}

// FirstError returns the first field group in error, in form order.
func (m *Marks) FirstError() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, field := range m.order {
		if m.marks[field].State == StateError {
			return field, true
		}
	}
	return "", false
}

func (m *Marks) set(field string, mark Mark) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known(field) {
		m.order = append(m.order, field)
	}
	m.marks[field] = mark
}

func (m *Marks) known(field string) bool {
	for _, name := range m.order {
		if name == field {
			return true
		}
	}
	return false
}
