package session

import (
	"net/url"

	"github.com/goliatone/go-contactform/pkg/a11y"
	"github.com/goliatone/go-contactform/pkg/format"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/submit"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// View is a point-in-time copy of everything a renderer needs to draw the
// form.
type View struct {
	Form           model.Form                 `json:"-"`
	Values         url.Values                 `json:"values"`
	Marks          map[string]validation.Mark `json:"marks"`
	Counters       map[string]format.Counter  `json:"counters,omitempty"`
	Button         submit.ButtonState         `json:"button"`
	FormVisible    bool                       `json:"formVisible"`
	SuccessVisible bool                       `json:"successVisible"`
	Alert          string                     `json:"alert,omitempty"`
	Announcements  []a11y.Announcement        `json:"announcements,omitempty"`
}

// View snapshots the session for rendering.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := make(map[string]format.Counter, len(s.counters))
	for k, v := range s.counters {
		counters[k] = v
	}
	return View{
		Form:           s.form,
		Values:         model.CloneValues(s.values),
		Marks:          s.marks.Snapshot(),
		Counters:       counters,
		Button:         s.handler.Button(),
		FormVisible:    s.formVisible,
		SuccessVisible: s.successVisible,
		Alert:          s.alert,
		Announcements:  s.region.Live(),
	}
}
