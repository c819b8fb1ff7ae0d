package a11y

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-contactform/internal/clock"
)

const (
	// DefaultDelay lets validation settle before errors are read out.
	DefaultDelay = 100 * time.Millisecond
	// DefaultTTL is how long an announcement stays in the live region.
	DefaultTTL = time.Second
)

// Announcement is a message for assistive technology, delivered through an
// off-screen polite live region.
type Announcement struct {
	Text   string `json:"text"`
	Live   string `json:"live"`
	Atomic bool   `json:"atomic"`
}

// Compose builds the error summary read out after a failed submit, e.g.
// "Form has 2 error(s): Age must be between 18 and 100. Please select your
// availability". It returns false when there is nothing to announce.
func Compose(messages []string) (Announcement, bool) {
	var clean []string
	for _, m := range messages {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) == 0 {
		return Announcement{}, false
	}
	return Announcement{
		Text:   fmt.Sprintf("Form has %d error(s): %s", len(clean), strings.Join(clean, ". ")),
		Live:   "polite",
		Atomic: true,
	}, true
}

// Region hosts live announcements.
type Region interface {
	Show(Announcement)
	Remove(Announcement)
}

// Option configures an Announcer.
type Option func(*Announcer)

// WithClock overrides the clock driving delays.
func WithClock(c clock.Clock) Option {
	return func(a *Announcer) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithTiming overrides the announcement delay and lifetime.
func WithTiming(delay, ttl time.Duration) Option {
	return func(a *Announcer) {
		if delay >= 0 {
			a.delay = delay
		}
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Announcer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Announcer schedules announcements into a Region.
type Announcer struct {
	region Region
	clock  clock.Clock
	delay  time.Duration
	ttl    time.Duration
	logger *slog.Logger
}

// New constructs an Announcer writing into region.
func New(region Region, opts ...Option) *Announcer {
	a := &Announcer{
		region: region,
		clock:  clock.Real{},
		delay:  DefaultDelay,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// AnnounceErrors reads the currently shown error messages after the delay and,
// when there are any, shows the summary until the TTL expires.
func (a *Announcer) AnnounceErrors(messages func() []string) {
	if a == nil || a.region == nil || messages == nil {
		return
	}
	a.clock.AfterFunc(a.delay, func() {
		announcement, ok := Compose(messages())
		if !ok {
			return
		}
		a.region.Show(announcement)
		a.logger.Debug("errors announced", "text", announcement.Text)
		a.clock.AfterFunc(a.ttl, func() {
			a.region.Remove(announcement)
		})
	})
}

// Buffer is an in-memory Region. It keeps the announcements currently live
// and a history of everything shown.
type Buffer struct {
	mu      sync.Mutex
	live    []Announcement
	history []Announcement
}

// Show adds an announcement to the region.
func (b *Buffer) Show(a Announcement) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.live = append(b.live, a)
	b.history = append(b.history, a)
}

// Remove drops the first live announcement equal to a.
func (b *Buffer) Remove(a Announcement) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, current := range b.live {
		if current == a {
			b.live = append(b.live[:i], b.live[i+1:]...)
			return
		}
	}
}

// Live returns the announcements currently in the region.
func (b *Buffer) Live() []Announcement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Announcement(nil), b.live...)
}

// History returns every announcement ever shown.
func (b *Buffer) History() []Announcement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Announcement(nil), b.history...)
}
