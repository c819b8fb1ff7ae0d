package autosave

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-contactform/internal/clock"
	"github.com/goliatone/go-contactform/pkg/model"
)

// Snapshot is one autosaved copy of the form.
type Snapshot struct {
	ID      uuid.UUID  `json:"id"`
	SavedAt time.Time  `json:"savedAt"`
	Data    model.Data `json:"data"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp snapshots and drive Run.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store keeps the latest snapshot in memory only. Nothing survives a process
// restart. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	latest *Snapshot
	clock  clock.Clock
	logger *slog.Logger
}

// NewStore returns an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{clock: clock.Real{}, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Save replaces the stored snapshot with a copy of data.
func (s *Store) Save(data model.Data) Snapshot {
	snap := Snapshot{
		ID:      uuid.New(),
		SavedAt: s.clock.Now(),
		Data:    data.Clone(),
	}
	s.mu.Lock()
	s.latest = &snap
	s.mu.Unlock()
	s.logger.Debug("form auto-saved", "snapshot", snap.ID)
	return snap
}

// Load returns the stored snapshot. ok is false when nothing was saved or the
// saved snapshot holds no field data.
func (s *Store) Load() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil || s.latest.Data.Empty() {
		return Snapshot{}, false
	}
	out := *s.latest
	out.Data = out.Data.Clone()
	return out, true
}

// Clear drops the stored snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	s.latest = nil
	s.mu.Unlock()
}

// Empty reports whether Load would find nothing.
func (s *Store) Empty() bool {
	_, ok := s.Load()
	return !ok
}

// Source produces the data to autosave.
type Source func() model.Data

// Run saves source every interval until ctx is done, then saves once more so
// edits made since the last tick are kept (the "before unload" save).
func (s *Store) Run(ctx context.Context, interval time.Duration, source Source) error {
	if interval <= 0 {
		return errors.New("autosave: interval must be positive")
	}
	if source == nil {
		return errors.New("autosave: source is required")
	}

	tick := make(chan struct{}, 1)
	var (
		mu       sync.Mutex
		timer    clock.Timer
		stopped  bool
		schedule func()
	)
	schedule = func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		timer = s.clock.AfterFunc(interval, func() {
			select {
			case tick <- struct{}{}:
			default:
			}
			schedule()
		})
	}
	schedule()
	defer func() {
		mu.Lock()
		stopped = true
		timer.Stop()
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			s.Save(source())
			return nil
		case <-tick:
			s.Save(source())
		}
	}
}
