package autosave_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/internal/clock"
	"github.com/goliatone/go-contactform/pkg/autosave"
	"github.com/goliatone/go-contactform/pkg/model"
)

func sample(first string) model.Data {
	return model.Data{
		Text:  map[string]string{"firstName": first},
		Lists: map[string][]string{"skills": {"go"}},
		Flags: map[string]bool{"terms": true},
	}
}

func TestStoreSaveLoadClear(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := autosave.NewStore(autosave.WithClock(clock.NewManual(start)))

	if !store.Empty() {
		t.Fatalf("new store should be empty")
	}

	data := sample("Ada")
	saved := store.Save(data)
	data.Text["firstName"] = "mutated"
	data.Lists["skills"][0] = "mutated"

	got, ok := store.Load()
	if !ok {
		t.Fatalf("expected snapshot")
	}
	if got.ID != saved.ID || !got.SavedAt.Equal(start) {
		t.Fatalf("unexpected snapshot metadata %+v", got)
	}
	if diff := cmp.Diff(sample("Ada"), got.Data); diff != "" {
		t.Fatalf("snapshot should be isolated from caller mutations (-want +got):\n%s", diff)
	}

	store.Clear()
	if _, ok := store.Load(); ok {
		t.Fatalf("expected empty store after Clear")
	}
}

func TestStoreIgnoresEmptySnapshots(t *testing.T) {
	store := autosave.NewStore()
	store.Save(model.Data{})
	if !store.Empty() {
		t.Fatalf("a snapshot without field data should not restore")
	}
}

func TestRunSavesOnTickAndOnShutdown(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	store := autosave.NewStore(autosave.WithClock(clk))

	var mu sync.Mutex
	current := "first"
	source := func() model.Data {
		mu.Lock()
		defer mu.Unlock()
		return sample(current)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, 30*time.Second, source) }()

	waitFor(t, func() bool { return clk.Pending() == 1 })
	clk.Advance(30 * time.Second)
	waitFor(t, func() bool { return !store.Empty() })

	mu.Lock()
	current = "second"
	mu.Unlock()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	snap, _ := store.Load()
	if snap.Data.Text["firstName"] != "second" {
		t.Fatalf("expected shutdown save to capture latest data, got %q", snap.Data.Text["firstName"])
	}
	if clk.Pending() != 0 {
		t.Fatalf("expected no pending timers after Run returns, got %d", clk.Pending())
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	store := autosave.NewStore()
	if err := store.Run(context.Background(), 0, func() model.Data { return model.Data{} }); err == nil {
		t.Fatalf("expected interval error")
	}
	if err := store.Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected source error")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
