package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/englishcorner/chatclient/internal/kvstore"
)

func newTestStore(t *testing.T, opts ...kvstore.Option) (*Store, kvstore.Backend) {
	t.Helper()

	backend, err := kvstore.NewBackend(kvstore.DriverMemory, opts...)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(backend, logger), backend
}

func TestLoad_SeedsWelcomeEntry(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	log := store.Load(ctx)

	if len(log) != 1 {
		t.Fatalf("len(log) = %d, want 1", len(log))
	}
	if log[0].Role != RoleAssistant {
		t.Errorf("seed role = %v, want %v", log[0].Role, RoleAssistant)
	}
	if log[0].Text != WelcomeText {
		t.Errorf("seed text = %q, want %q", log[0].Text, WelcomeText)
	}
	if log[0].ID != 0 {
		t.Errorf("seed id = %d, want 0", log[0].ID)
	}

	// The seed is persisted immediately.
	if _, err := backend.Get(ctx, HistoryKey); err != nil {
		t.Errorf("history key not persisted after seed: %v", err)
	}
}

func TestLoad_ReturnsStoredLog(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	log := store.Load(ctx)
	log = store.Append(log, "hello", RoleUser)
	log = store.Append(log, "hi there", RoleAssistant)
	store.Persist(ctx, log)

	reloaded := store.Load(ctx)
	if len(reloaded) != 3 {
		t.Fatalf("len(reloaded) = %d, want 3", len(reloaded))
	}
	for i, entry := range reloaded {
		if entry.ID != i {
			t.Errorf("entry %d id = %d, want %d", i, entry.ID, i)
		}
		if entry.Text != log[i].Text {
			t.Errorf("entry %d text = %q, want %q", i, entry.Text, log[i].Text)
		}
	}
}

func TestLoad_ReseedsOnCorruptHistory(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	if err := backend.Set(ctx, HistoryKey, "not-json"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	log := store.Load(ctx)
	if len(log) != 1 || log[0].Text != WelcomeText {
		t.Errorf("Load() after corruption = %v, want welcome seed", log)
	}
}

func TestAppend_DoesNotMutateInput(t *testing.T) {
	store, _ := newTestStore(t)

	base := store.Append(nil, "first", RoleUser)
	a := store.Append(base, "branch a", RoleAssistant)
	b := store.Append(base, "branch b", RoleAssistant)

	if len(base) != 1 {
		t.Errorf("len(base) = %d after appends, want 1", len(base))
	}
	if a[1].Text != "branch a" || b[1].Text != "branch b" {
		t.Errorf("branches overwrote each other: %q, %q", a[1].Text, b[1].Text)
	}
	if a[1].ID != 1 || b[1].ID != 1 {
		t.Errorf("branch ids = %d, %d, want 1, 1", a[1].ID, b[1].ID)
	}
}

func TestAppend_CountsTokens(t *testing.T) {
	store, _ := newTestStore(t)

	log := store.Append(nil, "When do you meet?", RoleUser)
	if log[0].TokenCount <= 0 {
		t.Errorf("TokenCount = %d, want > 0", log[0].TokenCount)
	}
}

func TestPersist_CapsAtHundredEntries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var log Log
	for i := 0; i < 150; i++ {
		log = store.Append(log, fmt.Sprintf("message-%d", i), RoleUser)
		store.Persist(ctx, log)
	}

	reloaded := store.Load(ctx)
	if len(reloaded) != historyCap {
		t.Fatalf("len(reloaded) = %d, want %d", len(reloaded), historyCap)
	}
	// The most recent 100, in original order.
	for i, entry := range reloaded {
		want := fmt.Sprintf("message-%d", 50+i)
		if entry.Text != want {
			t.Errorf("entry %d text = %q, want %q", i, entry.Text, want)
		}
	}
}

func TestPersist_FallsBackToFiftyUnderQuota(t *testing.T) {
	// Quota sized so a 100-entry log does not fit but a 50-entry one does.
	store, _ := newTestStore(t, kvstore.WithMaxValueBytes(4000))
	ctx := context.Background()

	var log Log
	for i := 0; i < 120; i++ {
		log = store.Append(log, fmt.Sprintf("message-%d", i), RoleUser)
	}
	store.Persist(ctx, log)

	reloaded := store.Load(ctx)
	if len(reloaded) != fallbackCap {
		t.Fatalf("len(reloaded) = %d, want %d", len(reloaded), fallbackCap)
	}
	for i, entry := range reloaded {
		want := fmt.Sprintf("message-%d", 70+i)
		if entry.Text != want {
			t.Errorf("entry %d text = %q, want %q", i, entry.Text, want)
		}
	}
}

// brokenBackend simulates storage that is disabled entirely.
type brokenBackend struct{}

var errStorageDown = errors.New("storage disabled")

func (brokenBackend) Get(context.Context, string) (string, error) { return "", errStorageDown }
func (brokenBackend) Set(context.Context, string, string) error   { return errStorageDown }
func (brokenBackend) Delete(context.Context, string) error        { return errStorageDown }
func (brokenBackend) Close() error                                { return nil }

func TestStore_AbsorbsStorageFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(brokenBackend{}, logger)
	ctx := context.Background()

	// Neither call may panic or surface the failure.
	log := store.Load(ctx)
	if len(log) != 1 {
		t.Fatalf("len(log) = %d, want seed of 1", len(log))
	}

	log = store.Append(log, "still works in memory", RoleUser)
	store.Persist(ctx, log)

	if len(log) != 2 {
		t.Errorf("len(log) = %d, want 2", len(log))
	}
}
