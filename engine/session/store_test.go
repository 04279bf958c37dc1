package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	sess := New("sess-1", now)
	sess.Append(RoleUser, "do you have widgets", now)
	sess.Append(RoleAssistant, "we do", now)

	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(loaded.Turns))
	}
	if loaded.Turns[0].Role != RoleUser || loaded.Turns[0].Text != "do you have widgets" {
		t.Fatalf("unexpected first turn: %+v", loaded.Turns[0])
	}
}

func TestMemoryStoreLoadIsolatesCaller(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	now := time.Now()
	sess := New("sess-2", now)
	sess.Append(RoleUser, "hello", now)
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	first, _ := store.Load(context.Background(), "sess-2")
	first.Turns[0].Text = "mutated"

	second, _ := store.Load(context.Background(), "sess-2")
	if second.Turns[0].Text != "hello" {
		t.Fatal("stored session leaked a shared slice to the caller")
	}
}

func TestMemoryStoreMissingSession(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreRejectsBadInput(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("Save(nil) error = %v", err)
	}
	if err := store.Save(context.Background(), &Session{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save(no id) error = %v", err)
	}
	if _, err := store.Load(context.Background(), "  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load(blank) error = %v", err)
	}
}

func TestMemoryStorePrunesExpiredSessions(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	stale := New("stale", current)
	if err := store.Save(context.Background(), stale); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := store.Load(context.Background(), "stale"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound after ttl", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	sess := New("gone", time.Now())
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound after delete", err)
	}
}

func TestRecentTruncatesOldTurns(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sess := New("long", now)
	for i := 0; i < 20; i++ {
		sess.Append(RoleUser, "turn", now)
	}

	recent := sess.Recent(12)
	if len(recent) != 12 {
		t.Fatalf("recent = %d turns, want 12", len(recent))
	}
	if got := sess.Recent(0); got != nil {
		t.Fatalf("Recent(0) = %v, want nil", got)
	}
	if got := sess.Recent(100); len(got) != 20 {
		t.Fatalf("Recent(100) = %d turns, want all 20", len(got))
	}
}
