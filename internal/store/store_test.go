package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// newTestStore creates a Store backed by a database in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)

	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}

	// Migrations should have created the tables
	for _, table := range []string{"settings", "sessions"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("expected table %q to exist: %v", table, err)
		}
	}
}

func TestSettingsRepository(t *testing.T) {
	t.Run("get missing key returns ErrNotFound", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Settings().Get("missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.Settings().Set("pinch_sensitivity", "2.5"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		value, err := s.Settings().Get("pinch_sensitivity")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != "2.5" {
			t.Errorf("expected value 2.5, got %q", value)
		}
	})

	t.Run("set overwrites existing value", func(t *testing.T) {
		s := newTestStore(t)

		s.Settings().Set("dwell_frames", "3")
		s.Settings().Set("dwell_frames", "5")

		value, err := s.Settings().Get("dwell_frames")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value != "5" {
			t.Errorf("expected value 5, got %q", value)
		}
	})

	t.Run("all returns every setting", func(t *testing.T) {
		s := newTestStore(t)

		s.Settings().Set("a", "1")
		s.Settings().Set("b", "2")

		all, err := s.Settings().All()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 settings, got %d", len(all))
		}
		if all["a"] != "1" || all["b"] != "2" {
			t.Errorf("unexpected settings map: %v", all)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestStore(t)

		s.Settings().Set("key", "value")

		if err := s.Settings().Delete("key"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := s.Settings().Get("key"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.Settings().Delete("key"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		s := newTestStore(t)

		sess := &Session{
			ID:        uuid.New().String(),
			PeakScale: 1.0,
		}
		if err := s.Sessions().Create(sess); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess.StartedAt.IsZero() {
			t.Error("expected Create to fill StartedAt")
		}

		got, err := s.Sessions().GetByID(sess.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != sess.ID {
			t.Errorf("expected ID %q, got %q", sess.ID, got.ID)
		}
		if got.EndedAt != nil {
			t.Error("expected nil EndedAt for a running session")
		}
	})

	t.Run("update finalizes counters", func(t *testing.T) {
		s := newTestStore(t)

		sess := &Session{ID: uuid.New().String(), PeakScale: 1.0}
		if err := s.Sessions().Create(sess); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ended := time.Now()
		sess.EndedAt = &ended
		sess.Frames = 420
		sess.Grabs = 7
		sess.PeakScale = 2.1

		if err := s.Sessions().Update(sess); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := s.Sessions().GetByID(sess.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Frames != 420 || got.Grabs != 7 {
			t.Errorf("expected counters 420/7, got %d/%d", got.Frames, got.Grabs)
		}
		if got.PeakScale != 2.1 {
			t.Errorf("expected peak scale 2.1, got %f", got.PeakScale)
		}
		if got.EndedAt == nil {
			t.Error("expected EndedAt to be set")
		}
	})

	t.Run("update unknown session returns ErrNotFound", func(t *testing.T) {
		s := newTestStore(t)

		err := s.Sessions().Update(&Session{ID: "nope"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list is most recent first", func(t *testing.T) {
		s := newTestStore(t)

		older := &Session{ID: uuid.New().String(), StartedAt: time.Now().Add(-time.Hour)}
		newer := &Session{ID: uuid.New().String(), StartedAt: time.Now()}
		s.Sessions().Create(older)
		s.Sessions().Create(newer)

		sessions, err := s.Sessions().List()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != newer.ID {
			t.Error("expected the newer session first")
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestStore(t)

		sess := &Session{ID: uuid.New().String()}
		s.Sessions().Create(sess)

		if err := s.Sessions().Delete(sess.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := s.Sessions().GetByID(sess.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.Sessions().Delete(sess.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}
