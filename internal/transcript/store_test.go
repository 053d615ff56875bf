package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore creates a Store backed by a throwaway database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "handspeak-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "handspeak-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"sessions", "utterances", "settings"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestSessionRepository_BeginAndEnd(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	session, err := repo.Begin()
	if err != nil {
		t.Fatalf("failed to begin session: %v", err)
	}
	if session.ID == "" {
		t.Error("session ID should be assigned")
	}
	if session.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}
	if session.EndedAt != nil {
		t.Error("EndedAt should be nil for a running session")
	}

	if err := repo.End(session.ID); err != nil {
		t.Fatalf("failed to end session: %v", err)
	}

	retrieved, err := repo.GetByID(session.ID)
	if err != nil {
		t.Fatalf("failed to get session by ID: %v", err)
	}
	if retrieved.EndedAt == nil {
		t.Error("EndedAt should be set after End")
	}
}

func TestSessionRepository_EndMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Sessions().End("no-such-session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_GetByIDMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("no-such-session")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUtteranceRepository_RecordAndList(t *testing.T) {
	s := newTestStore(t)

	session, err := s.Sessions().Begin()
	if err != nil {
		t.Fatalf("failed to begin session: %v", err)
	}

	repo := s.Utterances()
	base := time.Now().Add(-time.Minute)
	labels := []string{"A", "B", "V"}
	for i, label := range labels {
		u := &Utterance{
			SessionID:  session.ID,
			Label:      label,
			Confidence: 0.9,
			HoldMs:     800,
			SpokenAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Record(u); err != nil {
			t.Fatalf("failed to record utterance %q: %v", label, err)
		}
		if u.ID == "" {
			t.Error("utterance ID should be assigned")
		}
	}

	bySession, err := repo.ListBySession(session.ID)
	if err != nil {
		t.Fatalf("failed to list by session: %v", err)
	}
	if len(bySession) != 3 {
		t.Fatalf("expected 3 utterances, got %d", len(bySession))
	}
	for i, label := range labels {
		if bySession[i].Label != label {
			t.Errorf("utterance %d: got label %q, want %q", i, bySession[i].Label, label)
		}
	}

	recent, err := repo.ListRecent(2)
	if err != nil {
		t.Fatalf("failed to list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent utterances, got %d", len(recent))
	}
	// Newest first.
	if recent[0].Label != "V" || recent[1].Label != "B" {
		t.Errorf("unexpected recent order: %q, %q", recent[0].Label, recent[1].Label)
	}
}

func TestSettingRepository_GetAndSet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	_, err := repo.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := repo.Set("voice", "espeak-ng"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := repo.Set("voice", "say"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	value, err := repo.Get("voice")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if value != "say" {
		t.Errorf("got %q, want %q", value, "say")
	}
}

func TestSettingRepository_Bool(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	enabled, err := repo.GetBool("recognition_enabled", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if !enabled {
		t.Error("unset bool should return the fallback")
	}

	if err := repo.SetBool("recognition_enabled", false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}

	enabled, err = repo.GetBool("recognition_enabled", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if enabled {
		t.Error("expected stored false to win over the fallback")
	}
}

func TestUtteranceRepository_CascadeDelete(t *testing.T) {
	s := newTestStore(t)

	session, err := s.Sessions().Begin()
	if err != nil {
		t.Fatalf("failed to begin session: %v", err)
	}

	u := &Utterance{SessionID: session.ID, Label: "A", Confidence: 0.9, HoldMs: 800}
	if err := s.Utterances().Record(u); err != nil {
		t.Fatalf("failed to record utterance: %v", err)
	}

	if _, err := s.DB().Exec("DELETE FROM sessions WHERE id = ?", session.ID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	remaining, err := s.Utterances().ListBySession(session.ID)
	if err != nil {
		t.Fatalf("failed to list utterances: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected cascade delete to remove utterances, %d remain", len(remaining))
	}
}
