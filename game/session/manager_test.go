package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/battleships/game/cpu"
	"github.com/wricardo/battleships/game/match"
)

func createTestMatch(t *testing.T) *match.Match {
	t.Helper()
	m, err := match.New(match.ModeSingle, match.WithOpponent(cpu.New(1)))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	return m
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", createTestMatch(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Match == nil {
			t.Error("Expected match to be set")
		}
		if session.CreatedAt.IsZero() || !session.LastAccessedAt.Equal(session.CreatedAt) {
			t.Error("Expected timestamps to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", createTestMatch(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != IDLength {
			t.Errorf("Expected %d-character session ID, got %q", IDLength, session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", createTestMatch(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", createTestMatch(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		for _, id := range []string{" padded ", "a/b", "q?x"} {
			if _, err := manager.Create(id, createTestMatch(t)); err != ErrInvalidSessionID {
				t.Errorf("Expected ErrInvalidSessionID for %q, got %v", id, err)
			}
		}
	})

	t.Run("nil match", func(t *testing.T) {
		if _, err := manager.Create("no-match", nil); err == nil {
			t.Error("Expected error for nil match")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestMatch(t))

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Errorf("Expected the stored session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-test", createTestMatch(t))

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", createTestMatch(t))
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	manager.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	manager.Create("list-3", createTestMatch(t))
	manager.Create("list-1", createTestMatch(t))
	manager.Create("list-2", createTestMatch(t))

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}

	want := []string{"list-3", "list-1", "list-2"}
	for i, id := range want {
		if sessions[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, sessions[i].ID)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()

	active, _ := manager.Create("active", createTestMatch(t))
	expired, _ := manager.Create("expired", createTestMatch(t))

	// Simulate expired session
	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)
	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}

	if _, err := manager.Get("expired"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	session, _ := manager.Create("access-test", createTestMatch(t))
	originalTime := session.LastAccessedAt

	now = now.Add(time.Minute)
	if err := manager.UpdateLastAccessed("ACCESS-TEST"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			m, err := match.New(match.ModeMulti, match.WithOpponent(cpu.New(int64(id))))
			if err != nil {
				errs <- err
				return
			}
			sessionID := ""
			if id%2 == 0 {
				sessionID = fmt.Sprintf("c-%d", id%10)
			}
			if _, err := manager.Create(sessionID, m); err != nil && err != ErrSessionAlreadyExists {
				errs <- err
			}
			manager.List()
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	// 50 generated IDs plus 5 distinct custom IDs
	if got := manager.Count(); got != 55 {
		t.Errorf("Expected 55 sessions, got %d", got)
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()

	session1, _ := manager.Create("iso-1", createTestMatch(t))
	session2, _ := manager.Create("iso-2", createTestMatch(t))

	if _, err := session1.Match.PlaceShip(0, 0, 5, true); err != nil {
		t.Fatal(err)
	}

	if len(session2.Match.Remaining()) != 5 {
		t.Error("Session 2 should not be affected by session 1 placements")
	}
	if len(session1.Match.Remaining()) != 4 {
		t.Error("Session 1 should have placed its carrier")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", createTestMatch(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != IDLength {
			t.Errorf("Expected %d-character ID, got %d", IDLength, len(session.ID))
		}
	}
}
