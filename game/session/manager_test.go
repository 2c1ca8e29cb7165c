package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/level"
	"github.com/wricardo/collect-game/game/loop"
)

func writeTestMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	return path
}

func createTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.TickRate = 200
	opts = append([]Option{WithPickerFactory(func() engine.Picker {
		return engine.NewSequencePicker(0)
	})}, opts...)
	m := NewManager(cfg, opts...)
	t.Cleanup(m.Close)
	return m
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestManager_Create(t *testing.T) {
	manager := createTestManager(t)
	path := writeTestMap(t, "PCE\n")

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "test", path)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Loop == nil {
			t.Error("Expected loop to be initialized")
		}
		if session.MapName != "test" {
			t.Errorf("Expected map name 'test', got '%s'", session.MapName)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", path)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "test", path)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid map", func(t *testing.T) {
		bad := writeTestMap(t, "P0E\n")
		_, err := manager.Create("", "bad", bad)
		if !errors.Is(err, level.ErrInvalidMap) {
			t.Errorf("Expected ErrInvalidMap, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := createTestManager(t)
	path := writeTestMap(t, "PCE\n")

	created, err := manager.Create("AbCd", "test", path)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	got, err := manager.Get("abcd")
	if err != nil {
		t.Fatalf("Expected case-insensitive lookup, got %v", err)
	}
	if got != created {
		t.Error("Expected the same session")
	}

	if _, err := manager.Get("zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SessionLoopRuns(t *testing.T) {
	manager := createTestManager(t)
	session, err := manager.Create("", "test", writeTestMap(t, "PCE\n"))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	res, err := session.Loop.Submit(testContext(t), loop.Move(engine.Right))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !res.Applied || res.Snapshot.Remaining != 0 {
		t.Errorf("Expected collecting move, got %+v", res)
	}

	// Frames keep advancing without input
	start := session.Loop.View().Frame
	deadline := time.Now().Add(2 * time.Second)
	for session.Loop.View().Frame == start {
		if time.Now().After(deadline) {
			t.Fatal("Loop did not advance")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := createTestManager(t)
	session, err := manager.Create("", "test", writeTestMap(t, "PCE\n"))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := manager.Delete(session.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if !session.Loop.Stopped() {
		t.Error("Expected loop to be stopped after delete")
	}
	if _, err := session.Loop.Submit(testContext(t), loop.Move(engine.Right)); !errors.Is(err, loop.ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
	if err := manager.Delete(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := createTestManager(t)
	path := writeTestMap(t, "PCE\n")

	for i := 0; i < 3; i++ {
		if _, err := manager.Create("", "test", path); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := createTestManager(t)
	path := writeTestMap(t, "PCE\n")

	old, _ := manager.Create("old1", "test", path)
	fresh, _ := manager.Create("new1", "test", path)

	manager.mu.Lock()
	manager.sessions["old1"].session.Touch(time.Now().Add(-2 * time.Hour))
	manager.mu.Unlock()

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if !old.Loop.Stopped() {
		t.Error("Expected expired session loop to be stopped")
	}
	if _, err := manager.Get(fresh.ID); err != nil {
		t.Errorf("Expected fresh session to remain, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := createTestManager(t)
	session, _ := manager.Create("", "test", writeTestMap(t, "PCE\n"))
	before := session.LastAccessedAt()

	time.Sleep(10 * time.Millisecond)
	if err := manager.UpdateLastAccessed(session.ID); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}

	after := session.LastAccessedAt()
	if !after.After(before) {
		t.Error("Expected last accessed time to move forward")
	}

	if err := manager.UpdateLastAccessed("none"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Observer(t *testing.T) {
	var (
		mu    sync.Mutex
		calls = make(map[string]int)
	)
	manager := createTestManager(t, WithObserver(func(id string, v loop.View) {
		mu.Lock()
		calls[id]++
		mu.Unlock()
	}))

	session, err := manager.Create("obs1", "test", writeTestMap(t, "PCE\n"))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if _, err := session.Loop.Submit(testContext(t), loop.Move(engine.Right)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// The observer runs before the next frame picks up another request
	if _, err := session.Loop.Submit(testContext(t), loop.Move(engine.Up)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls["obs1"] != 1 {
		t.Errorf("Expected one notification for obs1, got %d", calls["obs1"])
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := createTestManager(t)
	path := writeTestMap(t, "PCE\n")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", "test", path)
			if err != nil {
				t.Errorf("Failed to create session: %v", err)
				return
			}
			if _, err := manager.Get(session.ID); err != nil {
				t.Errorf("Failed to get session: %v", err)
			}
			manager.List()
		}()
	}
	wg.Wait()

	if manager.Count() != 10 {
		t.Errorf("Expected 10 sessions, got %d", manager.Count())
	}
}
