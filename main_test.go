package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/wricardo/collect-game/game/config"
	"github.com/wricardo/collect-game/game/session"
)

func writeMap(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	return path
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	writeMap(t, dir, "map.txt", "111\n1PC\n1E0\n")

	settings := config.DefaultSettings()
	settings.MapsDir = dir
	return settings
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "collect-game" {
		t.Errorf("Expected app name collect-game, got %s", AppName)
	}
}

func TestNewAppCommands(t *testing.T) {
	app := newApp()

	if app.Action == nil {
		t.Error("Root command should default to playing")
	}

	want := map[string]bool{"play": false, "serve": false, "mcp": false, "validate": false}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Missing command %q", name)
		}
	}
}

func TestValidateMaps(t *testing.T) {
	dir := t.TempDir()
	good := writeMap(t, dir, "good.txt", "11111\n1P0C1\n10E01\n11111\n")
	walled := writeMap(t, dir, "walled.txt", "11111\n1P1C1\n1E111\n11111\n")
	bad := writeMap(t, dir, "bad.txt", "111\n1P\n111\n")

	t.Run("valid map", func(t *testing.T) {
		var out bytes.Buffer
		if err := validateMaps(&out, []string{good}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for _, want := range []string{"good.txt", "✅ VALID", "✓ Grid: 5x4", "✓ Collectibles: 1", "✅ All maps are valid!"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("Output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("warnings keep a map valid", func(t *testing.T) {
		var out bytes.Buffer
		if err := validateMaps(&out, []string{walled}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "collectible is unreachable at (3,1)") {
			t.Errorf("Expected unreachable warning:\n%s", out.String())
		}
	})

	t.Run("invalid map", func(t *testing.T) {
		var out bytes.Buffer
		err := validateMaps(&out, []string{good, bad})
		if !errors.Is(err, errInvalidMaps) {
			t.Fatalf("Expected errInvalidMaps, got %v", err)
		}
		if !strings.Contains(out.String(), "❌ INVALID") {
			t.Errorf("Expected INVALID in output:\n%s", out.String())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		err := validateMaps(io.Discard, []string{filepath.Join(dir, "nope.txt")})
		if !errors.Is(err, errInvalidMaps) {
			t.Errorf("Expected errInvalidMaps, got %v", err)
		}
	})

	t.Run("directory expands to map files", func(t *testing.T) {
		var out bytes.Buffer
		validateMaps(&out, []string{dir})
		for _, name := range []string{"good.txt", "walled.txt", "bad.txt"} {
			if !strings.Contains(out.String(), name) {
				t.Errorf("Expected %s in report", name)
			}
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if err := validateMaps(io.Discard, []string{t.TempDir()}); err == nil {
			t.Error("Expected error when no maps are found")
		}
	})
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	bad := writeMap(t, dir, "bad.txt", "1Z1\n")

	err := newApp().Run(context.Background(), []string{AppName, "validate", bad})
	if err == nil {
		t.Error("Expected validate command to fail on an invalid map")
	}

	err = newApp().Run(context.Background(), []string{AppName, "validate"})
	if err == nil {
		t.Error("Expected validate command to require arguments")
	}
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs, err := initializeServices(ctx, testSettings(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	info, err := svcs.Game.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.MapName != "map" {
		t.Errorf("Expected default map, got %s", info.MapName)
	}
	if svcs.Sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", svcs.Sessions.Count())
	}
}

func TestInitializeServices_InvalidMapsDir(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MapsDir = "/non/existent/path"

	if _, err := initializeServices(context.Background(), settings); err == nil {
		t.Error("Expected error for non-existent maps directory")
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	settings := testSettings(t)
	manager := session.NewManager(settings.Config)
	defer manager.Close()

	if _, err := manager.Create("abcd", "map", filepath.Join(settings.MapsDir, "map.txt")); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Run("zero ttl disables expiry", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			sessionCleanupRoutine(context.Background(), manager, 0, time.Millisecond)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Cleanup routine should return immediately without a ttl")
		}
		if manager.Count() != 1 {
			t.Error("Session should not have been removed")
		}
	})

	t.Run("expired sessions removed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go sessionCleanupRoutine(ctx, manager, time.Nanosecond, 5*time.Millisecond)

		deadline := time.Now().Add(2 * time.Second)
		for manager.Count() > 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if manager.Count() != 0 {
			t.Errorf("Expected expired session to be removed, %d left", manager.Count())
		}
	})
}

func TestNewRouter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs, err := initializeServices(ctx, testSettings(t))
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	defer srv.Close()
	handler = newRouter(svcs, srv.URL)

	if !apiAvailable(srv.URL) {
		t.Error("Expected API to be available")
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("MCP request failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(data), "bulk_move") {
		t.Errorf("Expected bulk_move tool in %s", data)
	}

	resp, err = http.Get(srv.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestApiAvailable_NoServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if apiAvailable(url) {
		t.Error("Expected closed server to be unavailable")
	}
}

func TestStartInternalAPI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := serverOptions{Host: "127.0.0.1", Port: 0, Settings: testSettings(t)}
	baseURL, shutdown, err := startInternalAPI(ctx, opts)
	if err != nil {
		t.Fatalf("Failed to start internal API: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !apiAvailable(baseURL) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !apiAvailable(baseURL) {
		t.Fatalf("Internal API at %s never became available", baseURL)
	}

	shutdown()
	if apiAvailable(baseURL) {
		t.Error("Expected internal API to stop after shutdown")
	}
}

func TestInitializeServices_DefaultMap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings := testSettings(t)
	writeMap(t, settings.MapsDir, "level2.txt", "P0C\n00E\n")
	settings.DefaultMap = "level2"

	svcs, err := initializeServices(ctx, settings)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	info, err := svcs.Game.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if info.MapName != "level2" {
		t.Errorf("Expected configured default map level2, got %s", info.MapName)
	}

	settings.DefaultMap = "missing"
	if _, err := initializeServices(ctx, settings); err == nil {
		t.Error("Expected error for a default map that does not exist")
	}
}

func TestReloadMapsOnSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	writeMap(t, dir, "map.txt", "PC\n0E\n")
	writeMap(t, dir, "level2.txt", "P0C\n00E\n")

	maps, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create map manager: %v", err)
	}
	if err := maps.SetDefault("level2"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if _, err := maps.LoadMap("map"); err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}

	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		reloadMapsOnSignal(ctx, maps, "level2", sig)
		close(done)
	}()

	// Edit on disk; the cached copy is served until the reload
	writeMap(t, dir, "map.txt", "P0C\n000\n00E\n")
	sig <- syscall.SIGHUP

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		lvl, err := maps.LoadMap("map")
		if err == nil && lvl.Grid.Rows() == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	lvl, err := maps.LoadMap("map")
	if err != nil {
		t.Fatalf("LoadMap after reload failed: %v", err)
	}
	if lvl.Grid.Rows() != 3 {
		t.Errorf("Expected reloaded map with 3 rows, got %d", lvl.Grid.Rows())
	}
	if maps.DefaultMap() != "level2" {
		t.Errorf("Expected configured default to survive reload, got %q", maps.DefaultMap())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Reload routine should stop when the context is done")
	}
}
