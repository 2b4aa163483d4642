package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/battleships/game/config"
	"github.com/wricardo/battleships/game/match"
	"github.com/wricardo/battleships/game/session"
	"github.com/wricardo/battleships/transport/mcp"
)

func testSettings(t *testing.T, layoutDir string) *config.Settings {
	t.Helper()
	return &config.Settings{
		Host:            "127.0.0.1",
		Port:            8080,
		CPUDelay:        0,
		SessionTTL:      time.Hour,
		CleanupInterval: time.Minute,
		LayoutDir:       layoutDir,
	}
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Battleships" {
		t.Errorf("Expected app name Battleships, got %s", AppName)
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()

	if app.DefaultCommand != "serve" {
		t.Errorf("Expected default command serve, got %s", app.DefaultCommand)
	}

	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"serve", "mcp", "play"} {
		if !names[want] {
			t.Errorf("Expected command %s", want)
		}
	}

	for _, cmd := range app.Commands {
		if cmd.Name != "play" {
			continue
		}
		flags := map[string]bool{}
		for _, f := range cmd.Flags {
			for _, name := range f.Names() {
				flags[name] = true
			}
		}
		for _, want := range []string{"mode", "layout", "cpu-delay", "plain"} {
			if !flags[want] {
				t.Errorf("Expected play flag %s", want)
			}
		}
	}
}

func TestInitializeServices(t *testing.T) {
	ctx := context.Background()

	t.Run("bundled layouts", func(t *testing.T) {
		gameService, sessions, err := initializeServices(testSettings(t, "layouts"))
		if err != nil {
			t.Fatalf("Failed to initialize services: %v", err)
		}
		if gameService == nil || sessions == nil {
			t.Fatal("Expected game service and session manager")
		}

		layouts, err := gameService.ListLayouts(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(layouts) == 0 {
			t.Error("Expected the bundled layouts")
		}

		info, err := gameService.CreateSession(ctx, "single", "classic")
		if err != nil {
			t.Fatalf("CreateSession with classic layout failed: %v", err)
		}
		if got := info.State.Remaining; len(got) != 0 {
			t.Errorf("Expected the classic layout to place every ship, %v left", got)
		}
	})

	t.Run("missing layout directory", func(t *testing.T) {
		gameService, _, err := initializeServices(testSettings(t, "/non/existent/path"))
		if err != nil {
			t.Fatalf("Missing layouts should not be fatal: %v", err)
		}

		layouts, err := gameService.ListLayouts(ctx)
		if err != nil || len(layouts) != 0 {
			t.Errorf("Expected no layouts, got %v (%v)", layouts, err)
		}
		if _, err := gameService.CreateSession(ctx, "single", "classic"); err == nil {
			t.Error("Expected an error asking for a layout without a layout directory")
		}
	})

	t.Run("invalid settings", func(t *testing.T) {
		s := testSettings(t, "layouts")
		s.Port = 70000
		if _, _, err := initializeServices(s); !errors.Is(err, config.ErrInvalidSettings) {
			t.Errorf("Expected ErrInvalidSettings, got %v", err)
		}
	})
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	m, err := match.New(match.ModeSingle)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Create("abc123", m); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, time.Millisecond, time.Nanosecond)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for manager.Count() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if manager.Count() != 0 {
		t.Error("Expected the expired session to be removed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Cleanup routine did not stop after cancel")
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://127.0.0.1:1").GetMCPServer())

	t.Run("method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Code)
		}
	})

	t.Run("tools list", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
		handler(w, httptest.NewRequest("POST", "/mcp", body))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "place_ship") {
			t.Errorf("Expected place_ship in tools list, got %s", w.Body.String())
		}
	})
}
