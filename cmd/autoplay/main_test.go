package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/battleships/api"
	"github.com/wricardo/battleships/game/service"
	"github.com/wricardo/battleships/game/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gameService := service.NewGameService(session.NewManager(), nil, service.WithSeed(3))
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func TestPlay(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	client := NewClient(server.URL + "/")
	result, err := Play(ctx, client, NewStrategy(0), "", 100, 0)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if result.Shots < 1 || result.Shots > 100 {
		t.Errorf("Expected between 1 and 100 shots, got %d", result.Shots)
	}
	switch result.Outcome {
	case "You win!":
		if !result.Won {
			t.Error("Expected Won for a winning outcome")
		}
	case "The cpu wins.":
		if result.Won {
			t.Error("Expected not Won for a losing outcome")
		}
	default:
		t.Errorf("Unexpected outcome %q", result.Outcome)
	}

	if err := client.Delete(ctx); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if err := client.Delete(ctx); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected 404 on second delete, got %v", err)
	}
}

func TestPlay_GivesUp(t *testing.T) {
	server := newTestServer(t)

	_, err := Play(context.Background(), NewClient(server.URL), NewStrategy(0), "", 1, 0)
	if err == nil || !strings.Contains(err.Error(), "gave up after 1 shots") {
		t.Errorf("Expected give up error, got %v", err)
	}
}

func TestPlay_LayoutUnavailable(t *testing.T) {
	server := newTestServer(t)

	_, err := Play(context.Background(), NewClient(server.URL), NewStrategy(0), "classic", 100, 0)
	if err == nil || !strings.Contains(err.Error(), "create session") {
		t.Errorf("Expected create session error, got %v", err)
	}
}

func TestClient_ServerDown(t *testing.T) {
	server := newTestServer(t)
	url := server.URL
	server.Close()

	if _, err := NewClient(url).CreateSession(context.Background(), ""); err == nil {
		t.Error("Expected error when the server is down")
	}
}

func TestClient_TruncatedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateSession(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "read response") {
		t.Errorf("Expected read response error, got %v", err)
	}
}
