package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/battleships/api"
	"github.com/wricardo/battleships/game/layout"
	"github.com/wricardo/battleships/game/service"
	"github.com/wricardo/battleships/game/session"
)

const rowsLayout = `{
  "name": "rows",
  "ships": [
    {"row": 0, "col": 0, "length": 5, "horizontal": true},
    {"row": 2, "col": 0, "length": 4, "horizontal": true},
    {"row": 4, "col": 0, "length": 3, "horizontal": true},
    {"row": 6, "col": 0, "length": 3, "horizontal": true},
    {"row": 8, "col": 0, "length": 2, "horizontal": true}
  ]
}`

// newTestBackend serves the real REST API over an in-memory session store
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rows.json"), []byte(rowsLayout), 0644); err != nil {
		t.Fatal(err)
	}
	layouts, err := layout.NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	gameService := service.NewGameService(session.NewManager(), layouts, service.WithSeed(11))
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// createSession creates a session through the tool and returns its ID
func createSession(t *testing.T, client *Client, args map[string]any) string {
	t.Helper()
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", args))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("create_session failed: %s", text)
	}

	first := strings.SplitN(text, "\n", 2)[0]
	return strings.TrimPrefix(first, "Created session: ")
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "abc123"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]any
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "abc123" {
		t.Errorf("Expected id abc123, got %v", response["id"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable server", func(t *testing.T) {
		client := NewClient("http://invalid-url-that-does-not-exist:9999")
		if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for invalid URL")
		}
	})

	t.Run("error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "fleet incomplete"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "POST", "/api", nil, nil)
		if err == nil || err.Error() != "fleet incomplete" {
			t.Errorf("Expected 'fleet incomplete', got %v", err)
		}
	})

	t.Run("plain status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected 'API error', got %v", err)
		}
	})
}

func TestClient_createSession(t *testing.T) {
	client := NewClient(newTestBackend(t).URL)

	tests := []struct {
		name     string
		args     map[string]any
		wantText []string
		wantErr  bool
	}{
		{"defaults", map[string]any{}, []string{"Mode: single", "place your ships"}, false},
		{"multi with layout", map[string]any{"mode": "multi", "layout_id": "rows"}, []string{"Mode: multi", "Layout: rows", "fleet placed"}, false},
		{"bad mode", map[string]any{"mode": "solo"}, []string{"invalid game mode"}, true},
		{"unknown layout", map[string]any{"layout_id": "nope"}, []string{"layout not found"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := client.handleCreateSession(context.Background(), callTool("create_session", tt.args))
			if err != nil {
				t.Fatal(err)
			}
			text := resultText(t, result)
			if result.IsError != tt.wantErr {
				t.Errorf("Expected IsError %t, got %t: %s", tt.wantErr, result.IsError, text)
			}
			for _, want := range tt.wantText {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in result, got: %s", want, text)
				}
			}
		})
	}
}

func TestClient_placementAndBattle(t *testing.T) {
	client := NewClient(newTestBackend(t).URL)
	ctx := context.Background()
	id := createSession(t, client, map[string]any{})

	// Carrier through the tool, the rest at random
	result, _ := client.handlePlaceShip(ctx, callTool("place_ship", map[string]any{
		"session_id": id, "row": float64(0), "col": float64(0), "length": float64(5), "orientation": "horizontal",
	}))
	if text := resultText(t, result); !strings.Contains(text, "carrier placed at (0,0)") {
		t.Errorf("Expected placement message, got: %s", text)
	}

	result, _ = client.handlePlaceShip(ctx, callTool("place_ship", map[string]any{
		"session_id": id, "row": float64(0), "col": float64(0), "length": float64(5), "orientation": "vertical",
	}))
	if !result.IsError {
		t.Errorf("Expected error placing the carrier twice, got: %s", resultText(t, result))
	}

	result, _ = client.handleUndoLastShip(ctx, callTool("undo_last_ship", map[string]any{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "[5 4 3 3 2]") {
		t.Errorf("Expected full fleet after undo, got: %s", text)
	}

	result, _ = client.handleFinishPlacement(ctx, callTool("finish_placement", map[string]any{"session_id": id}))
	if !result.IsError {
		t.Error("Expected error finishing with ships left")
	}

	result, _ = client.handleAutoPlace(ctx, callTool("auto_place", map[string]any{"session_id": id}))
	if result.IsError {
		t.Fatalf("auto_place failed: %s", resultText(t, result))
	}

	result, _ = client.handleFinishPlacement(ctx, callTool("finish_placement", map[string]any{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "Phase: battle") {
		t.Errorf("Expected battle phase, got: %s", text)
	}

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	result, _ = client.handleAttack(ctx, callTool("attack", map[string]any{
		"session_id": id, "row": float64(4), "col": float64(4), "intent": "check the centre",
	}))
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("attack failed: %s", text)
	}
	if !strings.Contains(logs.String(), `at=(4,4) intent="check the centre"`) {
		t.Errorf("Expected the intent in the log, got: %s", logs.String())
	}
	if !strings.Contains(text, "you ") || !strings.Contains(text, "(4,4)") {
		t.Errorf("Expected a description of the shot, got: %s", text)
	}

	result, _ = client.handleShotHistory(ctx, callTool("shot_history", map[string]any{"session_id": id, "limit": float64(100)}))
	if text := resultText(t, result); !strings.Contains(text, "seat 0 -> (4,4)") {
		t.Errorf("Expected the shot in history, got: %s", text)
	}

	result, _ = client.handleGameState(ctx, callTool("game_state", map[string]any{"session_id": id, "seat": float64(0)}))
	if text := resultText(t, result); !strings.Contains(text, "Opponent board") {
		t.Errorf("Expected both boards, got: %s", text)
	}

	result, _ = client.handleListSessions(ctx, callTool("list_sessions", nil))
	if text := resultText(t, result); !strings.Contains(text, id) {
		t.Errorf("Expected session %s listed, got: %s", id, text)
	}
}

func TestClient_argumentValidation(t *testing.T) {
	client := NewClient(newTestBackend(t).URL)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    string
	}{
		{"missing session", client.handleGameState, map[string]any{}, "session_id is required"},
		{"nil arguments", client.handleAttack, nil, "session_id is required"},
		{"missing coordinates", client.handleAttack, map[string]any{"session_id": "abc123"}, "row and col are required"},
		{"bad orientation", client.handlePlaceShip, map[string]any{
			"session_id": "abc123", "row": float64(0), "col": float64(0), "length": float64(2), "orientation": "diagonal",
		}, "orientation must be"},
		{"missing layout", client.handleApplyLayout, map[string]any{"session_id": "abc123"}, "layout_id is required"},
		{"unknown session", client.handleGameState, map[string]any{"session_id": "zzz999"}, "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args any = tt.args
			if tt.args == nil {
				args = nil
			}
			result, err := tt.handler(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}})
			if err != nil {
				t.Fatal(err)
			}
			if !result.IsError {
				t.Error("Expected an error result")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q, got: %s", tt.want, text)
			}
		})
	}
}

func TestClient_layouts(t *testing.T) {
	client := NewClient(newTestBackend(t).URL)
	ctx := context.Background()

	result, _ := client.handleListLayouts(ctx, callTool("list_layouts", nil))
	if text := resultText(t, result); !strings.Contains(text, "rows") {
		t.Errorf("Expected rows layout, got: %s", text)
	}

	id := createSession(t, client, map[string]any{"mode": "multi"})
	result, _ = client.handleApplyLayout(ctx, callTool("apply_layout", map[string]any{"session_id": id, "layout_id": "rows"}))
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("apply_layout failed: %s", text)
	}
	if !strings.Contains(text, "fleet placed, ready to battle") {
		t.Errorf("Expected placed fleet, got: %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{
		"GAME OBJECTIVE:",
		"THE FLEET:",
		"PLACEMENT RULES:",
		"BATTLE RULES:",
		"BOARD LEGEND:",
		"# sunk ship",
	} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

func TestClient_HandleMessage(t *testing.T) {
	client := NewClient("http://localhost:8080")

	msg := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	response := client.GetMCPServer().HandleMessage(context.Background(), msg)

	data, err := json.Marshal(response)
	if err != nil {
		t.Fatal(err)
	}
	for _, tool := range []string{"create_session", "place_ship", "attack", "shot_history", "apply_layout"} {
		if !strings.Contains(string(data), tool) {
			t.Errorf("Expected tool %s in tools/list, got: %s", tool, data)
		}
	}
}
