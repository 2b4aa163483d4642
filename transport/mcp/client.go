package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/battleships/game/match"
	"github.com/wricardo/battleships/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Battleships",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Battleships - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Sink every enemy ship on a 10x10 board before your own fleet is sunk.

FLOW:
1. create_session (mode "single" plays the cpu, "multi" is two seats on one session)
2. place_ship for every remaining length, or auto_place / apply_layout
3. finish_placement
4. attack until the game is over

AVAILABLE TOOLS:
- create_session, list_sessions, game_state
- place_ship, undo_last_ship, auto_place, apply_layout, finish_placement
- attack, shot_history, list_layouts, game_instructions

NOTE: Pass a short 'intent' with each attack saying why you chose the cell. It is recorded in the server log next to the shot.`),
	)

	c.registerTools()
}

func sessionParam() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

func intParam(description string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"mode": map[string]any{
					"type":        "string",
					"enum":        []string{"single", "multi"},
					"description": "single plays against the cpu (default), multi seats two players",
				},
				"layout_id": map[string]any{
					"type":        "string",
					"description": "Stored layout to place the first fleet with (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show both boards as seen by a seat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionParam(),
				"seat":       intParam("Seat to view (0 or 1), defaults to the seat whose turn it is"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	// Placement
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_ship",
		Description: "Place one ship for the seat currently placing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionParam(),
				"row":        intParam("Row of the ship's first cell (0-9)"),
				"col":        intParam("Column of the ship's first cell (0-9)"),
				"length":     intParam("Ship length (2-5), must still be in the remaining fleet"),
				"orientation": map[string]any{
					"type":        "string",
					"enum":        []string{"horizontal", "vertical"},
					"description": "horizontal extends to the right, vertical extends down",
				},
			},
			Required: []string{"session_id", "row", "col", "length", "orientation"},
		},
	}, c.handlePlaceShip)

	for _, tool := range []struct {
		name, description string
		handler           server.ToolHandlerFunc
	}{
		{"undo_last_ship", "Remove the most recently placed ship", c.handleUndoLastShip},
		{"auto_place", "Place the remaining ships at random", c.handleAutoPlace},
		{"finish_placement", "Finish placing ships and start the battle (or hand over to player 2)", c.handleFinishPlacement},
	} {
		c.mcpServer.AddTool(mcp.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{"session_id": sessionParam()},
				Required:   []string{"session_id"},
			},
		}, tool.handler)
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "apply_layout",
		Description: "Place the whole fleet from a stored layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionParam(),
				"layout_id": map[string]any{
					"type":        "string",
					"description": "Layout ID from list_layouts",
				},
			},
			Required: []string{"session_id", "layout_id"},
		},
	}, c.handleApplyLayout)

	// Battle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "attack",
		Description: "Fire at a cell of the opponent's board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionParam(),
				"row":        intParam("Row to fire at (0-9)"),
				"col":        intParam("Column to fire at (0-9)"),
				"intent": map[string]any{
					"type":        "string",
					"description": "Why this cell was chosen, recorded in the server log",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleAttack)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "View past shots of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionParam(),
				"page":       intParam("Page number (default 1)"),
				"limit":      intParam("Shots per page (default 20)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleShotHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_layouts",
		Description: "List stored fleet layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListLayouts)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules and board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, action string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	if action != "" {
		path += "/" + action
	}
	return path
}

// arguments returns the tool call arguments, tolerating a missing object
func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func requireSession(args map[string]any) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mode, _ := args["mode"].(string)
	layoutID, _ := args["layout_id"].(string)

	body := map[string]string{}
	if mode != "" {
		body["mode"] = mode
	}
	if layoutID != "" {
		body["layout_id"] = layoutID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMode: %s\n", session.ID, session.Mode)
	if session.Layout != "" {
		result += fmt.Sprintf("Layout: %s\n", session.Layout)
	}
	if session.State != nil {
		result += "\n" + formatView(session.State)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := "unknown"
		if s.State != nil {
			phase = string(s.State.Phase)
		}
		fmt.Fprintf(&b, "- %s (Mode: %s, Phase: %s, Created: %s)\n",
			s.ID, s.Mode, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	path := sessionPath(sessionID, "state")
	if seat, ok := intArg(args, "seat"); ok {
		path += fmt.Sprintf("?seat=%d", seat)
	}

	var view match.View
	if err := c.apiCall(ctx, "GET", path, nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handlePlaceShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	length, okLen := intArg(args, "length")
	if !okRow || !okCol || !okLen {
		return mcp.NewToolResultError("row, col and length are required"), nil
	}

	orientation, _ := args["orientation"].(string)
	var horizontal bool
	switch strings.ToLower(orientation) {
	case "horizontal", "h":
		horizontal = true
	case "vertical", "v":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("orientation must be horizontal or vertical, got %q", orientation)), nil
	}

	req := service.PlaceRequest{Row: row, Col: col, Length: length, Horizontal: horizontal}
	var result service.PlacementResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "place"), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.Message + "\n\n" + formatView(result.State)), nil
}

func (c *Client) handleUndoLastShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(ctx, request, "undo", nil)
}

func (c *Client) handleAutoPlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(ctx, request, "auto-place", nil)
}

func (c *Client) handleFinishPlacement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateAction(ctx, request, "ready", nil)
}

func (c *Client) handleApplyLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	layoutID, _ := arguments(request)["layout_id"].(string)
	if layoutID == "" {
		return mcp.NewToolResultError("layout_id is required"), nil
	}
	return c.stateAction(ctx, request, "layout", map[string]string{"layout_id": layoutID})
}

// stateAction posts to a session action that answers with a message and a view
func (c *Client) stateAction(ctx context.Context, request mcp.CallToolRequest, action string, body any) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string      `json:"message"`
		State   *match.View `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, action), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatView(response.State)), nil
}

func (c *Client) handleAttack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required"), nil
	}

	intent, _ := args["intent"].(string)

	var result service.AttackResult
	body := map[string]int{"row": row, "col": col}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "attack"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Printf("[MCP] attack session=%s at=(%d,%d) intent=%q", sessionID, row, col, intent)

	return mcp.NewToolResultText(formatAttackResult(&result)), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListLayouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var layouts []service.LayoutInfo
	if err := c.apiCall(ctx, "GET", "/api/layouts", nil, &layouts); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(layouts) == 0 {
		return mcp.NewToolResultText("No stored layouts."), nil
	}

	var b strings.Builder
	b.WriteString("Available Layouts:\n\n")
	for _, l := range layouts {
		fmt.Fprintf(&b, "• %s (%s)\n", l.LayoutID, l.Name)
		if l.Description != "" {
			fmt.Fprintf(&b, "  %s\n", l.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Battleships - Complete Instructions

GAME OBJECTIVE:
Sink all five enemy ships before the opponent sinks yours.

THE BOARD:
10x10 grid, rows and columns numbered 0-9. (row, col) = (0,0) is the top left.

THE FLEET:
carrier 5, battleship 4, cruiser 3, cruiser 3, destroyer 2.

PLACEMENT RULES:
• A ship occupies consecutive cells from its first cell, to the right (horizontal) or down (vertical)
• Ships must fit on the board
• Ships may not touch, not even diagonally: every ship keeps a one cell gap
• undo_last_ship removes the most recent ship, auto_place fills in the rest

BATTLE RULES:
• A hit lets you fire again, a miss passes the turn
• Firing at a cell already attacked is ignored and you keep the turn
• When a ship sinks, the water around it is revealed as missed
• Against the cpu, its replies are returned with your shot

BOARD LEGEND:
. unknown or open water
S your ship
X hit
o miss
# sunk ship

STRATEGY TIPS:
• Cells next to a sunk ship are never ships, skip them
• After a hit, try the four neighbours, then follow the line
• Spread early shots in a checkerboard pattern: the smallest ship covers two cells

Good luck, admiral!`

// Formatting helpers

func formatView(view *match.View) string {
	if view == nil {
		return "State: unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s | Phase: %s | Seat: %d | Turn: %d\n", view.Mode, view.Phase, view.Seat, view.Current)
	fmt.Fprintf(&b, "Status: %s\n", view.Banner())
	if view.Phase == match.PhasePlacement && len(view.Remaining) > 0 {
		fmt.Fprintf(&b, "Remaining lengths: %v\n", view.Remaining)
	}

	fmt.Fprintf(&b, "\nYour board (ships left: %d)\n%s", view.Own.ShipsRemaining, view.Own.String())
	fmt.Fprintf(&b, "\nOpponent board (ships left: %d, shots fired: %d)\n%s", view.Opponent.ShipsRemaining, view.Shots, view.Opponent.String())
	return b.String()
}

func formatAttackResult(result *service.AttackResult) string {
	var b strings.Builder
	b.WriteString(result.Message)
	b.WriteString("\n")
	for _, reply := range result.ReplyMessages {
		b.WriteString("  " + reply + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatView(result.State))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shot History (Page %d/%d), Total: %d\n\n", history.Page, history.TotalPages, history.TotalShots)

	for i, shot := range history.Shots {
		num := (history.Page-1)*history.PageSize + i + 1
		status := shot.Result.String()
		if shot.Sunk {
			status = "sunk"
		}
		fmt.Fprintf(&b, "%d. seat %d -> %s %s [%s]\n",
			num, shot.Seat, shot.Target, status, shot.At.Format("15:04:05"))
	}

	return b.String()
}
