// Package mcp exposes the battleship game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API, so agents see the same validation and errors as HTTP clients and
// websocket watchers receive their moves.
//
// MCP Tools:
//   - create_session, list_sessions, game_state
//   - place_ship, undo_last_ship, auto_place, apply_layout, finish_placement
//   - attack, shot_history
//   - list_layouts, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the game server, forwarded to HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://127.0.0.1:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
