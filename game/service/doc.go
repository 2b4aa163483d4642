// Package service provides the business logic layer for the battleships game.
//
// The service package implements:
//   - Multi-session match management
//   - Ship placement, undo, random placement and stored layouts
//   - Attack processing with readable outcome messages
//   - Paginated shot history
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager stores running matches. LayoutManager serves stored fleet
// layouts and may be absent.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP and
// the console) and the match package. Calls are serialized by one mutex, so
// a match never sees two mutations at once.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	layoutMgr, _ := layout.NewManager("layouts")
//	gameService := service.NewGameService(sessionMgr, layoutMgr)
//
//	info, err := gameService.CreateSession(ctx, "single", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, _ = gameService.AutoPlace(ctx, info.ID)
//	_, _ = gameService.FinishPlacement(ctx, info.ID)
//	result, err := gameService.Attack(ctx, info.ID, 4, 4)
package service
