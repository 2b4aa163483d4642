// Package websocket pushes match updates to browsers and other watchers.
//
// Architecture:
//
// A central Hub owns every connection. Register, unregister and broadcast
// requests are serialized through channels into the Hub's Run loop, and each
// client connection gets a read pump and a write pump goroutine.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and only listen. After every state
// changing call the API sends
//
//	{"session_id": "3f2a9c", "event": "state_update", "state": {...match view...}}
//
// and "session_closed" when the session is deleted.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastToSession(sessionID, view)
package websocket
