// Package session keeps the in-memory registry of running battleship matches.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short session ID generation
//   - Idle session cleanup
//
// Session Identifiers:
//
// Generated IDs are the first six characters of a random UUID, short enough
// to type into the console or an MCP prompt. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	m, _ := match.New(match.ModeSingle)
//	sess, err := manager.Create("", m)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Sessions live only as long as the process; nothing is written to disk.
package session
