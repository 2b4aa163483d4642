// Package api serves the battleship game over HTTP.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"mode": "single|multi", "layout_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Placement:
//   - POST /api/sessions/{id}/place - Place a ship ({"row", "col", "length", "horizontal"})
//   - POST /api/sessions/{id}/undo - Remove the most recent ship
//   - POST /api/sessions/{id}/auto-place - Place the remaining ships at random
//   - POST /api/sessions/{id}/layout - Place a stored layout ({"layout_id"})
//   - POST /api/sessions/{id}/ready - Finish placement
//
// Battle:
//   - POST /api/sessions/{id}/attack - Fire at {"row", "col"}
//   - GET /api/sessions/{id}/state - A seat's view (?seat=0|1, default current seat)
//   - GET /api/sessions/{id}/history - Shot history (?page=1&limit=20&order=desc)
//
// Other:
//   - GET /api/layouts - Stored fleet layouts
//   - GET /api/health - Health check
//   - GET /ws?session={id} - Live state updates with intact ships hidden, see package websocket
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session zzz999: session not found"}
//
// with 404 for unknown sessions and layouts, 400 for malformed input,
// 409 for operations the current phase does not allow and 500 otherwise.
package api
