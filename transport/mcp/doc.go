// Package mcp exposes the Triplanetary REST API as Model Context Protocol tools.
//
// The Client owns an mcp-go server whose tool handlers call the REST API over
// HTTP, so the same game state is visible to REST, WebSocket and MCP users.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - add_ship, get_ship
//   - add_turn: resolve one ship's turn from {dx, dy, weak_gravity, landing, taking_off}
//   - movement_phase: resolve {orders: [{ship, dx, dy, ...}]} simultaneously
//   - turn_history: paginated turns, optionally for one ship
//   - list_scenarios
//   - game_rules: the movement rules in plain text
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: client.Handler() mounted on POST /mcp
//
// When the REST API requires basic authentication, configure the client with
// WithBasicAuth. Requests arriving through Handler forward their own
// Authorization header instead.
package mcp
