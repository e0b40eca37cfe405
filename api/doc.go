// Package api provides the HTTP REST API of the Triplanetary movement server.
//
// Endpoints:
//
// General:
//   - GET /health - Liveness check, never authenticated
//   - GET / - Greets the authenticated user
//
// Users (only when a user store is configured):
//   - GET /api/users - List usernames
//   - POST /api/users - Add or update {username, password}
//   - DELETE /api/users - Delete {username}
//
// Sessions:
//   - POST /api/sessions - Create a session from {scenario_id} or the default scenario
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Ships and turns:
//   - POST /api/sessions/{id}/ships - Add a ship {name, starting_position}
//   - GET /api/sessions/{id}/ships - List ships with their current state
//   - GET /api/sessions/{id}/ships/{name} - Get one ship
//   - POST /api/sessions/{id}/ships/{name}/turns - Resolve the ship's next turn from an Action
//   - POST /api/sessions/{id}/phase - Resolve {orders: [...]} simultaneously
//   - GET /api/sessions/{id}/turns - Turn history (?page&limit&order&ship)
//
// Scenarios:
//   - GET /api/scenarios - List scenario files
//   - POST /api/scenarios - Validate and save a scenario
//   - GET /api/scenarios/{name} - Get one scenario
//
// Live updates:
//   - GET /ws?session={id} - WebSocket stream of resolved turns
//
// Errors are returned as JSON {"error": "..."} with 404 for unknown sessions,
// ships and scenarios, 409 for duplicate ships, 400 for malformed or invalid
// input and 500 otherwise. A crash is not an error: it is a resolved turn with
// crashed set.
//
// Every response carries an X-Request-ID header and produces one zerolog
// access line. When WithUsers is given, everything except /health requires
// HTTP basic authentication.
package api
