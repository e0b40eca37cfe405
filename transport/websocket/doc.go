// Package websocket pushes resolved turns to spectators of a game session.
//
// A central Hub owns every connection. Clients subscribe to one session via
// the /ws?session=<id> endpoint and then only receive frames for that session.
// Incoming frames are ignored; the connection is kept alive with ping/pong.
//
// Every outgoing frame is a JSON Message:
//
//	{"session_id": "a1b2", "event": "turn", "data": {...}}
//
// Events are "turn" (a TurnResult), "phase" (a PhaseResult), "ship_added"
// (a ShipInfo) and "session_closed".
//
// Usage:
//
//	hub := websocket.NewHubWithLogger(log)
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// All hub state is owned by the Run goroutine; broadcasts, registrations and
// counts are requests sent to it over channels. Cancelling ctx stops the hub
// and disconnects every client.
package websocket
