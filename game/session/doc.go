// Package session provides session management for the Triplanetary server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine.Game built from a scenario, so
// ships and turn ledgers never leak between sessions.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are matched
// case-insensitively and generated with cryptographic randomness.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", scenario)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//
//	go manager.RunCleanup(ctx, time.Minute, 24*time.Hour)
//
// Sessions live in memory only and are lost when the process exits.
package session
