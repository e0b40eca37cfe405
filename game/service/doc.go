// Package service provides the business logic layer for the Triplanetary server.
//
// The service package implements:
//   - Multi-session game management
//   - Scenario loading and saving
//   - Ship registration and turn resolution
//   - Simultaneous movement phases
//   - Paginated turn history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages scenario loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns one engine.Game with its own roster and
// turn ledger. Rule violations come back as crashed turns inside a TurnResult;
// errors are reserved for unknown sessions, unknown or duplicate ships and
// invalid scenarios, and wrap the sentinel errors of this package and the
// engine so transports can map them to status codes with errors.Is.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.AddTurn(ctx, info.ID, "Pioneer", engine.Action{
//		Acceleration: engine.Vector{DX: 1, DY: 0},
//		TakingOff:    true,
//	})
package service
