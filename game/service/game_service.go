package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/triplanetary/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrScenarioNotFound     = errors.New("scenario not found")
	ErrInvalidScenario      = errors.New("invalid scenario")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, scenarioName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Roster
	AddShip(ctx context.Context, sessionID string, ship engine.Ship) (*ShipInfo, error)
	GetShip(ctx context.Context, sessionID, shipName string) (*ShipInfo, error)

	// Turns
	AddTurn(ctx context.Context, sessionID, shipName string, action engine.Action) (*TurnResult, error)
	MovementPhase(ctx context.Context, sessionID string, orders []engine.Order) (*PhaseResult, error)
	GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, scenarioName string) (*engine.Scenario, error)
	SaveScenario(ctx context.Context, scenarioName string, scenario *engine.Scenario) error
}

// SessionManager defines session storage operations. Returned sessions are
// copies that share the live game, safe to read while other callers touch them.
type SessionManager interface {
	Create(id string, scenario *engine.Scenario) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, scenario *engine.Scenario) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles scenario loading
type ConfigManager interface {
	LoadScenario(name string) (*engine.Scenario, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.Scenario
	SaveScenario(name string, scenario *engine.Scenario) error
}

// Session represents an active game
type Session struct {
	ID             string
	Game           *engine.Game
	Scenario       *engine.Scenario
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
