package service

import (
	"time"

	"github.com/wricardo/triplanetary/game/engine"
)

// Event types reported with a resolved turn
const (
	EventMove    = "move"
	EventCrash   = "crash"
	EventOffMap  = "off_map"
	EventOrbit   = "orbit"
	EventLanded  = "landed"
	EventTakeoff = "takeoff"
	EventGravity = "gravity"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	ScenarioName   string           `json:"scenario_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Ships          []ShipInfo       `json:"ships"`
	TurnCount      int              `json:"turn_count"`
	Scenario       *engine.Scenario `json:"scenario"`
}

// ShipInfo is a ship together with the state its next turn starts from
type ShipInfo struct {
	Name             string           `json:"name"`
	StartingPosition engine.Position  `json:"starting_position"`
	State            engine.ShipState `json:"state"`
	LastTurn         *engine.Turn     `json:"last_turn,omitempty"`
	TurnCount        int              `json:"turn_count"`
	Crashed          bool             `json:"crashed"`
	InOrbit          bool             `json:"in_orbit"`
}

// GameEvent represents something notable that happened during a turn
type GameEvent struct {
	Type      string          `json:"type"` // "move", "crash", "off_map", "orbit", "landed", "takeoff", "gravity"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// TurnResult contains one resolved turn
type TurnResult struct {
	SessionID string      `json:"session_id"`
	Turn      engine.Turn `json:"turn"`
	Message   string      `json:"message"`
	Events    []GameEvent `json:"events"`
}

// PhaseResult contains the turns of a simultaneous movement phase
type PhaseResult struct {
	SessionID string       `json:"session_id"`
	Turns     []TurnResult `json:"turns"`
	Crashed   []string     `json:"crashed"` // Ships that crashed this phase
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
	Ship  string `json:"ship,omitempty"`
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.Turn `json:"turns"`
	TotalTurns  int           `json:"total_turns"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
	Ship        string        `json:"ship,omitempty"`
}

// ScenarioInfo provides information about a scenario file
type ScenarioInfo struct {
	Filename       string `json:"filename"`
	ScenarioID     string `json:"scenario_id"` // The identifier to use for session creation
	Name           string `json:"name"`        // Display name
	Description    string `json:"description"`
	Bodies         int    `json:"bodies"`
	Ships          int    `json:"ships"`
	BoundaryRadius int    `json:"boundary_radius"`
}

// NewScenarioInfo summarises a scenario loaded from filename
func NewScenarioInfo(filename, id string, s *engine.Scenario) *ScenarioInfo {
	return &ScenarioInfo{
		Filename:       filename,
		ScenarioID:     id,
		Name:           s.Name,
		Description:    s.Description,
		Bodies:         len(s.Bodies),
		Ships:          len(s.Ships),
		BoundaryRadius: s.BoundaryRadius,
	}
}
