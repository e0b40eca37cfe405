package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/triplanetary/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getScenarioID returns the scenario_id for a display name, used for consistent API responses
func (s *gameServiceImpl) getScenarioID(scenarioName string) string {
	available, err := s.configs.ListScenarios()
	if err == nil {
		for _, info := range available {
			if info.Name == scenarioName {
				return info.ScenarioID
			}
		}
	}
	if scenarioName == "" {
		return "default"
	}
	return scenarioName
}

// CreateSession creates a new game session from a scenario, or the default one
func (s *gameServiceImpl) CreateSession(ctx context.Context, scenarioName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scenario *engine.Scenario
	var err error
	if scenarioName != "" {
		scenario, err = s.configs.LoadScenario(scenarioName)
		if err != nil {
			if errors.Is(err, ErrScenarioNotFound) {
				available, listErr := s.configs.ListScenarios()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.ScenarioID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available scenarios: %v", ErrScenarioNotFound, scenarioName, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/scenarios to list available scenarios", ErrScenarioNotFound, scenarioName)
			}
			return nil, fmt.Errorf("failed to load scenario %s: %w", scenarioName, err)
		}
	} else {
		scenario = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(sess)
	if scenarioName != "" {
		info.ScenarioName = scenarioName
	}
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// AddShip registers a new ship in the session's game
func (s *gameServiceImpl) AddShip(ctx context.Context, sessionID string, ship engine.Ship) (*ShipInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Game.AddShip(ship); err != nil {
		return nil, fmt.Errorf("failed to add ship: %w", err)
	}

	return shipInfo(sess.Game, ship), nil
}

// GetShip returns a ship with its current state and last turn
func (s *gameServiceImpl) GetShip(ctx context.Context, sessionID, shipName string) (*ShipInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	ship, ok := sess.Game.GetShip(shipName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", engine.ErrShipNotFound, shipName)
	}

	return shipInfo(sess.Game, ship), nil
}

// AddTurn resolves and records the next turn of one ship
func (s *gameServiceImpl) AddTurn(ctx context.Context, sessionID, shipName string, action engine.Action) (*TurnResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	turn, err := sess.Game.AddTurn(shipName, action)
	if err != nil {
		return nil, fmt.Errorf("failed to add turn: %w", err)
	}

	return turnResult(sessionID, turn), nil
}

// MovementPhase resolves one order per ship against the same start snapshot
func (s *gameServiceImpl) MovementPhase(ctx context.Context, sessionID string, orders []engine.Order) (*PhaseResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	turns, err := sess.Game.AddTurns(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve movement phase: %w", err)
	}

	result := &PhaseResult{
		SessionID: sessionID,
		Turns:     make([]TurnResult, 0, len(turns)),
		Crashed:   []string{},
	}
	for _, turn := range turns {
		result.Turns = append(result.Turns, *turnResult(sessionID, turn))
		if turn.Crashed {
			result.Crashed = append(result.Crashed, turn.ShipName)
		}
	}

	return result, nil
}

// GetTurnHistory returns paginated turn history, optionally for one ship
func (s *gameServiceImpl) GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var history []engine.Turn
	if opts.Ship != "" {
		if _, ok := sess.Game.GetShip(opts.Ship); !ok {
			return nil, fmt.Errorf("%w: %s", engine.ErrShipNotFound, opts.Ship)
		}
		history = sess.Game.TurnsFor(opts.Ship)
	} else {
		history = sess.Game.Turns()
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	turns := []engine.Turn{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = append(turns, history[start:end]...)
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
		Ship:        opts.Ship,
	}, nil
}

// ListScenarios returns all available scenarios
func (s *gameServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.configs.ListScenarios()
}

// LoadScenario loads a specific scenario
func (s *gameServiceImpl) LoadScenario(ctx context.Context, scenarioName string) (*engine.Scenario, error) {
	return s.configs.LoadScenario(scenarioName)
}

// SaveScenario saves a scenario to disk
func (s *gameServiceImpl) SaveScenario(ctx context.Context, scenarioName string, scenario *engine.Scenario) error {
	return s.configs.SaveScenario(scenarioName, scenario)
}

// session marks the session used and returns a snapshot taken after the touch
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	ships := sess.Game.Ships()
	infos := make([]ShipInfo, 0, len(ships))
	for _, ship := range ships {
		infos = append(infos, *shipInfo(sess.Game, ship))
	}

	name := ""
	if sess.Scenario != nil {
		name = sess.Scenario.Name
	}

	return &SessionInfo{
		ID:             sess.ID,
		ScenarioName:   s.getScenarioID(name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Ships:          infos,
		TurnCount:      len(sess.Game.Turns()),
		Scenario:       sess.Scenario,
	}
}

func shipInfo(game *engine.Game, ship engine.Ship) *ShipInfo {
	info := &ShipInfo{
		Name:             ship.Name,
		StartingPosition: ship.StartingPosition,
		TurnCount:        len(game.TurnsFor(ship.Name)),
	}
	if state, ok := game.CurrentState(ship.Name); ok {
		info.State = state
	}
	if last, ok := game.LastTurn(ship.Name); ok {
		info.LastTurn = &last
		info.Crashed = last.Crashed
		info.InOrbit = last.InOrbit
	}
	return info
}

func turnResult(sessionID string, turn engine.Turn) *TurnResult {
	events := turnEvents(turn)
	message := fmt.Sprintf("%s moved to %s", turn.ShipName, turn.NewPosition)
	if turn.Crashed {
		message = fmt.Sprintf("%s crashed: %s", turn.ShipName, turn.CrashReason)
	}

	return &TurnResult{
		SessionID: sessionID,
		Turn:      turn,
		Message:   message,
		Events:    events,
	}
}

// turnEvents generates events from a resolved turn
func turnEvents(turn engine.Turn) []GameEvent {
	now := time.Now()
	pos := turn.NewPosition

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved from %s to %s with vector %s", turn.StartPosition, pos, turn.NewVector),
		Timestamp: now,
		Position:  pos,
	}}

	if turn.Crashed {
		eventType := EventCrash
		if turn.OffMap {
			eventType = EventOffMap
		}
		return append(events, GameEvent{
			Type:      eventType,
			Message:   turn.CrashReason,
			Timestamp: now,
			Position:  pos,
		})
	}

	if turn.Action.TakingOff {
		events = append(events, GameEvent{
			Type:      EventTakeoff,
			Message:   fmt.Sprintf("Took off from %s", turn.StartPosition.Hex()),
			Timestamp: now,
			Position:  pos,
		})
	}
	if pos.Landed {
		events = append(events, GameEvent{
			Type:      EventLanded,
			Message:   fmt.Sprintf("Landed at %s", pos.Hex()),
			Timestamp: now,
			Position:  pos,
		})
	}
	if turn.InOrbit {
		events = append(events, GameEvent{
			Type:      EventOrbit,
			Message:   "In orbit",
			Timestamp: now,
			Position:  pos,
		})
	}
	if n := len(turn.NewStrongGravity) + len(turn.NewWeakGravity); n > 0 {
		events = append(events, GameEvent{
			Type: EventGravity,
			Message: fmt.Sprintf("Entered %d gravity hexes (%d strong, %d weak); they apply next turn",
				n, len(turn.NewStrongGravity), len(turn.NewWeakGravity)),
			Timestamp: now,
			Position:  pos,
		})
	}

	return events
}
