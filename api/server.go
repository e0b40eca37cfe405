package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/wricardo/triplanetary/game/engine"
	"github.com/wricardo/triplanetary/game/service"
	"github.com/wricardo/triplanetary/game/users"
	"github.com/wricardo/triplanetary/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	users   users.Store
	mcp     http.Handler
	log     zerolog.Logger
	router  *mux.Router
}

// Option configures optional Server collaborators
type Option func(*Server)

// WithUsers enables basic authentication against the store and the /api/users endpoints
func WithUsers(store users.Store) Option {
	return func(s *Server) { s.users = store }
}

// WithLogger sets the request logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMCP mounts a streamable MCP handler on /mcp
func WithMCP(handler http.Handler) Option {
	return func(s *Server) { s.mcp = handler }
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		log:     zerolog.Nop(),
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.requestLogger)

	// Health stays reachable without credentials
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	protected := s.router.NewRoute().Subrouter()
	protected.Use(s.basicAuth)

	protected.HandleFunc("/", s.handleIndex).Methods("GET")

	api := protected.PathPrefix("/api").Subrouter()

	// Users
	api.HandleFunc("/users", s.handleListUsers).Methods("GET")
	api.HandleFunc("/users", s.handlePutUser).Methods("POST")
	api.HandleFunc("/users", s.handleDeleteUser).Methods("DELETE")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Roster and turns
	api.HandleFunc("/sessions/{id}/ships", s.handleAddShip).Methods("POST")
	api.HandleFunc("/sessions/{id}/ships", s.handleListShips).Methods("GET")
	api.HandleFunc("/sessions/{id}/ships/{name}", s.handleGetShip).Methods("GET")
	api.HandleFunc("/sessions/{id}/ships/{name}/turns", s.handleAddTurn).Methods("POST")
	api.HandleFunc("/sessions/{id}/phase", s.handleMovementPhase).Methods("POST")
	api.HandleFunc("/sessions/{id}/turns", s.handleGetHistory).Methods("GET")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleCreateScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")

	if s.mcp != nil {
		protected.Handle("/mcp", s.mcp)
	}

	// WebSocket
	protected.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrScenarioNotFound),
		errors.Is(err, engine.ErrShipNotFound),
		errors.Is(err, users.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateShip),
		errors.Is(err, service.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidShip),
		errors.Is(err, engine.ErrInvalidFeature),
		errors.Is(err, service.ErrInvalidScenario),
		errors.Is(err, users.ErrInvalidUsername),
		errors.Is(err, users.ErrInvalidPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	respondError(w, status, err.Error())
}

func (s *Server) broadcast(sessionID, event string, data interface{}) {
	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, event, data)
	}
}

// Index and health

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello, %s!", userFromContext(r.Context())),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// User Handlers

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) requireUsers(w http.ResponseWriter) bool {
	if s.users == nil {
		respondError(w, http.StatusNotFound, "user store is not configured")
		return false
	}
	return true
}

func decodeUserRequest(r *http.Request) (*userRequest, bool) {
	if r.Body == nil {
		return nil, false
	}
	var req *userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req == nil {
		return nil, false
	}
	return req, true
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireUsers(w) {
		return
	}

	names, err := s.users.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"users": names})
}

func (s *Server) handlePutUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireUsers(w) {
		return
	}

	req, ok := decodeUserRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Request body is required")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := s.users.Put(r.Context(), req.Username, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User %s created/updated successfully", req.Username),
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireUsers(w) {
		return
	}

	req, ok := decodeUserRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Request body is required")
		return
	}
	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := s.users.Delete(r.Context(), req.Username); err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User %s deleted successfully", req.Username),
	})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.ScenarioID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("session", session.ID).
		Str("scenario", session.ScenarioName).
		Msg("session created")

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.fail(w, r, err)
		return
	}

	s.broadcast(sessionID, websocket.EventSessionClosed, nil)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Roster Handlers

func (s *Server) handleAddShip(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var ship engine.Ship
	if err := json.NewDecoder(r.Body).Decode(&ship); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.AddShip(r.Context(), sessionID, ship)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.broadcast(sessionID, websocket.EventShipAdded, info)

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListShips(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(session.Ships),
		"ships": session.Ships,
	})
}

func (s *Server) handleGetShip(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	info, err := s.service.GetShip(r.Context(), vars["id"], vars["name"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// Turn Handlers

func (s *Server) handleAddTurn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	var action engine.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.AddTurn(r.Context(), sessionID, vars["name"], action)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.broadcast(sessionID, websocket.EventTurn, result)
	logTurn(zerolog.Ctx(r.Context()), sessionID, result.Turn)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMovementPhase(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Orders []engine.Order `json:"orders"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.MovementPhase(r.Context(), sessionID, req.Orders)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.broadcast(sessionID, websocket.EventPhase, result)
	log := zerolog.Ctx(r.Context())
	for _, tr := range result.Turns {
		logTurn(log, sessionID, tr.Turn)
	}

	respondJSON(w, http.StatusOK, result)
}

// logTurn writes one compact line per resolved turn
func logTurn(log *zerolog.Logger, sessionID string, turn engine.Turn) {
	status := "OK"
	switch {
	case turn.Crashed:
		status = "CRASH"
	case turn.OffMap:
		status = "OFF_MAP"
	case turn.InOrbit:
		status = "ORBIT"
	case turn.NewPosition.Landed:
		status = "LANDED"
	}

	log.Info().
		Str("session", sessionID).
		Str("ship", turn.ShipName).
		Int("turn", turn.Number).
		Str("from", turn.StartPosition.String()).
		Str("to", turn.NewPosition.String()).
		Str("vector", turn.NewVector.String()).
		Str("status", status).
		Str("reason", turn.CrashReason).
		Msg("turn")
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	opts.Ship = query.Get("ship")

	history, err := s.service.GetTurnHistory(r.Context(), sessionID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	scenario, err := s.service.LoadScenario(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var scenario engine.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if scenario.Name == "" {
		respondError(w, http.StatusBadRequest, "Scenario name is required")
		return
	}

	if err := s.service.SaveScenario(r.Context(), scenario.Name, &scenario); err != nil {
		s.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Scenario saved successfully",
		"scenario_id": scenario.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session parameter required")
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		s.fail(w, r, err)
		return
	}

	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "live updates are disabled")
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}
