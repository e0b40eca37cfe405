package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/triplanetary/game/engine"
	"github.com/wricardo/triplanetary/game/service"
)

// Version is reported to MCP clients during initialization
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBasicAuth makes every REST call with these credentials
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Triplanetary",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Triplanetary - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Ships move on a hex grid with vector movement: each turn a ship repeats its last
move, adjusted by gravity and at most one hex of acceleration. Crashing into a
planet or leaving the map ends a ship's voyage.

AVAILABLE TOOLS:
- create_session: Create a game session from a scenario
- list_sessions: List active sessions
- get_session: Session details with every ship's state
- add_ship: Add a ship to a session
- get_ship: One ship's position, vector and gravity
- add_turn: Resolve one ship's next turn
- movement_phase: Resolve several ships' turns simultaneously
- turn_history: Past turns, optionally for one ship
- list_scenarios: Available scenarios
- game_rules: Coordinates, movement and landing rules

Call game_rules first if you have not played before.`),
	)

	c.registerTools()
}

var vectorSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"dx": map[string]interface{}{"type": "integer"},
		"dy": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"dx", "dy"},
}

// actionProperties are the fields of one ship action
func actionProperties() map[string]interface{} {
	return map[string]interface{}{
		"dx": map[string]interface{}{
			"type":        "integer",
			"description": "Acceleration along the x axis (-1, 0 or 1 for a single burn)",
		},
		"dy": map[string]interface{}{
			"type":        "integer",
			"description": "Acceleration along the y axis",
		},
		"weak_gravity": map[string]interface{}{
			"type":        "array",
			"items":       vectorSchema,
			"description": "Weak gravity vectors from last turn you choose to apply",
		},
		"landing": map[string]interface{}{
			"type":        "boolean",
			"description": "Land on a base from orbit (requires exactly one hex of burn)",
		},
		"taking_off": map[string]interface{}{
			"type":        "boolean",
			"description": "Take off from the base the ship is landed on",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional scenario selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to use (optional, see list_scenarios)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a session and the state of its ships",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Roster
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_ship",
		Description: "Add a ship to a session at a starting hex",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique ship name",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Starting hex x",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Starting hex y",
				},
				"landed": map[string]interface{}{
					"type":        "boolean",
					"description": "Start landed (the hex should hold a base)",
				},
			},
			Required: []string{"session_id", "name", "x", "y"},
		},
	}, c.handleAddShip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_ship",
		Description: "Get a ship's position, vector, pending gravity and last turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"ship": map[string]interface{}{
					"type":        "string",
					"description": "Ship name",
				},
			},
			Required: []string{"session_id", "ship"},
		},
	}, c.handleGetShip)

	// Turns
	turnProps := actionProperties()
	turnProps["session_id"] = map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
	turnProps["ship"] = map[string]interface{}{
		"type":        "string",
		"description": "Ship name",
	}
	turnProps["intent"] = map[string]interface{}{
		"type":        "string",
		"description": "Brief explanation of what this turn is meant to achieve",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_turn",
		Description: "Resolve the next turn of one ship",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: turnProps,
			Required:   []string{"session_id", "ship"},
		},
	}, c.handleAddTurn)

	orderProps := actionProperties()
	orderProps["ship"] = map[string]interface{}{
		"type":        "string",
		"description": "Ship name",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "movement_phase",
		Description: "Resolve one order per ship simultaneously; every ship moves from the same starting snapshot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"orders": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":       "object",
						"properties": orderProps,
						"required":   []string{"ship"},
					},
					"description": "One order per ship",
				},
			},
			Required: []string{"session_id", "orders"},
		},
	}, c.handleMovementPhase)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "View past turns with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"ship": map[string]interface{}{
					"type":        "string",
					"description": "Only this ship's turns (optional)",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Turns per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc, newest first)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	// Scenarios and rules
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the movement, gravity and landing rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

type authHeaderKey struct{}

// Handler serves single JSON-RPC messages over HTTP POST.
// The caller's Authorization header is forwarded to the REST API.
func (c *Client) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		ctx := r.Context()
		if auth := r.Header.Get("Authorization"); auth != "" {
			ctx = context.WithValue(ctx, authHeaderKey{}, auth)
		}

		response := c.mcpServer.HandleMessage(ctx, body)
		if response == nil {
			// notifications have no reply
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth, ok := ctx.Value(authHeaderKey{}).(string); ok {
		req.Header.Set("Authorization", auth)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers

func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func vectorsArg(args map[string]interface{}, key string) []engine.Vector {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	vectors := make([]engine.Vector, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			vectors = append(vectors, engine.Vector{DX: intArg(m, "dx"), DY: intArg(m, "dy")})
		}
	}
	return vectors
}

func actionArg(args map[string]interface{}) engine.Action {
	landing, _ := args["landing"].(bool)
	takingOff, _ := args["taking_off"].(bool)
	return engine.Action{
		Acceleration: engine.Vector{DX: intArg(args, "dx"), DY: intArg(args, "dy")},
		WeakGravity:  vectorsArg(args, "weak_gravity"),
		Landing:      landing,
		TakingOff:    takingOff,
	}
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenarioID := request.GetString("scenario_id", "")

	body := map[string]string{}
	if scenarioID != "" {
		body["scenario_id"] = scenarioID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Created " + formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Scenario: %s, Ships: %d, Turns: %d, Created: %s)\n",
			s.ID, s.ScenarioName, len(s.Ships), s.TurnCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleAddShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")

	ship := engine.Ship{
		Name: request.GetString("name", ""),
		StartingPosition: engine.Position{
			X:      intArg(args, "x"),
			Y:      intArg(args, "y"),
			Landed: request.GetBool("landed", false),
		},
	}

	var info service.ShipInfo
	path := fmt.Sprintf("/api/sessions/%s/ships", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, ship, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Added " + formatShip(&info)), nil
}

func (c *Client) handleGetShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	shipName := request.GetString("ship", "")

	var info service.ShipInfo
	path := fmt.Sprintf("/api/sessions/%s/ships/%s", url.PathEscape(sessionID), url.PathEscape(shipName))
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatShip(&info)), nil
}

func (c *Client) handleAddTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")
	shipName := request.GetString("ship", "")

	// the intent argument is for the caller's own reasoning
	_ = request.GetString("intent", "")

	var result service.TurnResult
	path := fmt.Sprintf("/api/sessions/%s/ships/%s/turns", url.PathEscape(sessionID), url.PathEscape(shipName))
	if err := c.apiCall(ctx, "POST", path, actionArg(args), &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleMovementPhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")

	raw, _ := args["orders"].([]interface{})
	orders := make([]engine.Order, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := m["ship"].(string)
		orders = append(orders, engine.Order{ShipName: name, Action: actionArg(m)})
	}
	if len(orders) == 0 {
		return mcp.NewToolResultError("at least one order is required"), nil
	}

	var result service.PhaseResult
	path := fmt.Sprintf("/api/sessions/%s/phase", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, map[string]interface{}{"orders": orders}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Movement phase resolved (%d ships)\n\n", len(result.Turns))
	for i := range result.Turns {
		b.WriteString(formatTurnResult(&result.Turns[i]))
		b.WriteString("\n")
	}
	if len(result.Crashed) > 0 {
		fmt.Fprintf(&b, "Crashed this phase: %s\n", strings.Join(result.Crashed, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if page := intArg(args, "page"); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := intArg(args, "limit"); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}
	if ship := request.GetString("ship", ""); ship != "" {
		params.Set("ship", ship)
	}

	path := fmt.Sprintf("/api/sessions/%s/turns", url.PathEscape(sessionID))
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Scenarios:\n\n")
	for _, s := range scenarios {
		fmt.Fprintf(&b, "• %s (id: %s)\n  %s\n  Bodies: %d, Ships: %d, Map radius: %d\n\n",
			s.Name, s.ScenarioID, s.Description, s.Bodies, s.Ships, s.BoundaryRadius)
	}

	return mcp.NewToolResultText(b.String()), nil
}

const gameRules = `Triplanetary - Movement Rules

COORDINATES:
The map is a hex grid in axial coordinates (x, y). The six neighbours of a hex are
reached with the unit vectors:
  (1,0)  (1,-1)  (0,-1)  (-1,0)  (-1,1)  (0,1)
The distance between two hexes is (|dx| + |dy| + |dx+dy|) / 2.

VECTOR MOVEMENT:
A ship keeps moving by its last turn's displacement (its vector). Each turn:
  endpoint = position + vector + strong gravity from last turn
             + chosen weak gravity + acceleration
The acceleration (dx, dy) is your fuel burn. The new vector is endpoint - position.

GRAVITY:
Gravity hexes surround planets and point toward them. Passing through a hex
(other than the one you start in) collects its gravity arrow. Gravity collected
this turn is applied NEXT turn:
  - strong gravity is always applied
  - weak gravity is optional: pass the vectors you want in weak_gravity

CRASHES:
Entering a planet or asteroid hex on the path crashes the ship. Reaching a map
boundary hex sends it off the map. Crashed ships stay where they were recorded.

ORBIT:
A ship moving at speed 1 between two gravity hexes of the same body is in orbit.

LANDING AND TAKEOFF:
  - landing: from orbit, burn exactly one hex so the endpoint is a base
  - taking_off: from a base, burn at most one hex; the ship leaves with that vector
  - a landed ship can do nothing else until it takes off

SIMULTANEOUS MOVEMENT:
movement_phase resolves every ordered ship from the same starting snapshot, so
the order of the orders does not matter.

TOOLS:
create_session -> add_ship -> add_turn / movement_phase -> get_ship / turn_history`

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nScenario: %s\nCreated: %s\nTurns: %d\n",
		session.ID, session.ScenarioName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.TurnCount)

	if len(session.Ships) == 0 {
		b.WriteString("\nNo ships yet. Use add_ship.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nShips (%d):\n", len(session.Ships))
	for i := range session.Ships {
		b.WriteString("- ")
		b.WriteString(formatShip(&session.Ships[i]))
	}
	return b.String()
}

func formatShip(ship *service.ShipInfo) string {
	state := ship.State
	status := "in flight"
	switch {
	case ship.Crashed:
		status = "CRASHED"
	case state.Position.Landed:
		status = "landed"
	case ship.InOrbit:
		status = "in orbit"
	}

	line := fmt.Sprintf("%s at %s moving %s (%s, %d turns)",
		ship.Name, state.Position, state.Vector, status, ship.TurnCount)
	if len(state.StrongGravity) > 0 {
		line += fmt.Sprintf(" strong gravity next turn: %s", formatVectors(state.StrongGravity))
	}
	if ship.LastTurn != nil && len(ship.LastTurn.NewWeakGravity) > 0 {
		line += fmt.Sprintf(" weak gravity available: %s", formatVectors(ship.LastTurn.NewWeakGravity))
	}
	return line + "\n"
}

func formatVectors(vectors []engine.Vector) string {
	parts := make([]string, len(vectors))
	for i, v := range vectors {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

func formatTurn(turn *engine.Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s turn %d: %s -> %s, vector %s",
		turn.ShipName, turn.Number, turn.StartPosition, turn.NewPosition, turn.NewVector)

	switch {
	case turn.Crashed:
		fmt.Fprintf(&b, " ✗ CRASHED: %s", turn.CrashReason)
	case turn.NewPosition.Landed:
		b.WriteString(" ✓ landed")
	case turn.InOrbit:
		b.WriteString(" ✓ in orbit")
	default:
		b.WriteString(" ✓")
	}
	return b.String()
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder
	b.WriteString(formatTurn(&result.Turn))
	b.WriteString("\n")

	turn := result.Turn
	if len(turn.Path) > 1 {
		path := make([]string, len(turn.Path))
		for i, p := range turn.Path {
			path[i] = p.String()
		}
		fmt.Fprintf(&b, "  Path: %s\n", strings.Join(path, " "))
	}
	if len(turn.NewStrongGravity) > 0 {
		fmt.Fprintf(&b, "  Strong gravity next turn: %s\n", formatVectors(turn.NewStrongGravity))
	}
	if len(turn.NewWeakGravity) > 0 {
		fmt.Fprintf(&b, "  Weak gravity available next turn: %s\n", formatVectors(turn.NewWeakGravity))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	if len(history.Turns) == 0 {
		b.WriteString("(no turns yet)\n")
		return b.String()
	}

	for i := range history.Turns {
		b.WriteString(formatTurn(&history.Turns[i]))
		b.WriteString("\n")
	}
	return b.String()
}
