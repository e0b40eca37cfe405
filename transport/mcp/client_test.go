package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/triplanetary/game/engine"
	"github.com/wricardo/triplanetary/game/service"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

// recordingServer answers every request with response and remembers the last request
type recordingServer struct {
	*httptest.Server
	method string
	path   string
	query  string
	auth   string
	body   []byte
}

func newRecordingServer(t *testing.T, status int, response interface{}) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.query = r.URL.RawQuery
		rs.auth = r.Header.Get("Authorization")
		rs.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.mcpServer)
	assert.Empty(t, client.username)

	authed := NewClient("http://localhost:8080", WithBasicAuth("alice", "pw"))
	assert.Equal(t, "alice", authed.username)
	assert.Equal(t, "pw", authed.password)
}

func TestClient_apiCall(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, map[string]interface{}{"id": "a1b2"})
	client := NewClient(rs.URL)

	var result map[string]interface{}
	require.NoError(t, client.apiCall(context.Background(), "GET", "/api/sessions/a1b2", nil, &result))
	assert.Equal(t, "a1b2", result["id"])
	assert.Equal(t, "/api/sessions/a1b2", rs.path)
	assert.Empty(t, rs.auth)
}

func TestClient_apiCall_BasicAuth(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, map[string]string{})
	client := NewClient(rs.URL, WithBasicAuth("alice", "pw"))

	require.NoError(t, client.apiCall(context.Background(), "GET", "/", nil, nil))
	assert.True(t, strings.HasPrefix(rs.auth, "Basic "))

	// a forwarded header wins over configured credentials
	ctx := context.WithValue(context.Background(), authHeaderKey{}, "Basic Zm9yd2FyZGVk")
	require.NoError(t, client.apiCall(ctx, "GET", "/", nil, nil))
	assert.Equal(t, "Basic Zm9yd2FyZGVk", rs.auth)
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", WithHTTPClient(&http.Client{Timeout: time.Second}))

	err := client.apiCall(context.Background(), "GET", "/test", nil, nil)
	assert.Error(t, err)
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	t.Run("error body", func(t *testing.T) {
		rs := newRecordingServer(t, http.StatusNotFound, map[string]string{"error": "session a1b2: session not found"})
		client := NewClient(rs.URL)

		err := client.apiCall(context.Background(), "GET", "/api/sessions/a1b2", nil, nil)
		assert.EqualError(t, err, "session a1b2: session not found")
	})

	t.Run("no error body", func(t *testing.T) {
		rs := newRecordingServer(t, http.StatusInternalServerError, nil)
		client := NewClient(rs.URL)

		err := client.apiCall(context.Background(), "GET", "/", nil, nil)
		assert.ErrorContains(t, err, "API error")
	})
}

func TestClient_handleCreateSession(t *testing.T) {
	rs := newRecordingServer(t, http.StatusCreated, service.SessionInfo{
		ID:           "a1b2",
		ScenarioName: "classic",
		Ships: []service.ShipInfo{
			{Name: "Pioneer", State: engine.ShipState{Name: "Pioneer", Position: engine.Position{X: 1, Y: 0, Landed: true}}},
		},
	})
	client := NewClient(rs.URL)

	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"scenario_id": "classic",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "a1b2")
	assert.Contains(t, text, "classic")
	assert.Contains(t, text, "Pioneer")
	assert.Contains(t, text, "landed")

	assert.Equal(t, "POST", rs.method)
	assert.Equal(t, "/api/sessions", rs.path)
	assert.JSONEq(t, `{"scenario_id":"classic"}`, string(rs.body))
}

func TestClient_handleAddShip(t *testing.T) {
	rs := newRecordingServer(t, http.StatusCreated, service.ShipInfo{
		Name:  "Corsair",
		State: engine.ShipState{Name: "Corsair", Position: engine.Position{X: 3, Y: -2}},
	})
	client := NewClient(rs.URL)

	result, err := client.handleAddShip(context.Background(), callRequest("add_ship", map[string]interface{}{
		"session_id": "a1b2",
		"name":       "Corsair",
		"x":          float64(3),
		"y":          float64(-2),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Corsair")

	assert.Equal(t, "/api/sessions/a1b2/ships", rs.path)
	var ship engine.Ship
	require.NoError(t, json.Unmarshal(rs.body, &ship))
	assert.Equal(t, engine.Ship{Name: "Corsair", StartingPosition: engine.Position{X: 3, Y: -2}}, ship)
}

func TestClient_handleAddTurn(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.TurnResult{
		SessionID: "a1b2",
		Turn: engine.Turn{
			ShipName:         "Corsair",
			Number:           2,
			StartPosition:    engine.Position{X: 0, Y: 0},
			NewPosition:      engine.Position{X: 2, Y: 0},
			NewVector:        engine.Vector{DX: 2, DY: 0},
			Path:             []engine.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
			NewStrongGravity: []engine.Vector{{DX: -1, DY: 0}},
		},
	})
	client := NewClient(rs.URL)

	result, err := client.handleAddTurn(context.Background(), callRequest("add_turn", map[string]interface{}{
		"session_id":   "a1b2",
		"ship":         "Corsair",
		"dx":           float64(1),
		"dy":           float64(0),
		"weak_gravity": []interface{}{map[string]interface{}{"dx": float64(0), "dy": float64(1)}},
		"intent":       "speed up",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "Corsair turn 2")
	assert.Contains(t, text, "Path:")
	assert.Contains(t, text, "Strong gravity next turn")

	assert.Equal(t, "/api/sessions/a1b2/ships/Corsair/turns", rs.path)
	var action engine.Action
	require.NoError(t, json.Unmarshal(rs.body, &action))
	assert.Equal(t, engine.Vector{DX: 1, DY: 0}, action.Acceleration)
	assert.Equal(t, []engine.Vector{{DX: 0, DY: 1}}, action.WeakGravity)
	assert.False(t, action.Landing)
}

func TestClient_handleAddTurn_Crash(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.TurnResult{
		Turn: engine.Turn{ShipName: "Corsair", Number: 1, Crashed: true, CrashReason: engine.CrashOffMap},
	})
	client := NewClient(rs.URL)

	result, err := client.handleAddTurn(context.Background(), callRequest("add_turn", map[string]interface{}{
		"session_id": "a1b2",
		"ship":       "Corsair",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError, "a crash is a resolved turn")
	assert.Contains(t, resultText(t, result), "CRASHED: Off map")
}

func TestClient_handleMovementPhase(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.PhaseResult{
		SessionID: "a1b2",
		Turns: []service.TurnResult{
			{Turn: engine.Turn{ShipName: "Alpha", Number: 1}},
			{Turn: engine.Turn{ShipName: "Beta", Number: 1, Crashed: true, CrashReason: "Crashed into Venus"}},
		},
		Crashed: []string{"Beta"},
	})
	client := NewClient(rs.URL)

	result, err := client.handleMovementPhase(context.Background(), callRequest("movement_phase", map[string]interface{}{
		"session_id": "a1b2",
		"orders": []interface{}{
			map[string]interface{}{"ship": "Alpha", "dx": float64(1), "dy": float64(0)},
			map[string]interface{}{"ship": "Beta", "taking_off": true},
		},
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "2 ships")
	assert.Contains(t, text, "Crashed this phase: Beta")

	var body struct {
		Orders []engine.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rs.body, &body))
	require.Len(t, body.Orders, 2)
	assert.Equal(t, "Alpha", body.Orders[0].ShipName)
	assert.Equal(t, engine.Vector{DX: 1}, body.Orders[0].Action.Acceleration)
	assert.True(t, body.Orders[1].Action.TakingOff)
}

func TestClient_handleMovementPhase_NoOrders(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	result, err := client.handleMovementPhase(context.Background(), callRequest("movement_phase", map[string]interface{}{
		"session_id": "a1b2",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClient_handleTurnHistory(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, service.HistoryResponse{
		Turns:      []engine.Turn{{ShipName: "Corsair", Number: 1}},
		TotalTurns: 1,
		Page:       1,
		TotalPages: 1,
	})
	client := NewClient(rs.URL)

	result, err := client.handleTurnHistory(context.Background(), callRequest("turn_history", map[string]interface{}{
		"session_id": "a1b2",
		"ship":       "Corsair",
		"page":       float64(1),
		"order":      "asc",
	}))
	require.NoError(t, err)

	assert.Contains(t, resultText(t, result), "Turn History (Page 1/1) - Total: 1")
	assert.Equal(t, "/api/sessions/a1b2/turns", rs.path)
	assert.Equal(t, "order=asc&page=1&ship=Corsair", rs.query)
}

func TestClient_handleGameRules(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameRules(context.Background(), callRequest("game_rules", map[string]interface{}{}))
	require.NoError(t, err)

	text := resultText(t, result)
	for _, section := range []string{"COORDINATES:", "VECTOR MOVEMENT:", "GRAVITY:", "CRASHES:", "ORBIT:", "LANDING AND TAKEOFF:"} {
		assert.Contains(t, text, section)
	}
}

func TestClient_ErrorsBecomeToolErrors(t *testing.T) {
	rs := newRecordingServer(t, http.StatusNotFound, map[string]string{"error": "ship not found: Ghost"})
	client := NewClient(rs.URL)

	result, err := client.handleGetShip(context.Background(), callRequest("get_ship", map[string]interface{}{
		"session_id": "a1b2",
		"ship":       "Ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "ship not found")
}

func TestClient_Handler(t *testing.T) {
	rs := newRecordingServer(t, http.StatusOK, []service.ScenarioInfo{
		{ScenarioID: "classic", Name: "Classic", Bodies: 3},
	})
	client := NewClient(rs.URL)
	handler := client.Handler()

	t.Run("rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("tools/list", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", bytes.NewBufferString(body)))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		names := map[string]bool{}
		for _, tool := range resp.Result.Tools {
			names[tool.Name] = true
		}
		for _, want := range []string{
			"create_session", "list_sessions", "get_session", "add_ship", "get_ship",
			"add_turn", "movement_phase", "turn_history", "list_scenarios", "game_rules",
		} {
			assert.True(t, names[want], "missing tool %s", want)
		}
	})

	t.Run("tools/call forwards credentials", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"list_scenarios","arguments":{}}}`
		req := httptest.NewRequest("POST", "/mcp", bytes.NewBufferString(body))
		req.SetBasicAuth("alice", "pw")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Contains(t, w.Body.String(), "Classic")
		assert.Equal(t, "/api/scenarios", rs.path)
		assert.Equal(t, req.Header.Get("Authorization"), rs.auth)
	})
}
