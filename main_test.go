package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/triplanetary/settings"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Triplanetary Server", AppName)
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"server", "mcp", "users"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, app.Action, "server is the default action")
}

func testSettings(t *testing.T) *settings.Settings {
	t.Helper()
	t.Chdir(t.TempDir())
	s, err := settings.Load(settings.New(), "")
	require.NoError(t, err)
	s.ScenarioDir = t.TempDir()
	s.UsersDB = filepath.Join(t.TempDir(), "users.db")
	return s
}

func TestInitializeServices(t *testing.T) {
	s := testSettings(t)

	svc, err := initializeServices(s, zerolog.Nop())
	require.NoError(t, err)
	defer svc.Close()

	assert.NotNil(t, svc.game)
	assert.NotNil(t, svc.sessions)
	assert.Nil(t, svc.users, "user store is only opened with auth enabled")
}

func TestInitializeServices_WithAuth(t *testing.T) {
	s := testSettings(t)
	s.Auth.Enabled = true

	svc, err := initializeServices(s, zerolog.Nop())
	require.NoError(t, err)
	defer svc.Close()

	assert.NotNil(t, svc.users)
}

func TestInitializeServices_InvalidScenarioDir(t *testing.T) {
	s := testSettings(t)
	s.ScenarioDir = "/non/existent/path"

	_, err := initializeServices(s, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	s := testSettings(t)
	svc, err := initializeServices(s, zerolog.Nop())
	require.NoError(t, err)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newHandler(ctx, svc, "http://localhost:0", zerolog.Nop())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/api/sessions", strings.NewReader("{}")))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "add_turn")
}

func TestLoopbackAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", loopbackAddr("", 8080))
	assert.Equal(t, "localhost:8080", loopbackAddr("0.0.0.0", 8080))
	assert.Equal(t, "127.0.0.1:9090", loopbackAddr("127.0.0.1", 9090))
}

func TestApiAvailable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer healthy.Close()

	assert.True(t, apiAvailable(context.Background(), healthy.URL))
	assert.False(t, apiAvailable(context.Background(), "http://127.0.0.1:1"))
}

func TestLoadSettings_FlagsOverride(t *testing.T) {
	t.Chdir(t.TempDir())

	var got int
	app := newApp()
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		got = s.Port
		return nil
	}

	require.NoError(t, app.Run(context.Background(), []string{"triplanetary", "--port", "9999"}))
	assert.Equal(t, 9999, got)
}

func TestUsersCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "users.db")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		argv := append([]string{"triplanetary", "--users-db", db, "--log-level", "off"}, args...)
		require.NoError(t, app.Run(context.Background(), argv))
		return out.String()
	}

	assert.Contains(t, run("users", "add", "alice", "pw"), "User alice created/updated successfully")
	run("users", "add", "bob", "pw")
	assert.Equal(t, "alice\nbob\n", run("users", "list"))
	assert.Contains(t, run("users", "delete", "bob"), "User bob deleted successfully")
	assert.Equal(t, "alice\n", run("users", "list"))
}

func TestUsersCommands_Usage(t *testing.T) {
	t.Chdir(t.TempDir())
	db := filepath.Join(t.TempDir(), "users.db")

	app := newApp()
	err := app.Run(context.Background(), []string{"triplanetary", "--users-db", db, "users", "add", "alice"})
	assert.ErrorContains(t, err, "usage")
}
