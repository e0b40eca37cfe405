// Command triplanetary starts the Triplanetary movement server.
//
// Commands:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server, reusing a running API or starting an internal one
//  3. "users" manages the basic-auth user database
//
// Settings come from triplanetary.json, TRIPLANETARY_* environment variables (a .env
// file is loaded first) and command-line flags, in increasing priority.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/triplanetary/api"
	"github.com/wricardo/triplanetary/game/config"
	"github.com/wricardo/triplanetary/game/service"
	"github.com/wricardo/triplanetary/game/session"
	"github.com/wricardo/triplanetary/game/users"
	"github.com/wricardo/triplanetary/logging"
	"github.com/wricardo/triplanetary/settings"
	"github.com/wricardo/triplanetary/transport/mcp"
	"github.com/wricardo/triplanetary/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Triplanetary Server"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if envErr != nil && !os.IsNotExist(envErr) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", envErr)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "triplanetary",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Aliases: []string{"c"}, Usage: "settings file (default: ./triplanetary.json when present)"},
			&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "scenario-dir", Usage: "directory containing scenario files"},
			&cli.StringFlag{Name: "users-db", Usage: "SQLite database holding basic-auth users"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
			&cli.BoolFlag{Name: "auth", Usage: "require HTTP basic authentication"},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain"},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:   "server",
				Usage:  "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action: runServer,
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Usage: "REST API to proxy (default: http://localhost:<port>)"},
					&cli.StringFlag{Name: "api-user", Usage: "basic-auth user for the REST API", Sources: cli.EnvVars("TRIPLANETARY_API_USER")},
					&cli.StringFlag{Name: "api-password", Usage: "basic-auth password for the REST API", Sources: cli.EnvVars("TRIPLANETARY_API_PASSWORD")},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "users",
				Usage: "manage basic-auth users",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "add a user or replace a password",
						ArgsUsage: "<username> <password>",
						Action:    runUsersAdd,
					},
					{
						Name:   "list",
						Usage:  "list usernames",
						Action: runUsersList,
					},
					{
						Name:      "delete",
						Usage:     "delete a user",
						ArgsUsage: "<username>",
						Action:    runUsersDelete,
					},
				},
			},
		},
	}
}

// loadSettings merges the settings file and environment with explicit flags
func loadSettings(cmd *cli.Command) (*settings.Settings, error) {
	s, err := settings.Load(settings.New(), cmd.String("settings"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		s.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Port = cmd.Int("port")
	}
	if cmd.IsSet("scenario-dir") {
		s.ScenarioDir = cmd.String("scenario-dir")
	}
	if cmd.IsSet("users-db") {
		s.UsersDB = cmd.String("users-db")
	}
	if cmd.IsSet("log-level") {
		s.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("auth") {
		s.Auth.Enabled = cmd.Bool("auth")
	}
	if cmd.IsSet("ngrok") {
		s.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-domain") {
		s.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	return s, nil
}

// newLogger writes to stderr so stdout stays free for the MCP stdio transport
func newLogger(s *settings.Settings) zerolog.Logger {
	return logging.New(s.LogLevel, os.Stderr, s.LogPretty).With().Str("app", "triplanetary").Logger()
}

// services bundles every long-lived component
type services struct {
	game     service.GameService
	sessions *session.Manager
	users    *users.GormStore
}

func (s *services) Close() error {
	if s.users != nil {
		return s.users.Close()
	}
	return nil
}

// initializeServices wires session/scenario managers, the game service and, when
// authentication is enabled, the user store.
func initializeServices(s *settings.Settings, log zerolog.Logger) (*services, error) {
	configManager, err := config.NewManager(s.ScenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}

	sessionManager := session.NewManagerWithLogger(log)

	svc := &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
	}

	if s.Auth.Enabled {
		store, err := users.Open(s.UsersDB, log)
		if err != nil {
			return nil, err
		}
		svc.users = store
	}

	return svc, nil
}

// newHandler builds the API server with its hub and the /mcp endpoint
// The hub stops when ctx is done.
func newHandler(ctx context.Context, svc *services, baseURL string, log zerolog.Logger) http.Handler {
	hub := websocket.NewHubWithLogger(log)
	go hub.Run(ctx)

	mcpClient := mcp.NewClient(baseURL)

	opts := []api.Option{
		api.WithLogger(log),
		api.WithMCP(mcpClient.Handler()),
	}
	if svc.users != nil {
		opts = append(opts, api.WithUsers(svc.users))
	}

	return api.NewServer(svc.game, hub, opts...)
}

// runServer starts the HTTP server. If ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(s)

	ttl, err := time.ParseDuration(s.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session TTL %q: %w", s.SessionTTL, err)
	}

	svc, err := initializeServices(s, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	addr := s.Addr()
	baseURL := "http://" + loopbackAddr(s.Host, s.Port)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := newHandler(ctx, svc, baseURL, log)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go svc.sessions.RunCleanup(ctx, time.Hour, ttl)

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("version", Version).
			Str("addr", addr).
			Str("scenarios", s.ScenarioDir).
			Bool("auth", s.Auth.Enabled).
			Msg("HTTP server listening")
		log.Info().Msgf("REST API: %s/api", baseURL)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", loopbackAddr(s.Host, s.Port))
		log.Info().Msgf("MCP endpoint: %s/mcp", baseURL)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
			stop()
		}
	}()

	if s.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s.Ngrok, handler, log)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, cfg settings.NgrokConfig, handler http.Handler, log zerolog.Logger) {
	if cfg.AuthToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	log.Info().Str("domain", cfg.Domain).Msg("starting ngrok tunnel")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().Str("url", url).Msg("ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", url)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?session=<session_id>", url)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// loopbackAddr turns a listen address into one a local client can dial
func loopbackAddr(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, fmt.Sprint(port))
}

// runStdioMCP runs an MCP stdio server.
// It reuses an API already answering at api-url; otherwise it starts an internal
// HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(s)

	externalURL := cmd.String("api-url")
	if externalURL == "" {
		externalURL = "http://" + loopbackAddr(s.Host, s.Port)
	}

	var opts []mcp.ClientOption
	if user := cmd.String("api-user"); user != "" {
		opts = append(opts, mcp.WithBasicAuth(user, cmd.String("api-password")))
	}

	baseURL := externalURL
	if !apiAvailable(ctx, externalURL) {
		log.Info().Str("url", externalURL).Msg("no external API server found, starting internal HTTP server")

		// the internal server is private to this process
		s.Auth.Enabled = false
		svc, err := initializeServices(s, log)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		handler := newHandler(ctx, svc, baseURL, log)
		httpServer := &http.Server{Handler: handler}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		opts = nil
	} else {
		log.Info().Str("url", externalURL).Msg("external API server found, using it for MCP")
	}

	mcpClient := mcp.NewClient(baseURL, opts...)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a server answers the health check at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// openUsers opens the user database named by the settings
func openUsers(cmd *cli.Command) (*users.GormStore, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return users.Open(s.UsersDB, newLogger(s))
}

func runUsersAdd(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return errors.New("usage: users add <username> <password>")
	}

	store, err := openUsers(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	username := cmd.Args().Get(0)
	if err := store.Put(ctx, username, cmd.Args().Get(1)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "User %s created/updated successfully\n", username)
	return nil
}

func runUsersList(ctx context.Context, cmd *cli.Command) error {
	store, err := openUsers(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.Root().Writer, name)
	}
	return nil
}

func runUsersDelete(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: users delete <username>")
	}

	store, err := openUsers(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	username := cmd.Args().Get(0)
	if err := store.Delete(ctx, username); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "User %s deleted successfully\n", username)
	return nil
}
