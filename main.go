// Command battleships runs the battleship game.
//
// It supports three commands:
//  1. "serve" (default): runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp": runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play": plays one game in the terminal against the cpu or a second player
//
// Settings come from the environment (and an optional .env file); flags
// override them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/battleships/api"
	"github.com/wricardo/battleships/game/config"
	"github.com/wricardo/battleships/game/layout"
	"github.com/wricardo/battleships/game/service"
	"github.com/wricardo/battleships/game/session"
	"github.com/wricardo/battleships/transport/console"
	"github.com/wricardo/battleships/transport/mcp"
	"github.com/wricardo/battleships/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Battleships"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Settings are loaded once before any
// command runs.
func newApp() *cli.Command {
	var settings *config.Settings

	return &cli.Command{
		Name:    "battleships",
		Usage:   "play battleships over HTTP, MCP or in the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed for the cpu opponents (0 = random)",
			},
			&cli.StringFlag{
				Name:  "layout-dir",
				Usage: "directory containing fleet layouts",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			s, err := config.Load()
			if err != nil {
				return ctx, err
			}
			settings = s
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server with API, WebSocket, and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
					&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					applyFlags(cmd, settings)
					return runHTTPServer(ctx, settings)
				},
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server backed by the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "host of an already running HTTP server"},
					&cli.IntFlag{Name: "port", Usage: "port of an already running HTTP server"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					applyFlags(cmd, settings)
					return runStdioMCPWithInternalServer(ctx, settings)
				},
			},
			{
				Name:  "play",
				Usage: "play a game in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Value: "single", Usage: "single (against the cpu) or multi (two players, one keyboard)"},
					&cli.StringFlag{Name: "layout", Usage: "stored layout for your fleet"},
					&cli.DurationFlag{Name: "cpu-delay", Usage: "pause between the cpu's shots"},
					&cli.BoolFlag{Name: "plain", Usage: "line based console instead of the full screen boards"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					applyFlags(cmd, settings)
					if !cmd.Bool("plain") {
						return runScreen(ctx, settings, cmd.String("mode"), cmd.String("layout"))
					}
					return runConsole(ctx, settings, cmd.String("mode"), cmd.String("layout"))
				},
			},
		},
		DefaultCommand: "serve",
	}
}

// applyFlags overrides settings with the flags given on the command line
// and sets up logging
func applyFlags(cmd *cli.Command, s *config.Settings) {
	if cmd.IsSet("debug") {
		s.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("seed") {
		s.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("layout-dir") {
		s.LayoutDir = cmd.String("layout-dir")
	}
	if cmd.IsSet("host") {
		s.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Port = cmd.Int("port")
	}
	if cmd.IsSet("cpu-delay") {
		s.CPUDelay = cmd.Duration("cpu-delay")
	}

	if s.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
func runHTTPServer(ctx context.Context, settings *config.Settings) error {
	log.Printf("Starting %s v%s", AppName, Version)

	gameService, sessions, err := initializeServices(settings)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := settings.Addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	// Create main router that combines API and MCP
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, sessions, settings.CleanupInterval, settings.SessionTTL)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// mcpHandler answers MCP JSON-RPC messages posted to /mcp
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// initializeServices wires the session and layout managers into the game
// service. A missing layout directory disables layouts instead of failing.
func initializeServices(settings *config.Settings) (service.GameService, *session.Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	sessionManager := session.NewManager()

	var layouts service.LayoutManager
	if layoutManager, err := layout.NewManager(settings.LayoutDir); err != nil {
		log.Printf("Warning: layouts disabled: %v", err)
	} else {
		layouts = layoutManager
	}

	var opts []service.Option
	if settings.Seed != 0 {
		opts = append(opts, service.WithSeed(settings.Seed))
	}

	return service.NewGameService(sessionManager, layouts, opts...), sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl, until ctx is done
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, settings *config.Settings) error {
	externalURL := fmt.Sprintf("http://%s", settings.Addr())
	baseURL := externalURL
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode < 500 {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		gameService, sessions, err := initializeServices(settings)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		go sessionCleanupRoutine(ctx, sessions, settings.CleanupInterval, settings.SessionTTL)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("Internal HTTP server for MCP stdio on %s", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runConsole plays one game on stdin/stdout. Logs are silenced unless
// debugging so they do not interleave with the boards.
func runConsole(ctx context.Context, settings *config.Settings, mode, layoutID string) error {
	if !settings.Debug {
		log.SetOutput(io.Discard)
	}

	gameService, _, err := initializeServices(settings)
	if err != nil {
		return err
	}

	c := console.New(gameService, os.Stdin, os.Stdout, console.WithCPUDelay(settings.CPUDelay))
	if err := c.Run(ctx, mode, layoutID); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// runScreen plays one game on the full screen boards. Fleets are placed
// from the layout or at random.
func runScreen(ctx context.Context, settings *config.Settings, mode, layoutID string) error {
	if !settings.Debug {
		log.SetOutput(io.Discard)
	}

	gameService, _, err := initializeServices(settings)
	if err != nil {
		return err
	}
	return console.NewScreen(gameService).Run(ctx, mode, layoutID)
}
