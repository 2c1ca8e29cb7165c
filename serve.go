package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/collect-game/api"
	"github.com/wricardo/collect-game/game/config"
	"github.com/wricardo/collect-game/game/service"
	"github.com/wricardo/collect-game/game/session"
	"github.com/wricardo/collect-game/transport/mcp"
	"github.com/wricardo/collect-game/transport/websocket"
)

// externalAPIURL is where the stdio MCP mode looks for an already running server
const externalAPIURL = "http://localhost:8080"

const cleanupInterval = time.Hour

type ngrokOptions struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// serverOptions collects everything the serve and mcp commands need
type serverOptions struct {
	Host     string
	Port     int
	Settings *config.Settings
	Ngrok    ngrokOptions
}

func (o serverOptions) addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

func serverOptionsFromCommand(cmd *cli.Command) (serverOptions, error) {
	settings, err := config.LoadSettings(cmd.String("config"))
	if err != nil {
		return serverOptions{}, err
	}
	if dir := cmd.String("maps-dir"); dir != "" {
		settings.MapsDir = dir
	}

	return serverOptions{
		Host:     cmd.String("host"),
		Port:     cmd.Int("port"),
		Settings: settings,
		Ngrok: ngrokOptions{
			Enabled:   cmd.Bool("ngrok"),
			AuthToken: cmd.String("ngrok-auth"),
			Domain:    cmd.String("ngrok-domain"),
		},
	}, nil
}

// services is the wired game stack shared by the HTTP and stdio modes
type services struct {
	Game     service.GameService
	Sessions *session.Manager
	Maps     *config.Manager
	Hub      *websocket.Hub
}

// Close stops every session loop
func (s *services) Close() {
	s.Sessions.Close()
}

// initializeServices wires map/session managers, the WebSocket hub and the
// game service. The hub and the cleanup routine live until ctx is done.
func initializeServices(ctx context.Context, settings *config.Settings) (*services, error) {
	maps, err := config.NewManager(settings.MapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create map manager: %w", err)
	}
	if settings.DefaultMap != "" {
		if err := maps.SetDefault(settings.DefaultMap); err != nil {
			return nil, fmt.Errorf("invalid default map %q: %w", settings.DefaultMap, err)
		}
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	sessions := session.NewManager(settings.Config, session.WithObserver(hub.Publish))

	go sessionCleanupRoutine(ctx, sessions, settings.SessionTTL, cleanupInterval)

	return &services{
		Game:     service.NewGameService(sessions, maps),
		Sessions: sessions,
		Maps:     maps,
		Hub:      hub,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl. A zero ttl disables expiry.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl, every time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(every)
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

// reloadMapsOnSignal drops the map cache every time sig fires so edited map
// files are picked up by new sessions. A configured default map is kept.
func reloadMapsOnSignal(ctx context.Context, maps *config.Manager, defaultMap string, sig <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			maps.RefreshCache()
			if defaultMap != "" {
				if err := maps.SetDefault(defaultMap); err != nil {
					log.Printf("Default map %q unavailable after reload: %v", defaultMap, err)
				}
			}
			log.Printf("Map cache reloaded (default map: %q)", maps.DefaultMap())
		}
	}
}

// newRouter mounts the REST/WebSocket API at the root and the MCP JSON-RPC
// endpoint at /mcp. MCP tools call back into the API at baseURL.
func newRouter(svcs *services, baseURL string) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(svcs.Game, svcs.Hub))
	mainRouter.Handle("/mcp", mcp.NewClient(baseURL).HTTPHandler())
	return mainRouter
}

// runServer serves HTTP until ctx is cancelled or the process receives
// SIGINT/SIGTERM. SIGHUP reloads the map files. With ngrok enabled the same router is also served through
// a public tunnel.
func runServer(ctx context.Context, opts serverOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs, err := initializeServices(ctx, opts.Settings)
	if err != nil {
		return err
	}
	defer svcs.Close()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloadMapsOnSignal(ctx, svcs.Maps, opts.Settings.DefaultMap, hup)

	addr := opts.addr()
	mainRouter := newRouter(svcs, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts.Ngrok, mainRouter)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case runErr = <-serveErr:
		stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, opts ngrokOptions, handler http.Handler) {
	if opts.AuthToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.Domain))
		log.Printf("Using custom ngrok domain: %s", opts.Domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.AuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiAvailable reports whether a collect-game API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// localhost:8080 when no port is requested; otherwise it starts an internal
// API on the loopback interface and targets that.
func runStdioMCP(ctx context.Context, opts serverOptions) error {
	baseURL := ""
	if opts.Port == 0 {
		log.Printf("Checking for external API server at %s...", externalAPIURL)
		if apiAvailable(externalAPIURL) {
			log.Printf("External API server found at %s, using it for MCP", externalAPIURL)
			baseURL = externalAPIURL
		}
	}

	if baseURL == "" {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		internalURL, shutdown, err := startInternalAPI(ctx, opts)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	log.Printf("MCP stdio server ready (API at %s)", baseURL)
	if err := mcp.NewClient(baseURL).ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// startInternalAPI serves the REST API on opts.addr() in the background and
// returns its base URL plus a function that stops it
func startInternalAPI(ctx context.Context, opts serverOptions) (string, func(), error) {
	svcs, err := initializeServices(ctx, opts.Settings)
	if err != nil {
		return "", nil, err
	}

	listener, err := net.Listen("tcp", opts.addr())
	if err != nil {
		svcs.Close()
		return "", nil, fmt.Errorf("failed to listen on %s: %w", opts.addr(), err)
	}

	baseURL := "http://" + listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", listener.Addr())

	httpServer := &http.Server{Handler: newRouter(svcs, baseURL)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		svcs.Close()
	}
	return baseURL, shutdown, nil
}
