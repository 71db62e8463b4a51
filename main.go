// Command gamerelay starts the game relay server.
//
// The server accepts one authoritative host connection and any number of
// player connections per room over WebSocket, and relays opaque game
// payloads between them. Each configured game gets a pair of upgrade
// endpoints (/{game}/host and /{game}/client); a read-only REST API under
// /api reports live rooms.
//
// Flags control the config file, listen address, debug logging, and an
// optional ngrok tunnel for easy external access during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/inconshreveable/log15/v3"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/totemplay/gamerelay/api"
	"github.com/totemplay/gamerelay/config"
	"github.com/totemplay/gamerelay/relay"
	"github.com/totemplay/gamerelay/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Game Relay Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	godotenv.Load()

	cmd := &cli.Command{
		Name:    "gamerelay",
		Usage:   "WebSocket relay for host-authoritative multiplayer sessions",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "relay.yaml",
				Usage:   "Path to the YAML configuration file",
				Sources: cli.EnvVars("RELAY_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Listen address, overrides the config file",
				Sources: cli.EnvVars("RELAY_LISTEN"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("RELAY_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads configuration, wires the relays, and serves until a shutdown
// signal arrives.
func run(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))
	logger.Info("starting", "app", AppName, "version", Version)

	cfg, err := loadConfig(cmd.String("config"), logger)
	if err != nil {
		return err
	}
	if listen := cmd.String("listen"); listen != "" {
		cfg.Listen = listen
	}

	// One relay per configured game, all behind one dispatcher.
	dispatcher := websocket.NewDispatcher(logger)
	for _, profile := range cfg.Profiles() {
		dispatcher.Add(relay.New(profile, logger))
		logger.Info("game registered", "game", profile.Name, "kind", profile.Kind,
			"allocator", profile.Policy.Name(), "binary_input", profile.BinaryInput)
	}

	router := mux.NewRouter()
	dispatcher.Register(router)
	router.PathPrefix("/").Handler(api.NewServer(dispatcher))

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Listen)
		for _, game := range dispatcher.Games() {
			logger.Info("endpoints", "game", game,
				"host", fmt.Sprintf("ws://%s/%s/host?room=<id>", cfg.Listen, game),
				"client", fmt.Sprintf("ws://%s/%s/client", cfg.Listen, game))
		}
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	tunnelCtx, cancelTunnel := context.WithCancel(ctx)
	defer cancelTunnel()
	if cmd.Bool("ngrok") {
		go serveNgrok(tunnelCtx, cmd, router, logger)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	}
	cancelTunnel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}

	logger.Info("server stopped")
	return nil
}

// newLogger builds the root logger for the process.
func newLogger(debug bool) log.Logger {
	logger := log.New()
	handler := log.StreamHandler(os.Stdout, log.TerminalFormat())
	if !debug {
		handler = log.LvlFilterHandler(log.LvlInfo, handler)
	}
	logger.SetHandler(handler)
	return logger
}

// loadConfig reads the config file, falling back to built-in defaults
// when the default path has no file.
func loadConfig(path string, logger log.Logger) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		logger.Info("configuration loaded", "path", path, "games", len(cfg.Games))
		return cfg, nil
	}
	if errors.Is(err, config.ErrConfigNotFound) && path == "relay.yaml" {
		logger.Info("no config file, using defaults")
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load config %s: %w", path, err)
}

// serveNgrok provisions a public tunnel and serves the same router
// through it. Best-effort: tunnel failures do not stop the local server.
func serveNgrok(ctx context.Context, cmd *cli.Command, handler http.Handler, logger log.Logger) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided")
		return
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", "domain", domain)
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", "err", err)
		return
	}
	defer tun.Close()

	logger.Info("ngrok tunnel established", "url", tun.URL())
	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("ngrok server stopped", "err", err)
	}
}
