package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/padbridge/padbridge/internal/bridge"
	"github.com/padbridge/padbridge/internal/config"
	"github.com/padbridge/padbridge/internal/diag"
	"github.com/padbridge/padbridge/internal/dispatch"
	"github.com/padbridge/padbridge/internal/gamepad"
	"github.com/padbridge/padbridge/internal/logging"
	"github.com/padbridge/padbridge/internal/mcp"
)

const version = "0.3.0"

func main() {
	configPath := flag.String("config", "padbridge.yaml", "Path to config file")
	simURL := flag.String("url", "", "Override simulator WebSocket URL")
	logLevel := flag.String("log-level", "", "Override log level (debug|info|warn|error)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		// No logger yet; the config decides its level.
		os.Stderr.WriteString("padbridge: failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *simURL != "" {
		cfg.Simulator.URL = *simURL
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// stdout carries the JSON-RPC stream; everything else goes to stderr.
	logger := logging.New("padbridge", cfg.Log.Level, os.Stderr)
	logger.Info().Str("version", version).Str("simulator", cfg.Simulator.URL).Msg("padbridge starting")

	store := gamepad.NewStore()
	manager := bridge.New(bridge.Options{
		URL:           cfg.Simulator.URL,
		RetryInterval: cfg.Simulator.ReconnectInterval(),
		DialTimeout:   cfg.Simulator.DialTimeout(),
		WriteTimeout:  cfg.Simulator.WriteTimeout(),
		Logger:        logger,
	})
	collector := diag.NewCollector()

	srv := mcp.NewServer("padbridge", version, logger)
	dispatch.New(store, manager, manager, collector, logger).Register(srv)

	// The connection is optimistic: tools are served whether or not the
	// simulator is up, and the manager keeps redialing on its own.
	manager.Connect()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		srv.Shutdown()
	}()

	err = srv.Serve(mcp.NewStdioTransport(os.Stdin, os.Stdout))
	manager.Close()
	if err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
