package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/padbridge/padbridge/internal/config"
	"github.com/padbridge/padbridge/internal/logging"
	"github.com/padbridge/padbridge/internal/sim"
	"github.com/padbridge/padbridge/internal/tui"
)

func main() {
	configPath := flag.String("config", "padbridge.yaml", "Path to config file")
	addr := flag.String("addr", "", "Override listen address")
	demo := flag.Bool("demo", false, "Start with the demo event generator on")
	headless := flag.Bool("headless", false, "Run without the TUI and log applied batches")
	logLevel := flag.String("log-level", "", "Override log level (debug|info|warn|error)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		os.Stderr.WriteString("padsim: failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Sim.ListenAddr = *addr
	}
	if *demo {
		cfg.Sim.Demo = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// The TUI owns the terminal; only headless mode writes logs.
	logOut := io.Writer(os.Stderr)
	if !*headless {
		logOut = io.Discard
	}
	logger := logging.New("padsim", cfg.Log.Level, logOut)

	state := sim.NewPadState()
	hub := sim.NewHub(state, cfg.Sim.MaxConnections, logger)
	gen := sim.NewGenerator(state, hub, cfg.Sim.DemoInterval(), cfg.Sim.Demo, logger)

	mux := http.NewServeMux()
	hub.Routes(mux)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen.Start(ctx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Sim.ListenAddr).Bool("demo", cfg.Sim.Demo).Msg("padsim listening")
		serveErr <- http.ListenAndServe(cfg.Sim.ListenAddr, mux)
	}()

	if *headless {
		runHeadless(hub, logger, serveErr)
		return
	}

	p := tea.NewProgram(tui.New(hub, gen, state, cfg.Sim.ListenAddr), tea.WithAltScreen())
	go func() {
		if err := <-serveErr; err != nil {
			p.Quit()
			os.Stderr.WriteString("padsim: server error: " + err.Error() + "\n")
		}
	}()
	if _, err := p.Run(); err != nil {
		os.Stderr.WriteString("padsim: " + err.Error() + "\n")
		os.Exit(1)
	}
	hub.Close()
}

// runHeadless consumes hub notices and logs them until the process is
// signalled or the listener fails.
func runHeadless(hub *sim.Hub, logger zerolog.Logger, serveErr <-chan error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case n := <-hub.Notices():
			logNotice(logger, n)
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			hub.Close()
			return
		case err := <-serveErr:
			logger.Fatal().Err(err).Msg("listener failed")
		}
	}
}

func logNotice(logger zerolog.Logger, n sim.Notice) {
	ev := logger.Info().Stringer("kind", n.Kind)
	if n.ClientID != "" {
		ev = ev.Str("client", n.ClientID)
	}
	if n.Events > 0 {
		ev = ev.Int("events", n.Events)
	}
	ev.Msg(n.Detail)
}
