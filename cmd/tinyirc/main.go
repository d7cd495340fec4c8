// Command tinyirc is the terminal IRC client entry point: it builds the
// configured server list, starts the orchestrator, and runs the
// tcell-backed UI until interrupted.
//
// Grounded on the teacher's bot/run.go Run() for the signal-handling
// shutdown shape: watch for SIGINT/SIGTERM, trigger a clean stop, and
// give outstanding goroutines a moment to unwind.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/inconshreveable/log15.v2"

	"github.com/aarondl/wick/config"
	"github.com/aarondl/wick/notify"
	"github.com/aarondl/wick/orchestrator"
	"github.com/aarondl/wick/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tinyirc:", err)
		os.Exit(1)
	}
}

func run() error {
	logger := log15.New()
	logger.SetHandler(log15.LvlFilterHandler(log15.LvlInfo, log15.StdoutHandler))

	cfg := loadConfig()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := notify.NewSettings(mustLevel(cfg.Defaults.Notify))

	var orch *orchestrator.Orchestrator
	ui := tui.New(screen, cfg.Defaults.ScrollbackFor(), func(line string) {
		if orch != nil {
			if err := orch.Dispatch(line); err != nil {
				logger.Error("command failed", "err", err)
			}
		}
	})

	orch, err = orchestrator.New(cfg, ui, notifier, logger)
	if err != nil {
		return fmt.Errorf("building orchestrator: %w", err)
	}

	go orch.Run(ctx)

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	go func() {
		<-sig
		close(stop)
		cancel()
	}()

	ui.Run(stop)
	return nil
}

func mustLevel(s string) notify.Level {
	l, _ := notify.ParseLevel(s)
	return l
}

// loadConfig is a placeholder wiring point: parsing an external
// configuration file format is out of scope (see DESIGN.md), so this
// returns a minimal built-in default suitable for local testing against
// a single server via environment variables.
func loadConfig() *config.Config {
	host := os.Getenv("TINYIRC_HOST")
	if host == "" {
		host = "irc.libera.chat"
	}
	nick := os.Getenv("TINYIRC_NICK")
	if nick == "" {
		nick = "tinyirc-user"
	}

	return &config.Config{
		Defaults: config.Defaults{
			Nicks:      []string{nick, nick + "_"},
			Username:   nick,
			Realname:   nick,
			TLS:        true,
			Scrollback: 2000,
			Notify:     "mentions",
		},
		Servers: []config.Server{
			{Name: host, Host: host, Port: 6697},
		},
	}
}
