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

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/feltworks/holdem/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"holdem.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `help:"RNG seed for shuffling (0 derives one from the clock)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	addr := cfg.ListenAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("starting holdemd", "addr", addr, "tables", len(cfg.Tables))

	srv := server.NewServer(addr, logger)
	service, err := server.NewService(cfg, srv, logger, seed, quartz.NewReal())
	if err != nil {
		logger.Error("failed to create tables", "error", err)
		kctx.Exit(1)
	}
	srv.SetService(service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		kctx.Exit(1)
	}
	logger.Info("shutdown complete")
}
