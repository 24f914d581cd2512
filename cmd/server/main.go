package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/quickcurrency/infra/initializer"
	"github.com/amirasaad/quickcurrency/pkg/app"
	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// @title QuickCurrency API
// @version 1.0.0
// @description Currency parsing and conversion with cached exchange rates
// @host localhost:3000
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	fiberApp, a, err := newServer(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close() //nolint: errcheck
	logger := a.Deps.Logger

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- fiberApp.Listen(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
		return fiberApp.ShutdownWithTimeout(10 * time.Second)
	}
}

// newServer wires dependencies and routes. A nil logger builds the process
// logger from cfg.
func newServer(cfg *config.App, logger *slog.Logger) (*fiber.App, *app.App, error) {
	deps, err := initializer.InitializeDependencies(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	a, err := app.New(deps, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid preferences: %w", err)
	}
	return webapi.SetupApp(a), a, nil
}
