package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/quickcurrency/infra/initializer"
	"github.com/amirasaad/quickcurrency/pkg/app"
	"github.com/amirasaad/quickcurrency/pkg/config"
	log "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const usage = `Usage: quickcurrency <command> [arguments]
Commands:
  parse <text>         show the currency amount found in text
  convert <text>       convert the amount found in text to the target currency
  clear-cache          drop every cached exchange rate
  watch <file>         convert the contents of file whenever it changes
Text is read from stdin when no argument is given.`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.GetEnv("QUICKCURRENCY_ENV_FILE", ".env"))
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	// stdout carries results, so logs go to stderr
	logger := initializer.NewLogger(os.Stderr, cfg.Log)

	deps, err := initializer.InitializeDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	a, err := app.New(deps, cfg)
	if err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	defer a.Close() //nolint: errcheck

	if config.IsEnvSet("NO_COLOR") || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	c := &cli{
		svc:           a.ConversionService,
		out:           os.Stdout,
		in:            os.Stdin,
		stdinIsTTY:    term.IsTerminal(int(os.Stdin.Fd())),
		watchInterval: cfg.Watch.Interval,
		watchMinGap:   cfg.Watch.MinGap,
	}
	return c.dispatch(ctx, args)
}
