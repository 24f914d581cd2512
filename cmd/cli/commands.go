package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/amirasaad/quickcurrency/pkg/service/conversion"
	"github.com/amirasaad/quickcurrency/pkg/watcher"
	"github.com/fatih/color"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	infoColor  = color.New(color.FgCyan)
	mutedColor = color.New(color.Faint)
	errColor   = color.New(color.FgRed)
)

type cli struct {
	svc           *conversion.Service
	out           io.Writer
	in            io.Reader
	stdinIsTTY    bool
	watchInterval time.Duration
	watchMinGap   time.Duration
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "parse":
		text, err := c.text(rest)
		if err != nil {
			return err
		}
		return c.parse(text)
	case "convert":
		text, err := c.text(rest)
		if err != nil {
			return err
		}
		return c.convert(ctx, text)
	case "clear-cache":
		if err := c.svc.ClearCache(ctx); err != nil {
			return err
		}
		okColor.Fprintln(c.out, "Cache cleared") //nolint: errcheck
		return nil
	case "watch":
		if len(rest) < 1 {
			return errors.New("usage: watch <file>")
		}
		return c.watch(ctx, rest[0])
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// text joins the arguments or, without any, reads piped stdin.
func (c *cli) text(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if c.stdinIsTTY || c.in == nil {
		return "", errors.New("no text given")
	}
	raw, err := io.ReadAll(c.in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(raw), nil
}

func (c *cli) parse(text string) error {
	m, rule := c.svc.Parse(text)
	if m == nil {
		errColor.Fprintln(c.out, "No currency amount found") //nolint: errcheck
		return nil
	}
	fmt.Fprintf(c.out, "%s %s %s\n", //nolint: errcheck
		okColor.Sprint(m.Currency),
		infoColor.Sprint(formatAmount(m.Amount)),
		mutedColor.Sprintf("(%s)", rule))
	return nil
}

func (c *cli) convert(ctx context.Context, text string) error {
	q, err := c.svc.Quote(ctx, text)
	switch {
	case errors.Is(err, domain.ErrNoCurrencyFound):
		errColor.Fprintln(c.out, "No currency amount found") //nolint: errcheck
		return nil
	case errors.Is(err, domain.ErrAlreadyTargetCurrency):
		mutedColor.Fprintln(c.out, "Already in the target currency") //nolint: errcheck
		return nil
	case err != nil:
		return err
	}
	c.printQuote(q)
	return nil
}

func (c *cli) printQuote(q *conversion.Quote) {
	suffix := ""
	if q.Cached {
		suffix = mutedColor.Sprint(" (cached)")
	}
	fmt.Fprintf(c.out, "%s %s %s%s\n", //nolint: errcheck
		infoColor.Sprint(q.Original),
		mutedColor.Sprint("→"),
		okColor.Sprint(q.Converted),
		suffix)
}

func (c *cli) watch(ctx context.Context, path string) error {
	source := func() (string, error) {
		raw, err := os.ReadFile(path)
		return string(raw), err
	}
	w := watcher.New(source, func(ctx context.Context, text string) error {
		q, err := c.svc.Quote(ctx, text)
		if err != nil {
			return err
		}
		c.printQuote(q)
		return nil
	}, nil)
	if c.watchInterval > 0 {
		w.Interval = c.watchInterval
	}
	if c.watchMinGap > 0 {
		w.MinGap = c.watchMinGap
	}
	mutedColor.Fprintf(c.out, "Watching %s, press Ctrl+C to stop\n", path) //nolint: errcheck
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func formatAmount(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", v), "0"), ".")
}
