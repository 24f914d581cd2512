// Package watcher polls a text source and converts new selections as they
// appear. Polling ticks and explicit triggers share one processing path. The
// handler runs on its own goroutine and at most one run is in flight at a
// time; ticks and triggers arriving during a run are dropped.
package watcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Source returns the current selection text.
type Source func() (string, error)

// Handler processes a selection. It is not called for text that did not
// change since the last processed run.
type Handler func(ctx context.Context, text string) error

const (
	DefaultInterval = 500 * time.Millisecond
	DefaultMinGap   = 300 * time.Millisecond
)

// Watcher drives a Handler from a Source.
type Watcher struct {
	Interval time.Duration
	MinGap   time.Duration

	source  Source
	handler Handler
	logger  *slog.Logger
	now     func() time.Time

	inFlight atomic.Bool
	runs     sync.WaitGroup
	mu       sync.Mutex
	lastText string
	lastRun  time.Time
	triggers chan string
}

// New creates a Watcher with the default timings.
func New(source Source, handler Handler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		Interval: DefaultInterval,
		MinGap:   DefaultMinGap,
		source:   source,
		handler:  handler,
		logger:   logger.With("component", "watcher"),
		now:      time.Now,
		triggers: make(chan string, 1),
	}
}

// Trigger asks for text to be processed outside the polling schedule.
// It is dropped when another trigger is already queued.
func (w *Watcher) Trigger(text string) {
	select {
	case w.triggers <- text:
	default:
		w.logger.Debug("Trigger dropped, one already pending")
	}
}

// Run polls until ctx is done, then waits for the run in flight.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.runs.Wait()

	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text := <-w.triggers:
			w.start(ctx, text, true)
		case <-ticker.C:
			if w.source == nil {
				continue
			}
			text, err := w.source()
			if err != nil {
				w.logger.Warn("Failed to read selection", "error", err)
				continue
			}
			w.start(ctx, text, false)
		}
	}
}

// start launches the handler for text unless a run is in flight, the text
// is blank or unchanged, or the previous run was less than MinGap ago.
func (w *Watcher) start(ctx context.Context, text string, forced bool) bool {
	text, ok := w.claim(text, forced)
	if !ok {
		return false
	}
	w.runs.Add(1)
	go func() {
		defer w.runs.Done()
		defer w.inFlight.Store(false)
		if err := w.handler(ctx, text); err != nil {
			w.logger.Debug("Selection not converted", "error", err)
		}
	}()
	return true
}

// claim takes the in-flight slot and records text as the latest run. The
// caller releases the slot when the handler returns.
func (w *Watcher) claim(text string, forced bool) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if !w.inFlight.CompareAndSwap(false, true) {
		w.logger.Debug("Selection dropped, a run is in flight")
		return "", false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	unchanged := text == w.lastText
	tooSoon := !w.lastRun.IsZero() && now.Sub(w.lastRun) < w.MinGap
	if (unchanged && !forced) || (unchanged && tooSoon) {
		w.inFlight.Store(false)
		return "", false
	}
	w.lastText = text
	w.lastRun = now
	return text, true
}
