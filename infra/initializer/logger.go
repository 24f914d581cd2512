package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var levelStyles = map[log.Level]struct {
	icon  string
	color string
}{
	log.ErrorLevel: {"❌", "#FF6B6B"},
	log.WarnLevel:  {"⚠️", "#EE6FF8"},
	log.InfoLevel:  {"ℹ️", "#04B575"},
	log.DebugLevel: {"🐛", "#7E57C2"},
}

var formatters = map[string]log.Formatter{
	"json":   log.JSONFormatter,
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
}

// SetupLogger builds the process logger on stdout and makes it the slog default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	return NewLogger(os.Stdout, cfg)
}

// NewLogger builds a charmbracelet backed slog.Logger writing to w.
func NewLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text"}
	}
	styles := log.DefaultStyles()
	for level, s := range levelStyles {
		color := lipgloss.AdaptiveColor{Light: s.color, Dark: s.color}
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(s.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}
	keyColor := lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
	for _, key := range []string{"error", "component", "request_id", "provider", "source"} {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(keyColor)
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}

	formatter := log.TextFormatter
	if f, ok := formatters[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Level <= int(log.DebugLevel),
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles)

	slogger := slog.New(logger)
	slog.SetDefault(slogger)
	return slogger
}
