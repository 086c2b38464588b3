// Package logging builds the pterm logger used by the demo CLI. The level
// follows the counted --verbose flag.
package logging

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Options configures a logger.
type Options struct {
	// Verbosity is the number of times --verbose was given.
	Verbosity int
	// Debug forces debug level and adds caller information.
	Debug bool
	// JSON selects the JSON line formatter.
	JSON bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// Level maps a verbosity count to a log level: 0 warn, 1 info, 2 debug,
// 3 or more trace. Debug raises the level to at least debug.
func Level(verbosity int, debug bool) pterm.LogLevel {
	level := pterm.LogLevelWarn
	switch {
	case verbosity >= 3:
		level = pterm.LogLevelTrace
	case verbosity == 2:
		level = pterm.LogLevelDebug
	case verbosity == 1:
		level = pterm.LogLevelInfo
	}
	if debug && level > pterm.LogLevelDebug {
		level = pterm.LogLevelDebug
	}
	return level
}

// New creates a logger for opts.
func New(opts Options) *pterm.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	logger := pterm.DefaultLogger.
		WithLevel(Level(opts.Verbosity, opts.Debug)).
		WithWriter(w).
		WithTime(false).
		WithCaller(opts.Debug)
	if opts.JSON {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger
}

// VerbosityMessage is the banner logged for a verbosity count, or "" for
// none.
func VerbosityMessage(verbosity int) string {
	switch {
	case verbosity >= 3:
		return "Debug-level verbosity"
	case verbosity == 2:
		return "More verbose output"
	case verbosity == 1:
		return "Verbose mode enabled"
	}
	return ""
}
