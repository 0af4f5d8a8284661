// Package mvlog wires up logging the way geth's node/cmd setup does: a
// go-ethereum/log handler wrapped in a GlogHandler for runtime verbosity
// control: JSON on request, otherwise the terminal format, colored only when
// stderr is a tty, with lumberjack rotation when logging to a file.
package mvlog

import (
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	// File, if non-empty, directs output to a rotated log file instead of
	// stderr.
	File string
	// JSON forces the JSON handler even when stderr is a terminal.
	JSON bool
	// Verbosity is a log.Lvl-compatible integer (0 = crit .. 5 = trace).
	Verbosity int
}

// Setup builds a handler from opts, wraps it in a GlogHandler set to the
// requested verbosity, and installs it as the package-level default logger
// (mirroring the geth CLI's own startup sequence), returning the handler so
// callers can adjust verbosity later (e.g. from a SIGUSR1 handler, as geth
// itself does not do here but mirrors the glog package's intent).
func Setup(opts Options) *log.GlogHandler {
	var out io.Writer = os.Stderr
	useColor := !opts.JSON && isatty.IsTerminal(os.Stderr.Fd())

	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			MaxAge:     28, // days
			Compress:   true,
		}
		useColor = false
	}

	var handler log.Handler
	switch {
	case opts.JSON:
		handler = log.JSONHandler(out)
	case useColor:
		handler = log.NewTerminalHandlerWithLevel(colorable.NewColorableStderr(), levelFor(opts.Verbosity), true)
	default:
		handler = log.NewTerminalHandlerWithLevel(out, levelFor(opts.Verbosity), false)
	}

	glog := log.NewGlogHandler(handler)
	glog.Verbosity(levelFor(opts.Verbosity))
	log.SetDefault(log.NewLogger(glog))
	return glog
}

func levelFor(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return log.LevelCrit
	case verbosity == 1:
		return log.LevelError
	case verbosity == 2:
		return log.LevelWarn
	case verbosity == 3:
		return log.LevelInfo
	case verbosity == 4:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}
