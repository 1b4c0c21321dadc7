// Package logging wraps zerolog with the tracker's five-level scheme
// (ERROR, WARN, INFO, DEBUG, TRACE), matching the original system's
// ConsoleLogger level numbering so a config document's logLevel value
// carries the same meaning it always did.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors the original ConsoleLogger's numeric level scheme.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds a console-writer zerolog.Logger at the given level, writing to
// w (typically os.Stdout).
func New(level Level, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	return zerolog.New(console).Level(level.zerolog()).With().Timestamp().Logger()
}

// NewFromConfigLevel maps the config document's raw integer logLevel
// (0=ERROR .. 4=TRACE) onto a Level, clamping out-of-range values to INFO.
func NewFromConfigLevel(raw int) Level {
	if raw < int(LevelError) || raw > int(LevelTrace) {
		return LevelInfo
	}
	return Level(raw)
}

// Default is a convenience console logger at INFO for tools that don't
// load a config document (the injector, the log dumper, the plotter).
func Default() zerolog.Logger {
	return New(LevelInfo, os.Stdout)
}
