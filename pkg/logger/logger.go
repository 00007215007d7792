package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the global logger instance
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(consoleWriter(), zerolog.InfoLevel)
}

// Setup configures the global logger for the given server mode: human
// console output with debug level in debug mode, JSON at info otherwise.
func Setup(mode string) {
	var (
		out   io.Writer = os.Stdout
		level           = zerolog.InfoLevel
	)
	if mode == "debug" {
		out = consoleWriter()
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
	Log = newLogger(out, level)
}

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}
