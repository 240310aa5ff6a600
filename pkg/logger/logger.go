// Package logger is a thin structured-logging wrapper kept call-compatible
// with the rest of the pack's logging convention: a message string
// followed by alternating key/value pairs. It is backed by zerolog rather
// than a hand-rolled writer.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	Init("")
}

// Init (re)configures the package logger. level is parsed case
// insensitively ("debug", "info", "warn", "error"); an empty or unknown
// value falls back to "info".
func Init(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	log = zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Logger()
}

func fields(event *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, kv[i+1])
	}
	return event
}

// Debug logs msg at debug level with alternating key/value pairs.
func Debug(msg string, kv ...interface{}) {
	fields(log.Debug(), kv).Msg(msg)
}

// Info logs msg at info level with alternating key/value pairs.
func Info(msg string, kv ...interface{}) {
	fields(log.Info(), kv).Msg(msg)
}

// Warn logs msg at warn level with alternating key/value pairs.
func Warn(msg string, kv ...interface{}) {
	fields(log.Warn(), kv).Msg(msg)
}

// Error logs msg at error level with alternating key/value pairs.
func Error(msg string, kv ...interface{}) {
	fields(log.Error(), kv).Msg(msg)
}

// Startup logs a single component's bring-up step, e.g.
// logger.Startup("database", "Connecting to database").
func Startup(component, msg string) {
	log.Info().Str("component", component).Msg(msg)
}
