package logger

import (
	"os"
	"time"

	"Hishab/config"

	"github.com/rs/zerolog"
)

var log zerolog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. Pretty console output in development,
// JSON everywhere else.
func Init(cfg *config.Config) {
	level := zerolog.InfoLevel
	if cfg.App.Environment == "development" {
		level = zerolog.DebugLevel
	}

	var out zerolog.Logger
	if cfg.App.Environment == "development" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		out = zerolog.New(os.Stdout)
	}

	log = out.Level(level).With().Timestamp().Logger()
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
