package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl        zerolog.Logger
	component string
}

var levels = map[string]zerolog.Level{
	"development": zerolog.DebugLevel,
	"staging":     zerolog.InfoLevel,
	"production":  zerolog.InfoLevel,
	"test":        zerolog.WarnLevel,
}

type Config struct {
	AppEnv string
	Out    io.Writer
}

// New creates a console logger for a component, configured from APP_ENV.
func New(component string) *Logger {
	return NewWithConfig(component, Config{AppEnv: os.Getenv("APP_ENV")})
}

// zerolog reads TimeFieldFormat on every timestamped event, so it is set
// once before the first logger exists and never touched again.
var setGlobals sync.Once

func NewWithConfig(component string, cfg Config) *Logger {
	setGlobals.Do(func() { zerolog.TimeFieldFormat = time.RFC3339 })

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	production := cfg.AppEnv == "production"

	writer := zerolog.ConsoleWriter{
		Out:     out,
		NoColor: production,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("[%s] %s", component, i)
		},
		FormatLevel: func(i interface{}) string {
			level, ok := i.(string)
			if !ok {
				return "???"
			}
			switch level {
			case "debug":
				return "\033[36m[DEBUG]\033[0m"
			case "info":
				return "\033[34m[INFO]\033[0m"
			case "warn":
				return "\033[33m[WARN]\033[0m"
			case "error":
				return "\033[31m[ERROR]\033[0m"
			case "fatal":
				return "\033[35m[FATAL]\033[0m"
			default:
				return fmt.Sprintf("[%s]", level)
			}
		},
	}

	// Production logs go to a collector that stamps its own time.
	var zl zerolog.Logger
	if production {
		zl = zerolog.New(writer).Level(levelFor(cfg.AppEnv))
	} else {
		writer.TimeFormat = "2006-01-02 15:04:05"
		zl = zerolog.New(writer).Level(levelFor(cfg.AppEnv)).With().Timestamp().Logger()
	}

	return &Logger{zl: zl, component: component}
}

func levelFor(env string) zerolog.Level {
	if level, ok := levels[env]; ok {
		return level
	}
	return zerolog.DebugLevel
}

// With returns a child logger carrying a fixed field, e.g. a job id.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger(), component: l.component}
}

func (l *Logger) Debug() *zerolog.Event   { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event    { return l.zl.Info() }
func (l *Logger) Success() *zerolog.Event { return l.zl.Info().Str("outcome", "success") }
func (l *Logger) Warn() *zerolog.Event    { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event   { return l.zl.Error() }

func (l *Logger) LogError(msg string, err error) {
	if err != nil {
		l.Error().Err(err).Msg(msg)
		return
	}
	l.Error().Msg(msg)
}

func (l *Logger) LogFatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}

func (l *Logger) LogDebugf(format string, v ...interface{})   { l.Debug().Msgf(format, v...) }
func (l *Logger) LogInfof(format string, v ...interface{})    { l.Info().Msgf(format, v...) }
func (l *Logger) LogSuccessf(format string, v ...interface{}) { l.Success().Msgf(format, v...) }
func (l *Logger) LogWarnf(format string, v ...interface{})    { l.Warn().Msgf(format, v...) }
func (l *Logger) LogErrorf(format string, v ...interface{})   { l.Error().Msgf(format, v...) }
