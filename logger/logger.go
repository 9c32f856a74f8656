// Package logger holds the process wide zap logger. Everything is written to
// modfinder.log so the terminal stays free for command output and the TUI.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFileName = "modfinder.log"
	levelEnv    = "MODFINDER_LOG_LEVEL"
)

var (
	Log       *zap.SugaredLogger
	ZapLogger *zap.Logger
)

func init() {
	// Usable before InitLogger, e.g. from tests
	Log = zap.NewNop().Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "T",
		LevelKey:         "L",
		NameKey:          "N",
		CallerKey:        "",
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "M",
		StacktraceKey:    "S",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration:   zapcore.SecondsDurationEncoder,
		ConsoleSeparator: "  ",
	}
}

// parseLevel maps a level name such as "debug" to a zap level. Empty means info.
func parseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zap.InfoLevel, nil
	}
	return zapcore.ParseLevel(name)
}

// New builds a console formatted logger writing entries at level and above to w.
func New(w zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), w, level)
	return zap.New(core)
}

// InitLogger points Log at modfinder.log. The level comes from
// MODFINDER_LOG_LEVEL and defaults to info.
func InitLogger() {
	level, levelErr := parseLevel(os.Getenv(levelEnv))

	logFile, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't open log file %s: %v\n", logFileName, err)
		os.Exit(1)
	}

	ZapLogger = New(zapcore.AddSync(logFile), level)
	Log = ZapLogger.Sugar()
	if levelErr != nil {
		Log.Warnw("Ignoring invalid log level", zap.String("env", levelEnv), zap.Error(levelErr))
	}
	Log.Infow("Logger initialized", zap.String("file", logFileName), zap.Stringer("level", level))
}

func Sync() {
	if ZapLogger != nil {
		_ = ZapLogger.Sync() // flushes buffer, if any
	}
}
