// Package logging builds the zap loggers used by the escrow node.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation controls log file rotation. Zero fields take the defaults.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps three 100 MB files for up to four weeks.
var DefaultRotation = Rotation{MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28, Compress: true}

// ParseLevel converts a level name to a zap level. "warning" is accepted as
// an alias of "warn".
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
}

// New returns a JSON logger at level writing to file, or to stderr when file
// is empty.
func New(level, file string) (*zap.Logger, error) {
	return NewWithRotation(level, file, DefaultRotation)
}

// NewWithRotation is New with explicit rotation settings for file output.
func NewWithRotation(level, file string, rot Rotation) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var sink zapcore.WriteSyncer
	if file == "" {
		sink = zapcore.Lock(os.Stderr)
	} else {
		sink = zapcore.AddSync(rotatingFile(file, rot))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), sink, zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller()), nil
}

func rotatingFile(file string, rot Rotation) *lumberjack.Logger {
	if rot.MaxSizeMB == 0 {
		rot.MaxSizeMB = DefaultRotation.MaxSizeMB
	}
	if rot.MaxBackups == 0 {
		rot.MaxBackups = DefaultRotation.MaxBackups
	}
	if rot.MaxAgeDays == 0 {
		rot.MaxAgeDays = DefaultRotation.MaxAgeDays
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.CallerKey = "caller"
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.MessageKey = "message"
	return cfg
}
