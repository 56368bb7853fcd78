// Package debuglog is the process-wide leveled logger. It is off until Setup
// is called, so the TUI never writes over the terminal bubbletea owns.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel, defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		// Above every level zap emits through Sugar.
		return zapcore.FatalLevel + 1
	}
}

// Options configures Configure.
type Options struct {
	Level LogLevel
	// File is the log file; empty means ~/.rssview/rssview.log.
	File string
	// Console also writes to stderr.
	Console bool
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	atomicLevel  = zap.NewAtomicLevelAt(LevelOff.zapLevel())
	sugar        = zap.NewNop().Sugar()
	rotator      *lumberjack.Logger
)

// Setup logs to a rotating file at level. If filePath is empty, defaults to
// ~/.rssview/rssview.log.
func Setup(level LogLevel, filePath ...string) error {
	opts := Options{Level: level}
	if len(filePath) > 0 {
		opts.File = filePath[0]
	}
	return Configure(opts)
}

// Configure replaces the process logger.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = opts.Level
	atomicLevel.SetLevel(opts.Level.zapLevel())

	if opts.Level == LevelOff {
		sugar = zap.NewNop().Sugar()
		return nil
	}

	logPath := opts.File
	if logPath == "" {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".rssview", "rssview.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    16, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}

	var out io.Writer = rotator
	if opts.Console {
		out = io.MultiWriter(os.Stderr, rotator)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(out),
		atomicLevel,
	)
	sugar = zap.New(core).Named("rssview").Sugar()
	return nil
}

// SetupWithBool maps a plain on/off switch onto INFO or OFF.
func SetupWithBool(enabled bool) {
	if enabled {
		_ = Setup(LevelInfo)
	} else {
		_ = Setup(LevelOff)
	}
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	atomicLevel.SetLevel(level.zapLevel())
}

func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close flushes and closes the log file if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeLocked()
	sugar = zap.NewNop().Sugar()
	return err
}

func closeLocked() error {
	_ = sugar.Sync()
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debugf(format string, args ...any) { logger().Debugf(format, args...) }
func Infof(format string, args ...any)  { logger().Infof(format, args...) }
func Warnf(format string, args ...any)  { logger().Warnf(format, args...) }
func Errorf(format string, args ...any) { logger().Errorf(format, args...) }

// FieldLogger attaches structured key-value fields to every message.
type FieldLogger struct {
	fields map[string]interface{}
}

func WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{fields: fields}
}

func (fl *FieldLogger) with() *zap.SugaredLogger {
	keys := make([]string, 0, len(fl.fields))
	for k := range fl.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fl.fields[k])
	}
	return logger().With(args...)
}

func (fl *FieldLogger) Debugf(format string, args ...any) { fl.with().Debugf(format, args...) }
func (fl *FieldLogger) Infof(format string, args ...any)  { fl.with().Infof(format, args...) }
func (fl *FieldLogger) Warnf(format string, args ...any)  { fl.with().Warnf(format, args...) }
func (fl *FieldLogger) Errorf(format string, args ...any) { fl.with().Errorf(format, args...) }
