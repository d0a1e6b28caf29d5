// Package observability wires up the process-wide structured logger. It is
// intentionally tiny: one zap logger, built once from config, retrievable
// by every other package without threading a logger through every
// constructor.
package observability

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig is the decoded shape of the logging section of the on-disk
// configuration.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name"`

	// LogFile, if set, additionally tees every log entry to a rotated
	// file via lumberjack, independent of Format (the file encoding is
	// always JSON, matching the teacher's own file-sink convention).
	LogFile    string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

// InitializeLogger builds the process logger from cfg and installs it as
// the global. It never returns an error; a malformed level or format
// degrades to sane defaults rather than aborting startup over a logging
// misconfiguration.
func InitializeLogger(cfg LoggerConfig) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			level = zapcore.InfoLevel
		}
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoder := zapcore.NewJSONEncoder(encoderCfg)
	if cfg.Format == "console" || cfg.Format == "" {
		consoleEncoder = zapcore.NewConsoleEncoder(encoderCfg)
	}
	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), atomicLevel)}

	if cfg.LogFile != "" {
		fileEncoder := zapcore.NewJSONEncoder(encoderCfg)
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, atomicLevel))
	}

	l := zap.New(zapcore.NewTee(cores...))
	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}

	mu.Lock()
	logger = l
	mu.Unlock()
}

// GetLogger returns the process logger, initializing a no-op fallback on
// first use if InitializeLogger was never called (e.g. in tests that
// import a package transitively depending on this one).
func GetLogger() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}
