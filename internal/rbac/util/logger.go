package util

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	Logger *zap.SugaredLogger
)

// InitLogger builds the process logger. output is "stdout" or "stderr".
func InitLogger(level, output string) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.AddSync(os.Stdout)
	if output == "stderr" {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, parseLevel(level))
	l := zap.New(core, zap.AddCaller()).Sugar()

	mu.Lock()
	Logger = l
	mu.Unlock()
}

func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	l := Logger
	mu.RUnlock()
	if l == nil {
		InitLogger("info", "stdout")
		mu.RLock()
		l = Logger
		mu.RUnlock()
	}
	return l
}

// SetLogger replaces the process logger, mainly for tests.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	Logger = l
	mu.Unlock()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
