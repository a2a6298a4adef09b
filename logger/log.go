package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Init builds the global logger. Production config when ENV=production,
// development config otherwise.
func Init() {
	once.Do(func() {
		var err error
		if os.Getenv("ENV") == "production" {
			logger, err = zap.NewProduction()
		} else {
			logger, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
	})
}

// L returns the global logger, initializing it on first use.
func L() *zap.Logger {
	if logger == nil {
		Init()
	}
	return logger
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = L().Sync()
}

func Info(msg string, fields ...zapcore.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	L().Error(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	L().Fatal(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	L().Debug(msg, fields...)
}
