// Package logger builds the application's zap logger.
package logger

import (
	"os"

	"hoaportal/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func levelFromString(l string, dev bool) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	if dev {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// New returns a development logger for local runs and a JSON logger otherwise.
func New(cfg config.Config) (*zap.Logger, error) {
	dev := cfg.LogDev || cfg.Environment == "development"
	lvl := levelFromString(cfg.LogLevel, dev)
	if dev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		return c.Build()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), lvl)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
