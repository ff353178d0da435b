package utils

import (
	"log"
	"sync"

	"homely/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// GetLogger returns the process-wide zap logger, building it on first use.
// Production runs emit JSON at the configured level; everything else gets
// the colored development encoder at debug.
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		var cfg zap.Config
		if config.IsProduction() {
			cfg = zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(levelFromConfig())
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		built, err := cfg.Build()
		if err != nil {
			log.Fatalf("failed to build logger: %v", err)
		}
		logger = built
		zap.ReplaceGlobals(logger)
	})
	return logger
}

func levelFromConfig() zapcore.Level {
	var level zapcore.Level
	if err := level.Set(config.AppConfig.LogLevel); err != nil {
		return zapcore.InfoLevel
	}
	return level
}
