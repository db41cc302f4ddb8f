package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Debug bool
}

// NewLogger creates a JSON production logger, or a console logger at debug
// level when Debug is set.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	var c zap.Config
	if cfg.Debug {
		c = zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		c = zap.NewProductionConfig()
		c.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// stdout carries command output
	c.OutputPaths = []string{"stderr"}
	c.ErrorOutputPaths = []string{"stderr"}

	return c.Build()
}
