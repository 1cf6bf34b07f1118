package logger

import (
	"go-pipeline/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the application logger plus the ring writer that keeps the
// most recent entries available for the debug endpoint.
func NewLogger(cfg *config.Config) (*zap.Logger, *RingWriter, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}

	// 2. Create the ring writer
	ring := NewRingWriter(256)

	// 3. Wrap the Core
	// We replace the logger's core with our "Tee" core (sends to both console
	// and the ring buffer)
	finalCore := NewRingCore(baseLogger.Core(), ring)

	// 4. Return new Logger with AddCaller enabled
	return zap.New(finalCore, zap.AddCaller()), ring, nil
}
