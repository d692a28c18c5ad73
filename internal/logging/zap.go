package logging

import (
	"fmt"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/config"
	"go.uber.org/zap"
)

// New builds the process logger, tagged with the service name, and installs
// it as the zap global.
func New(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Log.Level, err)
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Log.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level

	log, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	log = log.With(zap.String("service", cfg.ServiceName))

	zap.ReplaceGlobals(log)
	return log, nil
}
