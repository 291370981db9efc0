// Package logger constructs the application logger used across the toolkit.
package logger

import (
	"go.uber.org/zap"
)

// New creates a production sugared logger tagged with the service name.
// Falls back to a no-op logger if construction fails so callers never
// receive a nil logger.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.DisableStacktrace = true

	log, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return log.Sugar().With("service", service)
}

// NewNop returns a logger that discards everything. Used as the default
// when a component is constructed without an explicit logger.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
