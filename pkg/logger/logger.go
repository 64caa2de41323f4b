// Package logger builds the structured logger every IgniteDB subsystem is
// configured with.
package logger

import "go.uber.org/zap"

// New builds a production zap logger tagged with the given service name.
// Every log line from the returned *zap.SugaredLogger carries a "service"
// field with that name.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}

// NewDevelopment builds a human-readable logger for tests and local runs.
func NewDevelopment(service string) *zap.SugaredLogger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}
