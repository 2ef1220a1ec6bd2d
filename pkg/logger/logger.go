package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable in development, JSON
// elsewhere.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
