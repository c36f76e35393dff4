package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Field keys shared by log lines coming from the AI assistants.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// WithCommonFields returns a logger scoped to one AI provider and model.
// Blank values are left out, and a nil logger falls back to a no-op one so
// callers never have to nil-check before logging.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
