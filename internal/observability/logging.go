// Package observability builds the process logger.
package observability

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/spellbook/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Output goes to stderr so the CLI can keep stdout for battle log lines.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger named "spellbook" or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("spellbook"), nil
}

// ForEntity returns a child logger tagged with the operation and the
// entity's id and type.
func ForEntity(logger *zap.Logger, op string, e core.Entity) *zap.Logger {
	return logger.With(
		zap.String("op", op),
		zap.String("entity_type", e.GetType()),
		zap.String("entity_id", e.GetID()),
	)
}
