package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled    bool
	LogFullSQL bool   // include query variables in spans
	DBSystem   string // "postgresql" or "sqlite"
}

// RegisterDBTracing installs the otelgorm plugin and a callback that marks
// failed statements on the current span. ErrRecordNotFound is not a failure.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	markErr := func(tx *gorm.DB) {
		if tx.Error == nil || errors.Is(tx.Error, gorm.ErrRecordNotFound) || tx.Statement.Context == nil {
			return
		}
		RecordError(trace.SpanFromContext(tx.Statement.Context), tx.Error)
	}
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("backoffice:trace_create", markErr); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("backoffice:trace_query", markErr); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("backoffice:trace_update", markErr); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("backoffice:trace_delete", markErr); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.String("db_system", cfg.DBSystem),
	)
	return nil
}
