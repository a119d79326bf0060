package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across axigen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldFormulaID = "formula_id"
	FieldDialect   = "dialect"
	FieldKB        = "kb"

	// Components
	FieldComponent = "component"
	FieldStage     = "stage"

	// Operations
	FieldOperation = "operation"
	FieldTerm      = "term"
	FieldRelation  = "relation"
	FieldArity     = "arity"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors and diagnostics
	FieldError    = "error"
	FieldDiagKind = "diag_kind"

	// Counts and sizes
	FieldCount   = "count"
	FieldEmitted = "emitted"
	FieldSkipped = "skipped"
	FieldWorkers = "workers"

	// Status
	FieldState = "state"

	// Files and paths
	FieldFile = "file"
	FieldLine = "line"
	FieldPath = "path"

	// Symbol decoration (⊑, ꩜, ⊕, etc.)
	FieldSymbol = "symbol"
)

// Context keys for propagating logging context
type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	dialectKey   contextKey = "logger_dialect"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a generation-run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithDialect adds a dialect name to the context for logging
func WithDialect(ctx context.Context, dialect string) context.Context {
	return context.WithValue(ctx, dialectKey, dialect)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if dialect, ok := ctx.Value(dialectKey).(string); ok && dialect != "" {
		fields = append(fields, FieldDialect, dialect)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
// Use this to get a logger that automatically includes run_id, dialect, etc.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Orchestrator struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewOrchestrator() *Orchestrator {
//	    return &Orchestrator{
//	        logger: logger.ComponentLogger("pipeline"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	dialectLogger := logger.ChildLogger(baseLogger, "dialect", d)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
