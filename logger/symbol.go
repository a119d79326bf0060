package logger

import (
	"github.com/ontokit/axigen/sym"
)

// Symbol-aware logging helpers.
// These functions log with the symbol as a structured field, not in the message.
//
// Usage:
//
//	// Instead of:
//	logger.Infow(sym.Run + " Fan-out started", "dialect", d)
//
//	// Use:
//	logger.RunInfow("Fan-out started", "dialect", d)
//
// This makes logs queryable by symbol and keeps messages clean.

// RunInfow logs an info message with the Run symbol (꩜)
func RunInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Run}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// RunWarnw logs a warning message with the Run symbol (꩜)
func RunWarnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Run}, keysAndValues...)
		Logger.Warnw(msg, fields...)
	}
}

// RunErrorw logs an error message with the Run symbol (꩜)
func RunErrorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Run}, keysAndValues...)
		Logger.Errorw(msg, fields...)
	}
}

// RunOpenInfow logs an info message with the RunOpen symbol (✿)
// Used when a dialect's fan-out starts
func RunOpenInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.RunOpen}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// RunCloseInfow logs an info message with the RunClose symbol (❀)
// Used when a dialect's run commits or fails
func RunCloseInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.RunClose}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// TaxDebugw logs a debug message with the Tax symbol (⊑)
func TaxDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Tax}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// DBInfow logs an info message with the DB symbol (⊔)
func DBInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// WatchInfow logs an info message with the Watch symbol (✦)
func WatchInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Watch}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}
