// Package errors provides error handling for axigen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnknownTerm) {
//	    // handle undeclared term
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Error combination
var (
	CombineErrors = crdb.CombineErrors
)

// Assertions and panics
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across axigen.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrUnknownTerm indicates a taxonomy query named a term the knowledge
	// base never declares
	ErrUnknownTerm = New("unknown term")

	// ErrCacheConflict indicates the taxonomy cache's single-writer-wins
	// invariant was violated. Unreachable by construction; if observed it is
	// an internal consistency failure, not a recoverable condition.
	ErrCacheConflict = New("taxonomy cache extension conflict")

	// ErrArtifactWrite indicates committing a dialect's output file failed
	ErrArtifactWrite = New("artifact write failed")

	// ErrRunCancelled indicates a generation run was cancelled before commit
	ErrRunCancelled = New("run cancelled")

	// ErrRunActive indicates a dialect run was started while already running
	ErrRunActive = New("run already active")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsUnknownTerm checks if an error is or wraps ErrUnknownTerm.
func IsUnknownTerm(err error) bool {
	return err != nil && Is(err, ErrUnknownTerm)
}
