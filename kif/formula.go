package kif

import (
	"crypto/sha256"
	"encoding/hex"
)

// Formula is an immutable logical expression with a stable identity and
// source provenance. Identity is derived from the canonical textual form,
// so two formulas that render identically share an ID regardless of where
// they were loaded from.
type Formula struct {
	// Root of the term tree. Never mutated after construction.
	Root *Term

	// ID is the content-derived identity (hex-encoded truncated SHA-256
	// of the canonical form).
	ID string

	// SourceFile is the originating knowledge-base file, if any.
	SourceFile string

	// Line is the 1-based line the formula started on in SourceFile.
	Line int
}

// New constructs a Formula over a term tree, computing its identity.
func New(root *Term, sourceFile string, line int) *Formula {
	return &Formula{
		Root:       root,
		ID:         identityOf(root),
		SourceFile: sourceFile,
		Line:       line,
	}
}

// Derive constructs a Formula from a rewritten tree, keeping the original's
// provenance. Used by preprocessing and normalization passes: the derived
// tree gets its own content identity while still pointing back at the
// source assertion.
func (f *Formula) Derive(root *Term) *Formula {
	return New(root, f.SourceFile, f.Line)
}

// Canonical returns the canonical textual form.
func (f *Formula) Canonical() string {
	return f.Root.String()
}

// Equal reports structural equality of the underlying trees.
func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Root.Equal(other.Root)
}

func (f *Formula) String() string {
	return f.Canonical()
}

// identityOf hashes the canonical form. 16 hex chars is plenty for tens of
// thousands of axioms and keeps IDs readable in logs and diagnostics.
func identityOf(root *Term) string {
	sum := sha256.Sum256([]byte(root.String()))
	return hex.EncodeToString(sum[:])[:16]
}
