// Package kif provides the in-memory representation of SUO-KIF logic
// formulas: immutable term trees with stable content-derived identities,
// canonical rendering, and a small reader for knowledge-base files.
//
// Formulas are never mutated after creation. Every transformation in the
// translation pipeline produces a new tree and keys derived data by the
// formula's identity.
package kif

import "strings"

// Term is a node of a formula tree: either an atom (constant, variable,
// number, or quoted string) or a list of sub-terms.
type Term struct {
	// Atom holds the token text for leaf nodes. Empty for lists.
	Atom string

	// List holds the ordered sub-terms for list nodes. Nil for atoms.
	List []*Term
}

// NewAtom returns an atom term.
func NewAtom(text string) *Term {
	return &Term{Atom: text}
}

// NewList returns a list term over the given sub-terms.
func NewList(args ...*Term) *Term {
	if args == nil {
		args = []*Term{}
	}
	return &Term{List: args}
}

// IsAtom reports whether the term is a leaf.
func (t *Term) IsAtom() bool {
	return t != nil && t.List == nil
}

// IsList reports whether the term is a list.
func (t *Term) IsList() bool {
	return t != nil && t.List != nil
}

// IsVariable reports whether the term is a regular variable (?X).
func (t *Term) IsVariable() bool {
	return t.IsAtom() && strings.HasPrefix(t.Atom, "?")
}

// IsRowVariable reports whether the term is a row variable (@ROW), which
// expands to an arbitrary number of arguments at use sites.
func (t *Term) IsRowVariable() bool {
	return t.IsAtom() && strings.HasPrefix(t.Atom, "@")
}

// Head returns the operator atom of a list term, or "" if the term is not
// a list or its first element is not an atom.
func (t *Term) Head() string {
	if !t.IsList() || len(t.List) == 0 || !t.List[0].IsAtom() {
		return ""
	}
	return t.List[0].Atom
}

// Args returns the argument sub-terms of a list term (everything after the
// operator). Nil for atoms and empty lists.
func (t *Term) Args() []*Term {
	if !t.IsList() || len(t.List) == 0 {
		return nil
	}
	return t.List[1:]
}

// Arity returns the number of arguments of a list term.
func (t *Term) Arity() int {
	return len(t.Args())
}

// Equal reports structural equality of two term trees. This is the
// convergence check used by fixed-point normalization passes; comparing
// rendered text instead would both mask non-convergence and force
// re-rendering on every iteration.
func (t *Term) Equal(other *Term) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.List == nil && other.List == nil {
		return t.Atom == other.Atom
	}
	if t.List == nil || other.List == nil {
		return false
	}
	if len(t.List) != len(other.List) {
		return false
	}
	for i := range t.List {
		if !t.List[i].Equal(other.List[i]) {
			return false
		}
	}
	return true
}

// String renders the canonical textual form: atoms verbatim, lists
// parenthesized with single spaces. Identical trees always render to
// identical text, which is what formula identity is derived from.
func (t *Term) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

func (t *Term) render(sb *strings.Builder) {
	if t == nil {
		return
	}
	if t.IsAtom() {
		sb.WriteString(t.Atom)
		return
	}
	sb.WriteByte('(')
	for i, sub := range t.List {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sub.render(sb)
	}
	sb.WriteByte(')')
}

// Variables returns the distinct regular variables appearing anywhere in
// the tree, in first-appearance order.
func (t *Term) Variables() []string {
	var out []string
	seen := make(map[string]bool)
	t.walk(func(n *Term) {
		if n.IsVariable() && !seen[n.Atom] {
			seen[n.Atom] = true
			out = append(out, n.Atom)
		}
	})
	return out
}

// walk visits every node in depth-first, left-to-right order.
func (t *Term) walk(visit func(*Term)) {
	if t == nil {
		return
	}
	visit(t)
	for _, sub := range t.List {
		sub.walk(visit)
	}
}

// Walk visits every node in depth-first, left-to-right order.
func (t *Term) Walk(visit func(*Term)) {
	t.walk(visit)
}

// Clone returns a deep copy of the tree. Used by rewrite passes that
// derive a new tree from an existing one.
func (t *Term) Clone() *Term {
	if t == nil {
		return nil
	}
	if t.IsAtom() {
		return &Term{Atom: t.Atom}
	}
	list := make([]*Term, len(t.List))
	for i, sub := range t.List {
		list[i] = sub.Clone()
	}
	return &Term{List: list}
}
