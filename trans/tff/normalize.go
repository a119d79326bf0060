package tff

import (
	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
)

// maxNormalizeIterations caps the fixed-point loop. The bound is a policy:
// a formula still changing at the cap keeps its last state and gets a
// non-convergence diagnostic instead of being discarded.
const maxNormalizeIterations = 5

// normalize drives the rewrite passes to a fixed point. Convergence is
// detected by structural equality of successive trees; rendered-text
// comparison would both mask oscillation and force re-rendering every
// round. Returns the final tree and whether the loop converged.
func normalize(root *kif.Term, cache *taxonomy.Cache) (*kif.Term, bool) {
	cur := root
	for i := 0; i < maxNormalizeIterations; i++ {
		next := step(cur, cur, cache)
		if next.Equal(cur) {
			return cur, true
		}
		cur = next
	}
	final := step(cur, cur, cache)
	return cur, final.Equal(cur)
}

// step applies one round of every rewrite to the tree. root is the full
// formula, used for the containment checks that keep guard injection
// idempotent.
func step(t, root *kif.Term, cache *taxonomy.Cache) *kif.Term {
	if t.IsAtom() {
		return t
	}

	head := t.Head()
	args := t.Args()

	// Double negation.
	if head == kif.Not && len(args) == 1 {
		inner := args[0]
		if inner.IsList() && inner.Head() == kif.Not && inner.Arity() == 1 {
			return step(inner.Args()[0], root, cache)
		}
	}

	// Single-operand conjunction or disjunction collapses to its operand.
	if (head == kif.And || head == kif.Or) && len(args) == 1 {
		return step(args[0], root, cache)
	}

	// An equation binding a variable to a function application constrains
	// the variable to the function's range. Skipped when the guard already
	// appears anywhere in the formula, which makes the rewrite idempotent.
	if head == kif.Equal && len(args) == 2 {
		if guard := rangeGuard(args[0], args[1], root, cache); guard != nil {
			return kif.NewList(kif.NewAtom(kif.And), t, guard)
		}
		if guard := rangeGuard(args[1], args[0], root, cache); guard != nil {
			return kif.NewList(kif.NewAtom(kif.And), t, guard)
		}
	}

	list := make([]*kif.Term, len(t.List))
	for i, sub := range t.List {
		list[i] = step(sub, root, cache)
	}
	out := kif.NewList(list...)
	if out.Equal(t) {
		return t
	}
	return out
}

// rangeGuard returns the instance guard implied by `v = (fn ...)`, or nil
// when no new constraint applies.
func rangeGuard(v, application, root *kif.Term, cache *taxonomy.Cache) *kif.Term {
	if !v.IsVariable() || !application.IsList() {
		return nil
	}
	rng := cache.RangeOf(application.Head())
	if rng == "" {
		return nil
	}
	guard := kif.NewList(kif.NewAtom(kif.Instance), kif.NewAtom(v.Atom), kif.NewAtom(rng))
	if contains(root, guard) {
		return nil
	}
	return guard
}

func contains(t, target *kif.Term) bool {
	found := false
	t.Walk(func(sub *kif.Term) {
		if !found && sub.Equal(target) {
			found = true
		}
	})
	return found
}
