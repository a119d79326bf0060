// Package preprocess infers minimal type-restriction guards for formulas
// prior to dialect translation.
//
// For every quantified (or free) variable, the preprocessor collects the
// candidate types implied by the variable's use as a relation argument,
// eliminates candidates dominated by a more specific candidate, and injects
// instance guards for the surviving antichain. The output is a new derived
// formula; the input is never modified.
package preprocess

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
)

// Preprocessor attaches type guards using a taxonomy snapshot. It holds no
// per-formula state; one instance is safely shared by concurrent workers,
// each call carrying its own working state end-to-end.
type Preprocessor struct {
	cache  *taxonomy.Cache
	logger *zap.SugaredLogger
}

// New returns a Preprocessor over the given taxonomy snapshot.
func New(cache *taxonomy.Cache, log *zap.SugaredLogger) *Preprocessor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Preprocessor{cache: cache, logger: log}
}

// Preprocess returns a structurally equivalent formula with minimal,
// non-redundant type guards attached to each variable. Variables with no
// inferable type are left unconstrained; that is not an error.
//
// The result is deterministic: identical input and taxonomy state always
// produce the identical guard set regardless of processing order or thread.
func (p *Preprocessor) Preprocess(f *kif.Formula) *kif.Formula {
	types := p.VariableTypes(f)
	if len(types) == 0 {
		return f
	}

	bound := make(map[string]bool)
	root := p.rewrite(f.Root, types, bound)

	// Free variables are implicitly universal; guard them at the top.
	var free []string
	for _, v := range f.Root.Variables() {
		if !bound[v] && len(types[v]) > 0 {
			free = append(free, v)
		}
	}
	if len(free) > 0 {
		if guard := guardConjunction(free, types); guard != nil {
			root = kif.NewList(kif.NewAtom(kif.Implies), guard, root)
		}
	}

	if root.Equal(f.Root) {
		return f
	}
	return f.Derive(root)
}

// rewrite walks the tree injecting guards at each quantifier node. bound
// accumulates every variable some quantifier binds, so the caller can tell
// which variables remain free.
func (p *Preprocessor) rewrite(t *kif.Term, types map[string][]string, bound map[string]bool) *kif.Term {
	if t.IsAtom() {
		return t
	}

	head := t.Head()
	if kif.IsQuantifier(head) && t.Arity() == 2 {
		varList := t.Args()[0]
		body := p.rewrite(t.Args()[1], types, bound)

		var guarded []string
		for _, v := range varList.List {
			if v.IsVariable() {
				bound[v.Atom] = true
				if len(types[v.Atom]) > 0 {
					guarded = append(guarded, v.Atom)
				}
			}
		}
		if len(guarded) > 0 {
			guard := guardConjunction(guarded, types)
			if head == kif.Forall {
				body = kif.NewList(kif.NewAtom(kif.Implies), guard, body)
			} else {
				body = kif.NewList(kif.NewAtom(kif.And), guard, body)
			}
		}
		return kif.NewList(t.List[0], varList, body)
	}

	list := make([]*kif.Term, len(t.List))
	for i, sub := range t.List {
		list[i] = p.rewrite(sub, types, bound)
	}
	return kif.NewList(list...)
}

// guardConjunction builds the guard term for the given variables, in
// first-appearance order, types sorted per variable. Subclass-marked types
// guard with a subclass literal, the rest with an instance literal.
func guardConjunction(vars []string, types map[string][]string) *kif.Term {
	var guards []*kif.Term
	for _, v := range vars {
		for _, typ := range types[v] {
			base, sub := taxonomy.BaseType(typ)
			pred := kif.Instance
			if sub {
				pred = kif.Subclass
			}
			guards = append(guards, kif.NewList(
				kif.NewAtom(pred), kif.NewAtom(v), kif.NewAtom(base)))
		}
	}
	switch len(guards) {
	case 0:
		return nil
	case 1:
		return guards[0]
	default:
		return kif.NewList(append([]*kif.Term{kif.NewAtom(kif.And)}, guards...)...)
	}
}

// VariableTypes returns, for each variable in the formula, the maximal
// antichain of most-specific candidate types implied by the variable's
// argument positions. The map is sorted per variable for determinism.
func (p *Preprocessor) VariableTypes(f *kif.Formula) map[string][]string {
	candidates := make(map[string]map[string]bool)
	p.collect(f.Root, candidates)

	out := make(map[string][]string, len(candidates))
	for v, set := range candidates {
		kept := p.mostSpecific(set)
		if len(kept) > 0 {
			out[v] = kept
		}
	}
	return out
}

// collect gathers candidate types from every relation-argument position a
// variable occupies.
func (p *Preprocessor) collect(t *kif.Term, candidates map[string]map[string]bool) {
	if t.IsAtom() {
		return
	}

	head := t.Head()

	// Instance and subclass literals are type assertions about their first
	// argument, independent of any declared signature.
	if (head == kif.Instance || head == kif.Subclass) && t.Arity() == 2 {
		v, class := t.Args()[0], t.Args()[1]
		if v.IsVariable() && class.IsAtom() && !class.IsVariable() {
			typ := class.Atom
			if head == kif.Subclass {
				typ += taxonomy.SubclassMark
			}
			set, ok := candidates[v.Atom]
			if !ok {
				set = make(map[string]bool)
				candidates[v.Atom] = set
			}
			set[typ] = true
		}
	}

	if head != "" && !kif.IsLogicalOperator(head) {
		sig := p.signatureFor(head, t.Arity())
		for i, arg := range t.Args() {
			if !arg.IsVariable() || i >= len(sig) || sig[i] == "" {
				continue
			}
			set, ok := candidates[arg.Atom]
			if !ok {
				set = make(map[string]bool)
				candidates[arg.Atom] = set
			}
			set[sig[i]] = true
		}
	}

	for _, sub := range t.List {
		p.collect(sub, candidates)
	}
}

// signatureFor resolves the signature for a use site, extending
// variable-arity relations on demand.
func (p *Preprocessor) signatureFor(relation string, arity int) []string {
	sig := p.cache.SignatureOf(relation)
	if p.cache.IsVariableArity(relation) && arity > len(sig) {
		extended, err := p.cache.ExtendVariableArity(relation, arity)
		if err == nil {
			return extended
		}
	}
	return sig
}

// mostSpecific performs dominated-type elimination: any candidate that is a
// taxonomic ancestor of another candidate is dropped. Instance and subclass
// restrictions are distinct guard kinds, so elimination runs within each
// kind separately; one never dominates the other.
func (p *Preprocessor) mostSpecific(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}

	instances := make(map[string]bool)
	subclasses := make(map[string]bool)
	for c := range set {
		if base, sub := taxonomy.BaseType(c); sub {
			subclasses[base] = true
		} else {
			instances[base] = true
		}
	}

	kept := p.eliminateDominated(instances)
	for _, c := range p.eliminateDominated(subclasses) {
		kept = append(kept, c+taxonomy.SubclassMark)
	}
	sort.Strings(kept)
	return kept
}

// eliminateDominated sorts candidates by depth (deepest first, ties by
// name) and scans once; each candidate is checked against the kept set via
// O(1) ancestor lookups, avoiding the all-pairs comparison that would be
// quadratic in the candidate count.
func (p *Preprocessor) eliminateDominated(set map[string]bool) []string {
	cands := make([]string, 0, len(set))
	for c := range set {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool {
		di := p.cache.Depth(cands[i], taxonomy.KindSubclass)
		dj := p.cache.Depth(cands[j], taxonomy.KindSubclass)
		if di != dj {
			return di > dj
		}
		return cands[i] < cands[j]
	})

	var kept []string
	for _, c := range cands {
		dominated := false
		for _, k := range kept {
			// A shallower candidate is dominated iff it is an ancestor of
			// something already kept. The depth ordering guarantees kept
			// entries are never ancestors of later candidates.
			if p.cache.HasAncestor(k, c, taxonomy.KindSubclass) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, c)
		}
	}
	sort.Strings(kept)
	return kept
}
