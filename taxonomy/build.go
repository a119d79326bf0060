package taxonomy

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/sym"
)

// Build scans the knowledge base's ground facts and produces a fully
// closed cache. The returned cache is complete: every closure reachable
// from a declared term is computed before Build returns, so readers never
// race against closure computation.
//
// Rebuilding after a knowledge-base reload means calling Build again and
// swapping the result; an existing cache is never patched in place.
func Build(formulas []*kif.Formula, log *zap.SugaredLogger) *Cache {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Cache{
		ancestors:     make(map[RelationKind]map[string]map[string]bool),
		descendants:   make(map[RelationKind]map[string]map[string]bool),
		instanceOf:    make(map[string]map[string]bool),
		instances:     make(map[string]map[string]bool),
		signatures:    make(map[string][]string),
		ranges:        make(map[string]string),
		valences:      make(map[string]int),
		disjoint:      make(map[string]map[string]bool),
		relations:     make(map[string]bool),
		functions:     make(map[string]bool),
		predicates:    make(map[string]bool),
		variableArity: make(map[string]bool),
		declared:      make(map[string]bool),
		extended:      make(map[string][]string),
		logger:        log,
	}

	parents := make(map[RelationKind]map[string]map[string]bool)
	for _, kind := range Kinds {
		parents[kind] = make(map[string]map[string]bool)
		c.ancestors[kind] = make(map[string]map[string]bool)
		c.descendants[kind] = make(map[string]map[string]bool)
	}

	for _, f := range formulas {
		c.observe(f.Root, parents)
	}

	for _, kind := range Kinds {
		c.close(kind, parents[kind])
	}
	c.categorize()
	c.reconcileValences()

	log.Infow(sym.Tax+" Taxonomy cache built",
		"terms", len(c.declared),
		"relations", len(c.relations),
		"signatures", len(c.signatures),
	)
	return c
}

// observe indexes one ground fact. Non-ground formulas (rules) carry no
// taxonomic declarations and are skipped.
func (c *Cache) observe(t *kif.Term, parents map[RelationKind]map[string]map[string]bool) {
	head := t.Head()
	args := t.Args()

	switch head {
	case kif.Subclass, kif.Subrelation, kif.SubAttribute:
		if len(args) == 2 && args[0].IsAtom() && args[1].IsAtom() {
			kind := RelationKind(head)
			child, parent := args[0].Atom, args[1].Atom
			addEdge(parents[kind], child, parent)
			c.declare(child, parent)
		}
	case kif.Instance:
		if len(args) == 2 && args[0].IsAtom() && args[1].IsAtom() {
			ind, class := args[0].Atom, args[1].Atom
			addEdge(c.instanceOf, ind, class)
			addEdge(c.instances, class, ind)
			c.declare(ind, class)
			if class == kif.VariableArityRelation {
				c.variableArity[ind] = true
			}
		}
	case kif.Domain, kif.DomainSubclass:
		if len(args) == 3 && args[0].IsAtom() && args[1].IsAtom() && args[2].IsAtom() {
			rel := args[0].Atom
			pos, err := strconv.Atoi(args[1].Atom)
			if err != nil || pos < 1 {
				return
			}
			typ := args[2].Atom
			c.declare(rel, typ)
			if head == kif.DomainSubclass {
				// The argument must be a subclass of the type, not an
				// instance; the mark keeps the two restrictions apart.
				typ += SubclassMark
			}
			sig := c.signatures[rel]
			for len(sig) < pos {
				sig = append(sig, "")
			}
			sig[pos-1] = typ
			c.signatures[rel] = sig
		}
	case kif.Range:
		if len(args) == 2 && args[0].IsAtom() && args[1].IsAtom() {
			c.ranges[args[0].Atom] = args[1].Atom
			c.declare(args[0].Atom, args[1].Atom)
		}
	case kif.Disjoint:
		if len(args) == 2 && args[0].IsAtom() && args[1].IsAtom() {
			a, b := args[0].Atom, args[1].Atom
			addEdge(c.disjoint, a, b)
			addEdge(c.disjoint, b, a)
			c.declare(a, b)
		}
	case kif.Valence:
		if len(args) == 2 && args[0].IsAtom() && args[1].IsAtom() {
			if v, err := strconv.Atoi(args[1].Atom); err == nil && v >= 0 {
				c.valences[args[0].Atom] = v
				c.declare(args[0].Atom)
			}
		}
	}
}

func (c *Cache) declare(terms ...string) {
	for _, t := range terms {
		c.declared[t] = true
	}
}

func addEdge(m map[string]map[string]bool, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(map[string]bool)
		m[from] = set
	}
	set[to] = true
}

// close computes the transitive closure for one relation kind from its
// direct-parent edges, memoizing upward reachability per term, then derives
// the descendant map as the inverse.
func (c *Cache) close(kind RelationKind, parents map[string]map[string]bool) {
	anc := c.ancestors[kind]
	for term := range parents {
		c.ancestorsOf(term, parents, anc, make(map[string]bool))
	}
	desc := c.descendants[kind]
	for term, set := range anc {
		for a := range set {
			addEdge(desc, a, term)
		}
	}
}

// ancestorsOf returns the memoized strict-ancestor set of term. The
// visiting set breaks declaration cycles (a cyclic subclass chain is a KB
// authoring error; closure still terminates and includes the cycle members).
func (c *Cache) ancestorsOf(term string, parents map[string]map[string]bool, memo map[string]map[string]bool, visiting map[string]bool) map[string]bool {
	if set, ok := memo[term]; ok {
		return set
	}
	if visiting[term] {
		return nil
	}
	visiting[term] = true

	set := make(map[string]bool)
	for p := range parents[term] {
		set[p] = true
		for a := range c.ancestorsOf(p, parents, memo, visiting) {
			set[a] = true
		}
	}
	delete(visiting, term)
	memo[term] = set
	return set
}

// categorize partitions relation-like terms into functions and predicates.
// A term is relation-like if it carries a signature, valence, or range, or
// is an instance of a Relation subclass. Functions are instances of
// Function descendants, carry a declared range, or follow the Fn naming
// convention; everything else relation-like is a predicate.
func (c *Cache) categorize() {
	for r := range c.signatures {
		c.relations[r] = true
	}
	for r := range c.valences {
		c.relations[r] = true
	}
	for r := range c.ranges {
		c.relations[r] = true
	}
	for ind, classes := range c.instanceOf {
		for class := range classes {
			if c.isClassOrSubclassOf(class, kif.RelationClass) {
				c.relations[ind] = true
			}
		}
	}

	for r := range c.relations {
		if c.looksLikeFunction(r) {
			c.functions[r] = true
		} else {
			c.predicates[r] = true
		}
	}
}

func (c *Cache) looksLikeFunction(r string) bool {
	if _, ok := c.ranges[r]; ok {
		return true
	}
	if strings.HasSuffix(r, "Fn") {
		return true
	}
	for class := range c.instanceOf[r] {
		if c.isClassOrSubclassOf(class, kif.FunctionClass) {
			return true
		}
	}
	return false
}

func (c *Cache) isClassOrSubclassOf(class, target string) bool {
	return class == target || c.ancestors[KindSubclass][class][target]
}

// reconcileValences fills missing valences from signature lengths and
// logs any declared valence that contradicts a declared signature. The
// signature wins; the invariant valence == len(signature) must hold
// whenever both are defined.
func (c *Cache) reconcileValences() {
	for rel, sig := range c.signatures {
		declared, ok := c.valences[rel]
		if !ok {
			c.valences[rel] = len(sig)
			continue
		}
		if declared != len(sig) && !c.variableArity[rel] {
			c.logger.Warnw(sym.Tax+" Valence contradicts signature, using signature length",
				"relation", rel,
				"declared_valence", declared,
				"signature_len", len(sig),
			)
			c.valences[rel] = len(sig)
		}
	}
}
