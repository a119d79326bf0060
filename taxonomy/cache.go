// Package taxonomy maintains the transitively-closed, concurrently-readable
// type and relation cache derived from a knowledge base.
//
// The cache is built once when the knowledge base loads and is read-mostly
// for the lifetime of a generation run. The only mutation entry point during
// a run is ExtendVariableArity, which installs derived signatures for
// variable-arity relations with a single-computation, insert-if-absent
// guarantee: concurrent callers for the same key all observe one winning
// value and the derivation runs exactly once.
package taxonomy

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/kif"
)

// RelationKind selects which hierarchical relation a closure query walks.
type RelationKind string

const (
	KindSubclass     RelationKind = kif.Subclass
	KindSubrelation  RelationKind = kif.Subrelation
	KindSubAttribute RelationKind = kif.SubAttribute
)

// Kinds lists every closure-bearing relation kind.
var Kinds = []RelationKind{KindSubclass, KindSubrelation, KindSubAttribute}

// SubclassMark suffixes a signature type whose argument position demands a
// subclass of the type rather than an instance of it, following the
// SUO-KIF "+" convention for domainSubclass declarations.
const SubclassMark = "+"

// BaseType strips the subclass mark from a signature type, reporting
// whether the position is subclass-restricted.
func BaseType(typ string) (string, bool) {
	if strings.HasSuffix(typ, SubclassMark) {
		return strings.TrimSuffix(typ, SubclassMark), true
	}
	return typ, false
}

// Cache holds the precomputed taxonomy state. All closure, signature, and
// valence maps are complete once Build returns; readers never observe a
// partially computed closure. Variable-arity extensions are the only
// post-build writes and go through ExtendVariableArity exclusively.
type Cache struct {
	mu sync.RWMutex

	// Per-kind transitive closures. ancestors[k][t] is every term
	// reachable upward from t under k; descendants is the inverse.
	ancestors   map[RelationKind]map[string]map[string]bool
	descendants map[RelationKind]map[string]map[string]bool

	// Bidirectional instance membership.
	instanceOf map[string]map[string]bool
	instances  map[string]map[string]bool

	// Declared argument-type signatures (1-based positions packed into a
	// slice: signatures[r][i] is the type of argument i+1).
	signatures map[string][]string
	ranges     map[string]string
	valences   map[string]int

	// Symmetric disjointness declarations.
	disjoint map[string]map[string]bool

	// Categorized term sets. functions and predicates partition relations.
	relations  map[string]bool
	functions  map[string]bool
	predicates map[string]bool

	// Relations declared to take any number of arguments.
	variableArity map[string]bool

	// Every term the knowledge base mentions in a taxonomic position.
	declared map[string]bool

	// Lazy variable-arity extensions, keyed "relation/arity".
	group    singleflight.Group
	extended map[string][]string

	// Number of times an extension derivation actually ran. Observable so
	// tests can verify the single-computation guarantee.
	extendComputations atomic.Int64

	logger *zap.SugaredLogger
}

// ClosureOf returns the full transitive closure of term under kind: its
// ancestors and descendants combined. The result is a fresh set the caller
// may modify. Fails with ErrUnknownTerm if the term was never declared.
func (c *Cache) ClosureOf(term string, kind RelationKind) (map[string]bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.declared[term] {
		return nil, errors.Wrapf(errors.ErrUnknownTerm, "closure_of(%s, %s)", term, kind)
	}

	out := make(map[string]bool)
	for t := range c.ancestors[kind][term] {
		out[t] = true
	}
	for t := range c.descendants[kind][term] {
		out[t] = true
	}
	return out, nil
}

// HasAncestor reports whether anc is a strict ancestor of term under kind.
// O(1); safe for hot paths like dominated-type elimination.
func (c *Cache) HasAncestor(term, anc string, kind RelationKind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ancestors[kind][term][anc]
}

// Depth returns the number of strict ancestors of term under kind. Terms
// deeper in the taxonomy have more ancestors, so Depth orders candidates
// from most general (0) to most specific.
func (c *Cache) Depth(term string, kind RelationKind) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ancestors[kind][term])
}

// SignatureOf returns the declared ordered argument types of relation, or
// nil if the relation has no declared signature. Callers must treat the
// returned slice as read-only.
func (c *Cache) SignatureOf(relation string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.signatures[relation]
}

// RangeOf returns the declared result type of a function, or "".
func (c *Cache) RangeOf(fn string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ranges[fn]
}

// ValenceOf returns the declared arity of relation.
func (c *Cache) ValenceOf(relation string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.valences[relation]
	return v, ok
}

// InstanceOf returns the set of classes the individual directly or
// transitively belongs to (direct instance classes plus their subclass
// ancestors).
func (c *Cache) InstanceOf(individual string) map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool)
	for class := range c.instanceOf[individual] {
		out[class] = true
		for anc := range c.ancestors[KindSubclass][class] {
			out[anc] = true
		}
	}
	return out
}

// InstancesOf returns the declared direct instances of class, sorted for
// deterministic iteration.
func (c *Cache) InstancesOf(class string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.instances[class]))
	for i := range c.instances[class] {
		out = append(out, i)
	}
	sort.Strings(out)
	return out
}

// ClassesWithInstances returns every class with at least one declared
// direct instance, sorted. Closed-world axiom generation iterates this.
func (c *Cache) ClassesWithInstances() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.instances))
	for class, members := range c.instances {
		if len(members) > 0 {
			out = append(out, class)
		}
	}
	sort.Strings(out)
	return out
}

// DisjointWith returns the set of types declared mutually exclusive with t.
func (c *Cache) DisjointWith(t string) map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool, len(c.disjoint[t]))
	for d := range c.disjoint[t] {
		out[d] = true
	}
	return out
}

// IsRelation reports whether t is a relation-like term.
func (c *Cache) IsRelation(t string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.relations[t]
}

// IsFunction reports whether t is categorized as a function.
func (c *Cache) IsFunction(t string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.functions[t]
}

// IsPredicate reports whether t is categorized as a predicate.
func (c *Cache) IsPredicate(t string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.predicates[t]
}

// IsVariableArity reports whether relation is declared variable-arity.
func (c *Cache) IsVariableArity(relation string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.variableArity[relation]
}

// IsDeclared reports whether the knowledge base declares term at all.
func (c *Cache) IsDeclared(term string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.declared[term]
}

// Relations returns all relation-like terms, sorted.
func (c *Cache) Relations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.relations))
	for r := range c.relations {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// ExtendComputations returns how many variable-arity derivations actually
// ran. Under K concurrent ExtendVariableArity calls for one key this is 1.
func (c *Cache) ExtendComputations() int64 {
	return c.extendComputations.Load()
}
