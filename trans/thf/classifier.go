package thf

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
)

// Usage is the higher-order well-formedness verdict for one formula.
type Usage struct {
	WellFormed bool
	Offender   string
	Reason     string
}

// Classifier decides, once per formula, whether the formula applies every
// operator within its declared signature. The verdict is memoized by
// formula identity under a single lock, so concurrent consumers of the same
// formula share one computation and later passes read the settled verdict.
type Classifier struct {
	cache *taxonomy.Cache

	mu           sync.Mutex
	memo         map[string]Usage
	computations atomic.Int64
}

// NewClassifier returns a classifier over the given taxonomy snapshot.
func NewClassifier(cache *taxonomy.Cache) *Classifier {
	return &Classifier{cache: cache, memo: make(map[string]Usage)}
}

// Classify returns the memoized verdict for f, computing it on first call.
func (c *Classifier) Classify(f *kif.Formula) Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.memo[f.ID]; ok {
		return u
	}
	c.computations.Add(1)
	u := c.classify(f.Root)
	c.memo[f.ID] = u
	return u
}

// Computations returns how many verdicts were actually computed, as
// opposed to served from the memo.
func (c *Classifier) Computations() int64 {
	return c.computations.Load()
}

// connectiveArity pins the fixed-arity logical operators. And/or are
// variadic and unchecked.
var connectiveArity = map[string]int{
	kif.Not:     1,
	kif.Implies: 2,
	kif.Iff:     2,
	kif.Equal:   2,
}

func (c *Classifier) classify(t *kif.Term) Usage {
	if t.IsAtom() {
		return Usage{WellFormed: true}
	}
	head := t.Head()
	arity := t.Arity()

	if want, ok := connectiveArity[head]; ok && arity != want {
		return Usage{
			Offender: head,
			Reason:   fmt.Sprintf("%s applied to %d arguments, wants %d", head, arity, want),
		}
	}

	if kif.IsQuantifier(head) {
		if arity != 2 {
			return Usage{Offender: head, Reason: "malformed quantifier"}
		}
		return c.classify(t.Args()[1])
	}

	if head != "" && !kif.IsLogicalOperator(head) {
		if v, ok := c.cache.ValenceOf(head); ok && !c.cache.IsVariableArity(head) && arity != v {
			return Usage{
				Offender: head,
				Reason:   fmt.Sprintf("%s applied to %d arguments outside its declared valence %d", head, arity, v),
			}
		}
	}

	for _, arg := range t.Args() {
		if u := c.classify(arg); !u.WellFormed {
			return u
		}
	}
	return Usage{WellFormed: true}
}
