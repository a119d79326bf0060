package taxonomy

import (
	"fmt"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/sym"
)

// ExtendVariableArity returns the signature for a variable-arity relation
// at a specific use-site arity, deriving and installing it on first demand.
//
// The operation is an atomic insert-if-absent: for any (relation, arity)
// key, exactly one derivation runs no matter how many workers discover the
// missing entry concurrently, and every caller observes the single winning
// value. The check-then-act race this replaces (check map, miss, compute,
// lock-and-insert) is exactly the historical failure mode; singleflight
// collapses concurrent misses into one computation and the committed map is
// never overwritten once a key is present.
func (c *Cache) ExtendVariableArity(relation string, arity int) ([]string, error) {
	if arity < 0 {
		return nil, errors.Newf("negative arity %d for %s", arity, relation)
	}
	key := fmt.Sprintf("%s/%d", relation, arity)

	// Fast path: already committed.
	c.mu.RLock()
	if sig, ok := c.extended[key]; ok {
		c.mu.RUnlock()
		return sig, nil
	}
	declared := c.declared[relation]
	c.mu.RUnlock()

	if !declared {
		return nil, errors.Wrapf(errors.ErrUnknownTerm, "extend_variable_arity(%s, %d)", relation, arity)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A previous winner may have committed between the fast path and
		// entering the group.
		c.mu.RLock()
		if sig, ok := c.extended[key]; ok {
			c.mu.RUnlock()
			return sig, nil
		}
		base := c.signatures[relation]
		c.mu.RUnlock()

		c.extendComputations.Add(1)
		derived := deriveSignature(base, arity)

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.extended[key]; ok {
			// Insert-if-absent: a committed value is never overwritten.
			// Derivation is deterministic, so a differing value means the
			// single-writer-wins invariant broke somewhere upstream.
			if !equalSignatures(existing, derived) {
				return nil, errors.Wrapf(errors.ErrCacheConflict,
					"key %s: committed %v, derived %v", key, existing, derived)
			}
			return existing, nil
		}
		c.extended[key] = derived
		c.logger.Debugw(sym.Tax+" Installed variable-arity signature",
			"relation", relation,
			"arity", arity,
		)
		return derived, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// deriveSignature adapts a base variable-arity declaration to a concrete
// arity by repeating the last declared argument type. With no base
// declaration at all, every position is unconstrained.
func deriveSignature(base []string, arity int) []string {
	sig := make([]string, arity)
	last := ""
	for i := 0; i < arity; i++ {
		if i < len(base) && base[i] != "" {
			last = base[i]
		}
		sig[i] = last
	}
	return sig
}

func equalSignatures(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
