package taxonomy

import (
	"sort"

	"go.uber.org/zap"
)

// Snapshot is a deep-copied, deterministic export of a cache, suitable for
// handing to an external persistence mechanism. The cache itself treats the
// bytes-on-disk format as opaque; store implementations own serialization.
type Snapshot struct {
	// Basis identifies the knowledge-base state the snapshot was exported
	// against. Export leaves it empty; persisting callers stamp it and
	// restorers compare it before adopting the snapshot over a fresh build.
	Basis string

	Ancestors     map[RelationKind]map[string][]string
	InstanceOf    map[string][]string
	Signatures    map[string][]string
	Ranges        map[string]string
	Valences      map[string]int
	Disjoint      map[string][]string
	Functions     []string
	Predicates    []string
	VariableArity []string
	Declared      []string
	Extended      map[string][]string
}

// Export captures the full cache state. All sets are sorted so repeated
// exports of the same cache are byte-identical after serialization.
func (c *Cache) Export() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := &Snapshot{
		Ancestors:     make(map[RelationKind]map[string][]string, len(c.ancestors)),
		InstanceOf:    setMapToSorted(c.instanceOf),
		Signatures:    copySignatures(c.signatures),
		Ranges:        copyStringMap(c.ranges),
		Valences:      copyIntMap(c.valences),
		Disjoint:      setMapToSorted(c.disjoint),
		Functions:     setToSorted(c.functions),
		Predicates:    setToSorted(c.predicates),
		VariableArity: setToSorted(c.variableArity),
		Declared:      setToSorted(c.declared),
		Extended:      copySignatures(c.extended),
	}
	for kind, terms := range c.ancestors {
		s.Ancestors[kind] = setMapToSorted(terms)
	}
	return s
}

// FromSnapshot reconstructs a cache from an exported snapshot. Descendant
// closures and the relations set are rederived rather than persisted, since
// they are pure inverses of what the snapshot already carries.
func FromSnapshot(s *Snapshot, log *zap.SugaredLogger) *Cache {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Cache{
		ancestors:     make(map[RelationKind]map[string]map[string]bool),
		descendants:   make(map[RelationKind]map[string]map[string]bool),
		instanceOf:    sortedToSetMap(s.InstanceOf),
		instances:     make(map[string]map[string]bool),
		signatures:    copySignatures(s.Signatures),
		ranges:        copyStringMap(s.Ranges),
		valences:      copyIntMap(s.Valences),
		disjoint:      sortedToSetMap(s.Disjoint),
		relations:     make(map[string]bool),
		functions:     sortedToSet(s.Functions),
		predicates:    sortedToSet(s.Predicates),
		variableArity: sortedToSet(s.VariableArity),
		declared:      sortedToSet(s.Declared),
		extended:      copySignatures(s.Extended),
		logger:        log,
	}

	for _, kind := range Kinds {
		c.ancestors[kind] = make(map[string]map[string]bool)
		c.descendants[kind] = make(map[string]map[string]bool)
	}
	for kind, terms := range s.Ancestors {
		c.ancestors[kind] = sortedToSetMap(terms)
		for term, ancs := range c.ancestors[kind] {
			for a := range ancs {
				addEdge(c.descendants[kind], a, term)
			}
		}
	}
	for ind, classes := range c.instanceOf {
		for class := range classes {
			addEdge(c.instances, class, ind)
		}
	}
	for f := range c.functions {
		c.relations[f] = true
	}
	for p := range c.predicates {
		c.relations[p] = true
	}
	return c
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedToSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, k := range list {
		out[k] = true
	}
	return out
}

func setMapToSorted(m map[string]map[string]bool) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, set := range m {
		out[k] = setToSorted(set)
	}
	return out
}

func sortedToSetMap(m map[string][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(m))
	for k, list := range m {
		out[k] = sortedToSet(list)
	}
	return out
}

func copySignatures(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, sig := range m {
		cp := make([]string, len(sig))
		copy(cp, sig)
		out[k] = cp
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
