package pipeline

import (
	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
)

// cwaSource is the provenance recorded on generated closed-world axioms.
const cwaSource = "closed-world"

// closedWorldAxioms derives one exhaustiveness axiom per class with
// declared instances: anything that is an instance of the class equals one
// of its known members. Classes and members iterate in sorted order so the
// generated formulas, and therefore the final artifact, are deterministic.
func closedWorldAxioms(cache *taxonomy.Cache) []*kif.Formula {
	var out []*kif.Formula
	for _, class := range cache.ClassesWithInstances() {
		members := cache.InstancesOf(class)

		v := kif.NewAtom("?X")
		var membership *kif.Term
		if len(members) == 1 {
			membership = kif.NewList(kif.NewAtom(kif.Equal), v, kif.NewAtom(members[0]))
		} else {
			disjuncts := make([]*kif.Term, 0, len(members)+1)
			disjuncts = append(disjuncts, kif.NewAtom(kif.Or))
			for _, m := range members {
				disjuncts = append(disjuncts,
					kif.NewList(kif.NewAtom(kif.Equal), v, kif.NewAtom(m)))
			}
			membership = kif.NewList(disjuncts...)
		}

		root := kif.NewList(
			kif.NewAtom(kif.Forall),
			kif.NewList(kif.NewAtom("?X")),
			kif.NewList(
				kif.NewAtom(kif.Implies),
				kif.NewList(kif.NewAtom(kif.Instance), v, kif.NewAtom(class)),
				membership,
			),
		)
		out = append(out, kif.New(root, cwaSource, 0))
	}
	return out
}
