// Package trans defines the dialect-translation contract: pure translators
// from preprocessed formulas to prover-dialect text, the per-dialect result
// and diagnostic types they produce, and the dialect-partitioned memo cache.
package trans

import (
	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
)

// Dialect names a target prover syntax.
type Dialect string

const (
	DialectFOF      Dialect = "fof"
	DialectTFF      Dialect = "tff"
	DialectTHF      Dialect = "thf"
	DialectTHFModal Dialect = "thf-modal"
)

// Dialects lists every supported dialect in artifact-emission order.
var Dialects = []Dialect{DialectFOF, DialectTFF, DialectTHF, DialectTHFModal}

// Valid reports whether d names a supported dialect.
func (d Dialect) Valid() bool {
	for _, known := range Dialects {
		if d == known {
			return true
		}
	}
	return false
}

// Translator converts one preprocessed formula against a read-only taxonomy
// snapshot. Implementations are pure: same formula and snapshot, same
// result, and they write only to the returned Result.
type Translator interface {
	Dialect() Dialect
	Translate(f *kif.Formula, cache *taxonomy.Cache) *Result
}
