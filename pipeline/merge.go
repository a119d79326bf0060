package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ontokit/axigen/trans"
)

// axiomKeyword maps a dialect to its declaration keyword. The modal
// higher-order variant still emits thf declarations.
func axiomKeyword(d trans.Dialect) string {
	switch d {
	case trans.DialectTHF, trans.DialectTHFModal:
		return "thf"
	case trans.DialectTFF:
		return "tff"
	default:
		return "fof"
	}
}

// merge is the single sequential step of a run: it walks the ordered
// results, drops results whose rendered text duplicates an earlier one,
// assigns stable sequential axiom names, and renders the final artifact.
// All shared counters and dedup sets live only here, under one execution
// context; the fan-out phase never touches them.
func merge(dialect trans.Dialect, kbName string, results []*jobResult, cache *trans.Cache, report *Report) []byte {
	keyword := axiomKeyword(dialect)

	auxSeen := make(map[string]bool)
	var aux []string
	textSeen := make(map[string]bool)
	var axioms []string

	n := 0
	for _, jr := range results {
		report.count(jr.res.Diagnostics)
		if !jr.res.Emitted() {
			report.Skipped++
			continue
		}
		for _, decl := range jr.res.Aux {
			if !auxSeen[decl] {
				auxSeen[decl] = true
				aux = append(aux, decl)
			}
		}
		if textSeen[jr.res.Text] {
			report.Deduplicated++
			report.Skipped++
			continue
		}
		textSeen[jr.res.Text] = true

		axioms = append(axioms, fmt.Sprintf("%s(kb_%s_%d,axiom,(%s)).",
			keyword, kbName, n, jr.res.Text))
		n++
		report.Emitted++

		cache.Put(jr.formula.ID, dialect, trans.Entry{Text: jr.res.Text, Aux: jr.res.Aux})
	}
	sort.Strings(aux)

	var b strings.Builder
	fmt.Fprintf(&b, "%% %s, %s dialect\n", kbName, dialect)
	for _, decl := range aux {
		b.WriteString(decl)
		b.WriteByte('\n')
	}
	if len(aux) > 0 && len(axioms) > 0 {
		b.WriteByte('\n')
	}
	for _, ax := range axioms {
		b.WriteString(ax)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
