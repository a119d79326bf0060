package pipeline

import (
	"sort"
	"time"

	"github.com/ontokit/axigen/trans"
)

// slowestReported bounds the ranked slow-formula list in a report.
const slowestReported = 10

// SlowFormula is one entry in the ranked timing breakdown.
type SlowFormula struct {
	FormulaID string
	Duration  time.Duration
}

// Timing is the optional per-stage instrumentation for one run. Collecting
// it never alters artifact content.
type Timing struct {
	Preprocess time.Duration
	Translate  time.Duration
	Write      time.Duration
	Slowest    []SlowFormula
}

// Report is the primary observable result of one dialect's run: what was
// emitted, what was skipped and why, and where the time went.
type Report struct {
	RunID   string
	Dialect trans.Dialect

	// Total considered formulas. Emitted + Skipped == Total always holds;
	// deduplicated results count as skipped.
	Total        int
	Emitted      int
	Skipped      int
	Deduplicated int

	// CacheHits counts formulas served from a restored translation cache
	// instead of being preprocessed and translated this run.
	CacheHits int

	Diagnostics []trans.Diagnostic
	DiagCounts  map[trans.DiagKind]int

	Artifact string
	Timing   *Timing
}

func (r *Report) count(diags []trans.Diagnostic) {
	for _, d := range diags {
		if r.DiagCounts == nil {
			r.DiagCounts = make(map[trans.DiagKind]int)
		}
		r.DiagCounts[d.Kind]++
		r.Diagnostics = append(r.Diagnostics, d)
	}
}

// rankSlowest keeps the top entries by duration, ties broken by formula ID
// so the report itself is deterministic.
func rankSlowest(all []SlowFormula) []SlowFormula {
	sort.Slice(all, func(i, j int) bool {
		if all[i].Duration != all[j].Duration {
			return all[i].Duration > all[j].Duration
		}
		return all[i].FormulaID < all[j].FormulaID
	})
	if len(all) > slowestReported {
		all = all[:slowestReported]
	}
	return all
}
