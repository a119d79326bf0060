// Package pipeline orchestrates translation runs: it fans formulas out to a
// bounded worker pool per dialect, collects results in deterministic input
// order, merges them single-threaded, and commits each dialect's artifact
// atomically.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/preprocess"
	"github.com/ontokit/axigen/sym"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
	"github.com/ontokit/axigen/trans/thf"
)

// Options configures a generation run.
type Options struct {
	// KBName names the knowledge base; artifact files and axiom identifiers
	// derive from it.
	KBName string

	// OutputDir receives one artifact file per dialect.
	OutputDir string

	// Workers bounds the pool shared by all concurrently running dialects.
	// Zero means available hardware parallelism.
	Workers int

	// JobTimeout, when positive, abandons any single formula's job after
	// the duration and records a timeout skip for it.
	JobTimeout time.Duration

	// ClosedWorld appends generated closed-world-assumption axioms to the
	// input before fan-out.
	ClosedWorld bool

	// Timing enables per-stage instrumentation in the run report. Output
	// content is identical either way.
	Timing bool
}

// Orchestrator drives generation runs. Dialects run as independent state
// machines; their only coordination point is the shared worker budget.
type Orchestrator struct {
	opts        Options
	cache       *taxonomy.Cache
	pre         *preprocess.Preprocessor
	transCache  *trans.Cache
	translators []trans.Translator

	sem    *semaphore.Weighted
	states *stateMachine
	logger *zap.SugaredLogger
}

// New builds an orchestrator over a taxonomy snapshot and translator set.
func New(cache *taxonomy.Cache, transCache *trans.Cache, translators []trans.Translator, opts Options, log *zap.SugaredLogger) *Orchestrator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.KBName == "" {
		opts.KBName = "kb"
	}
	return &Orchestrator{
		opts:        opts,
		cache:       cache,
		pre:         preprocess.New(cache, log),
		transCache:  transCache,
		translators: translators,
		sem:         semaphore.NewWeighted(int64(opts.Workers)),
		states:      newStateMachine(),
		logger:      log,
	}
}

// State returns the current run state for a dialect.
func (o *Orchestrator) State(d trans.Dialect) State {
	return o.states.get(d)
}

// Run generates every configured dialect concurrently over the same input.
// A failure in one dialect never aborts the others; the returned error
// aggregates per-dialect failures.
func (o *Orchestrator) Run(ctx context.Context, formulas []*kif.Formula) ([]*Report, error) {
	reports := make([]*Report, len(o.translators))
	errs := make([]error, len(o.translators))

	done := make(chan int, len(o.translators))
	for i, tr := range o.translators {
		go func(i int, tr trans.Translator) {
			reports[i], errs[i] = o.RunDialect(ctx, tr, formulas)
			done <- i
		}(i, tr)
	}
	for range o.translators {
		<-done
	}

	var err error
	for _, e := range errs {
		err = errors.CombineErrors(err, e)
	}
	return reports, err
}

// RunDialect executes one dialect's full run: Idle → Running → Committed,
// or Failed on artifact-write failure or cancellation. Individual formula
// failures are diagnostics in the report, never run failures.
func (o *Orchestrator) RunDialect(ctx context.Context, tr trans.Translator, formulas []*kif.Formula) (_ *Report, err error) {
	d := tr.Dialect()
	if startErr := o.states.start(d); startErr != nil {
		return nil, startErr
	}
	defer func() {
		o.states.finish(d, err != nil)
	}()

	report := &Report{RunID: uuid.NewString(), Dialect: d}

	input := formulas
	if o.opts.ClosedWorld {
		input = make([]*kif.Formula, 0, len(formulas))
		input = append(input, formulas...)
		input = append(input, closedWorldAxioms(o.cache)...)
	}
	report.Total = len(input)

	o.logger.Infow(symFor(d)+" Fan-out started",
		"run_id", report.RunID,
		"dialect", d,
		"formulas", report.Total,
		"workers", o.opts.Workers,
	)

	// Entries restored from a persisted snapshot serve matching formulas
	// without retranslation; the partition is then rebuilt from this run
	// alone, so removed formulas never linger in the cache.
	cached := make(map[string]trans.Entry, len(input))
	for _, f := range input {
		if e, ok := o.transCache.Get(f.ID, d); ok {
			cached[f.ID] = e
		}
	}
	o.transCache.Clear(d)

	results, err := o.prepare(ctx, input, cached)
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Wrapf(errors.ErrRunCancelled, "dialect %s", d)
		}
		return nil, err
	}
	for _, jr := range results {
		if jr.pre == nil {
			report.CacheHits++
		}
	}

	// Higher-order well-formedness verdicts are settled on the preprocessed
	// trees before fan-out, so translation only ever reads the memo.
	if ct, ok := tr.(interface{ Classifier() *thf.Classifier }); ok {
		for _, jr := range results {
			if jr.pre != nil {
				ct.Classifier().Classify(jr.pre)
			}
		}
	}

	if err = o.fanOut(ctx, tr, results); err != nil {
		if ctx.Err() != nil {
			err = errors.Wrapf(errors.ErrRunCancelled, "dialect %s", d)
		}
		return nil, err
	}

	writeStart := time.Now()
	data := merge(d, o.opts.KBName, results, o.transCache, report)
	path := filepath.Join(o.opts.OutputDir, fmt.Sprintf("%s.%s", o.opts.KBName, d))
	if err = writeArtifact(path, data); err != nil {
		return nil, err
	}
	report.Artifact = path

	if o.opts.Timing {
		report.Timing = collectTiming(results, time.Since(writeStart))
	}

	o.logger.Infow(symFor(d)+" Run committed",
		"run_id", report.RunID,
		"dialect", d,
		"emitted", report.Emitted,
		"skipped", report.Skipped,
		"artifact", path,
	)
	return report, nil
}

// symFor returns the stage glyph for a dialect's log lines.
func symFor(d trans.Dialect) string {
	switch d {
	case trans.DialectTFF:
		return sym.TFF
	case trans.DialectTHF, trans.DialectTHFModal:
		return sym.THF
	default:
		return sym.FOF
	}
}

func collectTiming(results []*jobResult, write time.Duration) *Timing {
	t := &Timing{Write: write}
	slow := make([]SlowFormula, 0, len(results))
	for _, jr := range results {
		t.Preprocess += jr.preDur
		t.Translate += jr.transDur
		slow = append(slow, SlowFormula{
			FormulaID: jr.formula.ID,
			Duration:  jr.preDur + jr.transDur,
		})
	}
	t.Slowest = rankSlowest(slow)
	return t
}
