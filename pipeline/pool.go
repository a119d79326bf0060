package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/trans"
)

// jobResult carries one formula through the run: the original input
// formula, its preprocessed form, and the translation outcome. Results are
// stored at the formula's input index, so the merge walks them in input
// order no matter how the scheduler interleaved the jobs.
type jobResult struct {
	formula  *kif.Formula
	pre      *kif.Formula // nil when res was served from the translation cache
	res      *trans.Result
	preDur   time.Duration
	transDur time.Duration
}

// jobOutcome crosses the timeout boundary in runJob. The worker goroutine
// owns it exclusively until the send; after a timeout fires, the abandoned
// goroutine's eventual send lands in the buffered channel and is discarded
// with it.
type jobOutcome struct {
	res      *trans.Result
	transDur time.Duration
}

// prepare resolves each input formula into either a restored cache entry or
// its preprocessed form. Cache misses are preprocessed in parallel on the
// shared worker budget; the preprocessed trees are what the classification
// prepass and the translators later see, so every downstream verdict is
// keyed by the same derived identity.
func (o *Orchestrator) prepare(ctx context.Context, formulas []*kif.Formula, cached map[string]trans.Entry) ([]*jobResult, error) {
	results := make([]*jobResult, len(formulas))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formulas {
		i, f := i, f
		if e, ok := cached[f.ID]; ok {
			results[i] = &jobResult{formula: f, res: &trans.Result{Text: e.Text, Aux: e.Aux}}
			continue
		}
		g.Go(func() error {
			if err := o.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer o.sem.Release(1)

			jr := &jobResult{formula: f}
			start := time.Now()
			jr.pre = o.pre.Preprocess(f)
			jr.preDur = time.Since(start)
			results[i] = jr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fanOut translates every prepared job on the shared worker budget. Jobs
// already carrying a restored result are left untouched. Each job's only
// shared structures are the taxonomy cache (read-mostly) and its own slot
// in the results slice.
func (o *Orchestrator) fanOut(ctx context.Context, tr trans.Translator, results []*jobResult) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, jr := range results {
		jr := jr
		if jr.res != nil {
			continue
		}
		g.Go(func() error {
			if err := o.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer o.sem.Release(1)
			if err := ctx.Err(); err != nil {
				return err
			}
			o.runJob(ctx, tr, jr)
			return nil
		})
	}
	return g.Wait()
}

// runJob translates one preprocessed formula. A per-job timeout, when
// configured, degrades to a skip diagnostic for that formula rather than
// failing the run.
func (o *Orchestrator) runJob(ctx context.Context, tr trans.Translator, jr *jobResult) {
	work := func() jobOutcome {
		var out jobOutcome
		start := time.Now()
		out.res = tr.Translate(jr.pre, o.cache)
		out.transDur = time.Since(start)
		return out
	}

	if o.opts.JobTimeout <= 0 {
		out := work()
		jr.res, jr.transDur = out.res, out.transDur
		return
	}

	ch := make(chan jobOutcome, 1)
	go func() { ch <- work() }()

	timer := time.NewTimer(o.opts.JobTimeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		jr.res, jr.transDur = out.res, out.transDur
	case <-timer.C:
		res := &trans.Result{}
		res.Diagnostics = append(res.Diagnostics, trans.Diagnostic{
			Kind:      trans.DiagTimeout,
			FormulaID: jr.formula.ID,
			Message:   "job exceeded " + o.opts.JobTimeout.String(),
		})
		jr.res = res
	case <-ctx.Done():
		// Cancellation: the partial result is discarded with the run.
		jr.res = &trans.Result{}
	}
}
