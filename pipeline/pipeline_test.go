package pipeline

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
	"github.com/ontokit/axigen/trans/fof"
	"github.com/ontokit/axigen/trans/tff"
	"github.com/ontokit/axigen/trans/thf"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const pipelineKB = `
(subclass Dog Mammal)
(subclass Mammal Animal)
(instance Fido Dog)
(instance Rex Dog)

(instance likes Relation)
(domain likes 1 Animal)
(domain likes 2 Animal)

(forall (?X) (=> (instance ?X Dog) (instance ?X Mammal)))
(forall (?X ?Y) (=> (likes ?X ?Y) (likes ?Y ?X)))
(likes Fido Rex)
(likes Fido Rex)
(forall (?P) (?P Fido))
`

func loadKB(t *testing.T) ([]*kif.Formula, *taxonomy.Cache) {
	t.Helper()
	formulas, err := kif.ReadString(pipelineKB, "pipeline.kif")
	require.NoError(t, err)
	return formulas, taxonomy.Build(formulas, nil)
}

func allTranslators(cache *taxonomy.Cache) []trans.Translator {
	classifier := thf.NewClassifier(cache)
	return []trans.Translator{
		fof.New(),
		tff.New(),
		thf.New(classifier, thf.Options{}),
		thf.New(classifier, thf.Options{Modal: true}),
	}
}

func newOrchestrator(cache *taxonomy.Cache, dir string, workers int, opts ...func(*Options)) *Orchestrator {
	o := Options{KBName: "testkb", OutputDir: dir, Workers: workers}
	for _, apply := range opts {
		apply(&o)
	}
	return New(cache, trans.NewCache(), allTranslators(cache), o, nil)
}

func TestArtifactsAreByteIdenticalAcrossPoolSizes(t *testing.T) {
	formulas, cache := loadKB(t)

	baseline := make(map[trans.Dialect][]byte)
	for _, workers := range []int{1, 2, 8, 32} {
		dir := t.TempDir()
		orch := newOrchestrator(cache, dir, workers)
		reports, err := orch.Run(context.Background(), formulas)
		require.NoError(t, err)

		for _, r := range reports {
			data, err := os.ReadFile(r.Artifact)
			require.NoError(t, err)
			if workers == 1 {
				baseline[r.Dialect] = data
				continue
			}
			assert.Equal(t, string(baseline[r.Dialect]), string(data),
				"%s artifact must not vary with %d workers", r.Dialect, workers)
		}
	}
}

func TestEmittedPlusSkippedEqualsTotal(t *testing.T) {
	formulas, cache := loadKB(t)
	orch := newOrchestrator(cache, t.TempDir(), 4)

	reports, err := orch.Run(context.Background(), formulas)
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, r.Total, r.Emitted+r.Skipped,
			"partition invariant for %s", r.Dialect)
		assert.Equal(t, len(formulas), r.Total)
	}
}

func TestDuplicateFormulasAreDeduplicated(t *testing.T) {
	formulas, cache := loadKB(t)
	orch := newOrchestrator(cache, t.TempDir(), 4)

	report, err := orch.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deduplicated, "(likes Fido Rex) appears twice")

	data, err := os.ReadFile(report.Artifact)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "s__likes(s__Fido,s__Rex)"))
}

func TestRerunIsIdempotent(t *testing.T) {
	formulas, cache := loadKB(t)
	dir := t.TempDir()
	orch := newOrchestrator(cache, dir, 4)

	first, err := orch.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	firstData, err := os.ReadFile(first.Artifact)
	require.NoError(t, err)

	second, err := orch.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second.Artifact)
	require.NoError(t, err)

	assert.Equal(t, first.Emitted, second.Emitted)
	assert.Equal(t, string(firstData), string(secondData))
}

func TestHigherOrderFormulaSkippedNotFatal(t *testing.T) {
	formulas, cache := loadKB(t)
	orch := newOrchestrator(cache, t.TempDir(), 4)

	report, err := orch.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	assert.Greater(t, report.DiagCounts[trans.DiagUnsupportedConstruct], 0)
	assert.Equal(t, StateCommitted, orch.State(trans.DialectFOF))
}

func TestCancelledRunCommitsNothing(t *testing.T) {
	formulas, cache := loadKB(t)
	dir := t.TempDir()
	orch := newOrchestrator(cache, dir, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.RunDialect(ctx, fof.New(), formulas)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRunCancelled))
	assert.Equal(t, StateFailed, orch.State(trans.DialectFOF))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial artifact after cancellation")
}

func TestTranslationCacheDialectIsolationAcrossRuns(t *testing.T) {
	formulas, cache := loadKB(t)
	tc := trans.NewCache()
	orch := New(cache, tc, allTranslators(cache),
		Options{KBName: "testkb", OutputDir: t.TempDir(), Workers: 4}, nil)

	_, err := orch.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	fofIDs := tc.FormulaIDs(trans.DialectFOF)
	require.NotEmpty(t, fofIDs)

	_, err = orch.RunDialect(context.Background(), tff.New(), formulas)
	require.NoError(t, err)
	assert.Equal(t, fofIDs, tc.FormulaIDs(trans.DialectFOF),
		"a tff run must not disturb fof entries")

	tc.Clear(trans.DialectTFF)
	assert.Equal(t, fofIDs, tc.FormulaIDs(trans.DialectFOF))
}

func TestClosedWorldAxiomsAppended(t *testing.T) {
	formulas, cache := loadKB(t)
	orch := newOrchestrator(cache, t.TempDir(), 4, func(o *Options) {
		o.ClosedWorld = true
	})

	report, err := orch.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	assert.Greater(t, report.Total, len(formulas))

	data, err := os.ReadFile(report.Artifact)
	require.NoError(t, err)
	assert.Contains(t, string(data), "( V__X = s__Fido ) | ( V__X = s__Rex )",
		"Dog instances are enumerated exhaustively")
}

func TestTimingInstrumentationDoesNotAlterOutput(t *testing.T) {
	formulas, cache := loadKB(t)

	plain := newOrchestrator(cache, t.TempDir(), 4)
	timed := newOrchestrator(cache, t.TempDir(), 4, func(o *Options) {
		o.Timing = true
	})

	p, err := plain.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	q, err := timed.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)

	pd, err := os.ReadFile(p.Artifact)
	require.NoError(t, err)
	qd, err := os.ReadFile(q.Artifact)
	require.NoError(t, err)

	assert.Equal(t, string(pd), string(qd))
	assert.Nil(t, p.Timing)
	require.NotNil(t, q.Timing)
	assert.LessOrEqual(t, len(q.Timing.Slowest), slowestReported)
}

func TestClassificationSettledOnPreprocessedTrees(t *testing.T) {
	formulas, cache := loadKB(t)
	classifier := thf.NewClassifier(cache)
	tr := thf.New(classifier, thf.Options{})
	orch := New(cache, trans.NewCache(), []trans.Translator{tr},
		Options{KBName: "testkb", OutputDir: t.TempDir(), Workers: 8}, nil)

	report, err := orch.RunDialect(context.Background(), tr, formulas)
	require.NoError(t, err)

	// Guard injection derives fresh formula identities; the prepass must
	// classify those, not the raw inputs, or every typed formula would be
	// classified a second time during fan-out.
	assert.LessOrEqual(t, classifier.Computations(), int64(report.Total),
		"at most one computation per considered formula")

	settled := classifier.Computations()
	rerun := New(cache, trans.NewCache(), []trans.Translator{tr},
		Options{KBName: "testkb", OutputDir: t.TempDir(), Workers: 8}, nil)
	_, err = rerun.RunDialect(context.Background(), tr, formulas)
	require.NoError(t, err)
	assert.Equal(t, settled, classifier.Computations(),
		"a rerun over the same input reads only settled verdicts")
}

// countingTranslator wraps a translator and counts Translate calls.
type countingTranslator struct {
	inner trans.Translator
	calls atomic.Int64
}

func (c *countingTranslator) Dialect() trans.Dialect { return c.inner.Dialect() }

func (c *countingTranslator) Translate(f *kif.Formula, cache *taxonomy.Cache) *trans.Result {
	c.calls.Add(1)
	return c.inner.Translate(f, cache)
}

func TestRestoredTranslationsServeWithoutRetranslation(t *testing.T) {
	formulas, cache := loadKB(t)
	tc := trans.NewCache()
	first := New(cache, tc, allTranslators(cache),
		Options{KBName: "testkb", OutputDir: t.TempDir(), Workers: 4}, nil)

	r1, err := first.RunDialect(context.Background(), fof.New(), formulas)
	require.NoError(t, err)
	assert.Equal(t, 0, r1.CacheHits)
	d1, err := os.ReadFile(r1.Artifact)
	require.NoError(t, err)

	restored := trans.FromSnapshot(tc.Export())
	second := New(cache, restored, allTranslators(cache),
		Options{KBName: "testkb", OutputDir: t.TempDir(), Workers: 4}, nil)
	ct := &countingTranslator{inner: fof.New()}

	r2, err := second.RunDialect(context.Background(), ct, formulas)
	require.NoError(t, err)
	assert.Greater(t, r2.CacheHits, 0)
	assert.Equal(t, int64(r2.Total-r2.CacheHits), ct.calls.Load(),
		"only cache misses reach the translator")

	d2, err := os.ReadFile(r2.Artifact)
	require.NoError(t, err)
	assert.Equal(t, string(d1), string(d2),
		"a cache-served run commits the identical artifact")
	assert.Equal(t, r1.Emitted, r2.Emitted)
}

// slowTranslator stalls long enough for a short per-job timeout to fire.
type slowTranslator struct{ delay time.Duration }

func (s *slowTranslator) Dialect() trans.Dialect { return trans.DialectFOF }

func (s *slowTranslator) Translate(f *kif.Formula, _ *taxonomy.Cache) *trans.Result {
	time.Sleep(s.delay)
	return &trans.Result{Text: f.ID}
}

func TestJobTimeoutDegradesToSkip(t *testing.T) {
	formulas, cache := loadKB(t)
	orch := newOrchestrator(cache, t.TempDir(), 2, func(o *Options) {
		o.JobTimeout = 10 * time.Millisecond
	})

	report, err := orch.RunDialect(context.Background(),
		&slowTranslator{delay: 300 * time.Millisecond}, formulas)
	require.NoError(t, err)

	assert.Equal(t, report.Total, report.Skipped)
	assert.Equal(t, 0, report.Emitted)
	assert.Equal(t, report.Total, report.DiagCounts[trans.DiagTimeout])

	// Let the abandoned workers drain before goleak inspects the process.
	time.Sleep(400 * time.Millisecond)
}

func TestStateMachineTransitions(t *testing.T) {
	s := newStateMachine()
	assert.Equal(t, StateIdle, s.get(trans.DialectFOF))

	require.NoError(t, s.start(trans.DialectFOF))
	assert.Equal(t, StateRunning, s.get(trans.DialectFOF))

	err := s.start(trans.DialectFOF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRunActive))

	s.finish(trans.DialectFOF, false)
	assert.Equal(t, StateCommitted, s.get(trans.DialectFOF))

	// A committed dialect may run again
	require.NoError(t, s.start(trans.DialectFOF))
	s.finish(trans.DialectFOF, true)
	assert.Equal(t, StateFailed, s.get(trans.DialectFOF))
}
