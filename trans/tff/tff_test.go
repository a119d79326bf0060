package tff

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/preprocess"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

const sortKB = `
(subclass Dog Mammal)
(subclass Mammal Animal)
(instance Fido Dog)

(instance likes Relation)
(domain likes 1 Animal)
(domain likes 2 Animal)

(instance AgeFn Function)
(domain AgeFn 1 Animal)
(range AgeFn Quantity)

(instance classOf BinaryPredicate)
(domain classOf 1 Animal)
(domainSubclass classOf 2 Mammal)
`

func buildCache(t *testing.T) *taxonomy.Cache {
	t.Helper()
	formulas, err := kif.ReadString(sortKB, "sorts.kif")
	require.NoError(t, err)
	return taxonomy.Build(formulas, nil)
}

func parse(t *testing.T, src string) *kif.Formula {
	t.Helper()
	formulas, err := kif.ReadString(src, "t.kif")
	require.NoError(t, err)
	require.Len(t, formulas, 1)
	return formulas[0]
}

func TestSortGuardUsesMostSpecificType(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(forall (?X) (=> (instance ?X Dog) (instance ?X Mammal)))`)

	// Translation sees the preprocessed formula, as in the pipeline.
	pre := preprocess.New(cache, nil).Preprocess(f)
	res := New().Translate(pre, cache)

	require.True(t, res.Emitted())
	assert.Contains(t, res.Text, "! [V__X: s__Dog]",
		"binder sort must be the most specific type, not Mammal")
	assert.NotContains(t, res.Text, "V__X: s__Mammal")
}

func TestSignatureDeclarationsEmitted(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(forall (?A ?B) (likes ?A ?B))`)
	pre := preprocess.New(cache, nil).Preprocess(f)

	res := New().Translate(pre, cache)
	require.True(t, res.Emitted())

	joined := strings.Join(res.Aux, "\n")
	assert.Contains(t, joined, "tff(s__likes_sig,type,(s__likes: (s__Animal * s__Animal) > $o)).")
	assert.Contains(t, joined, "tff(s__Animal_tp,type,(s__Animal: $tType)).")
	assert.True(t, sort.StringsAreSorted(res.Aux), "aux declarations are sorted")
}

func TestUnresolvedSortFallsBack(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(forall (?Z) (mystery ?Z))`)

	res := New().Translate(f, cache)
	require.True(t, res.Emitted())
	assert.Contains(t, res.Text, "! [V__Z: $i]")

	var warned bool
	for _, d := range res.Diagnostics {
		if d.Kind == trans.DiagUnresolvedType {
			warned = true
		}
	}
	assert.True(t, warned, "fallback to $i carries a warning diagnostic")
}

func TestFunctionRangeDeclaration(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(equal (AgeFn Fido) 7)`)

	res := New().Translate(f, cache)
	require.True(t, res.Emitted())
	assert.Contains(t, strings.Join(res.Aux, "\n"),
		"tff(s__AgeFn_sig,type,(s__AgeFn: (s__Animal) > s__Quantity)).")
}

func TestSubclassGuardedVariableStaysIndividualSort(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(forall (?X ?C) (classOf ?X ?C))`)
	pre := preprocess.New(cache, nil).Preprocess(f)

	res := New().Translate(pre, cache)
	require.True(t, res.Emitted())
	assert.Contains(t, res.Text, "V__X: s__Animal")
	assert.Contains(t, res.Text, "V__C: $i",
		"a class-valued variable ranges over the individual sort, not s__Mammal")

	for _, d := range res.Diagnostics {
		assert.NotContains(t, d.Message, "no sort for ?C",
			"a subclass guard resolves the binder; no fallback warning")
	}
	assert.Contains(t, strings.Join(res.Aux, "\n"),
		"tff(s__classOf_sig,type,(s__classOf: (s__Animal * $i) > $o)).")
}

func TestNumericLiteralsCarryBuiltinSorts(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(equal (AgeFn Fido) 7)`)

	res := New().Translate(f, cache)
	require.True(t, res.Emitted())
	assert.Contains(t, res.Text, "( s__AgeFn(s__Fido) = 7 )")
	for _, decl := range res.Aux {
		assert.NotContains(t, decl, "7",
			"literals carry the built-in arithmetic sorts, never a declaration")
	}
}

func TestNormalizeCollapsesDoubleNegation(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(not (not (instance Fido Dog)))`)

	out, converged := normalize(f.Root, cache)
	assert.True(t, converged)
	assert.Equal(t, "(instance Fido Dog)", out.String())
}

func TestNormalizeCollapsesUnaryConjunction(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(and (instance Fido Dog))`)

	out, converged := normalize(f.Root, cache)
	assert.True(t, converged)
	assert.Equal(t, "(instance Fido Dog)", out.String())
}

func TestNormalizeConstrainsFunctionResultVariable(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(equal ?AGE (AgeFn Fido))`)

	out, converged := normalize(f.Root, cache)
	assert.True(t, converged)
	assert.Equal(t,
		"(and (equal ?AGE (AgeFn Fido)) (instance ?AGE Quantity))",
		out.String())

	// Idempotent: normalizing the result changes nothing.
	again, converged := normalize(out, cache)
	assert.True(t, converged)
	assert.True(t, again.Equal(out))
}

func TestNormalizeLeavesExistingGuardAlone(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(and (equal ?AGE (AgeFn Fido)) (instance ?AGE Quantity))`)

	out, converged := normalize(f.Root, cache)
	assert.True(t, converged)
	assert.True(t, out.Equal(f.Root), "a present guard is never duplicated")
}

func TestTranslateIsDeterministic(t *testing.T) {
	cache := buildCache(t)
	f := parse(t, `(forall (?A ?B) (=> (likes ?A ?B) (likes ?B ?A)))`)
	pre := preprocess.New(cache, nil).Preprocess(f)

	tr := New()
	first := tr.Translate(pre, cache)
	for i := 0; i < 5; i++ {
		next := tr.Translate(pre, cache)
		assert.Equal(t, first.Text, next.Text)
		assert.Equal(t, first.Aux, next.Aux)
	}
}
