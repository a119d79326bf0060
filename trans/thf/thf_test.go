package thf

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

const hoKB = `
(subclass Dog Mammal)
(instance Fido Dog)

(instance likes Relation)
(domain likes 1 Animal)
(domain likes 2 Animal)

(instance AgeFn Function)
(domain AgeFn 1 Animal)
(range AgeFn Quantity)
`

func buildCache(t *testing.T) *taxonomy.Cache {
	t.Helper()
	formulas, err := kif.ReadString(hoKB, "ho.kif")
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

func TestCurriedApplication(t *testing.T) {
	cache := buildCache(t)
	tr := New(NewClassifier(cache), Options{})

	res := tr.Translate(parse(t, `(likes Fido Fido)`), cache)
	require.True(t, res.Emitted())
	assert.Equal(t, "( s__likes @ s__Fido @ s__Fido )", res.Text)
	assert.Contains(t, strings.Join(res.Aux, "\n"),
		"thf(s__likes_tp,type,(s__likes: ($i > $i > $o))).")
}

func TestFunctionTypeDeclaration(t *testing.T) {
	cache := buildCache(t)
	tr := New(NewClassifier(cache), Options{})

	res := tr.Translate(parse(t, `(equal (AgeFn Fido) ?AGE)`), cache)
	require.True(t, res.Emitted())
	assert.Contains(t, strings.Join(res.Aux, "\n"),
		"thf(s__AgeFn_tp,type,(s__AgeFn: ($i > $i))).")
}

func TestQuantifiedFormula(t *testing.T) {
	cache := buildCache(t)
	tr := New(NewClassifier(cache), Options{})

	res := tr.Translate(
		parse(t, `(forall (?X) (=> (instance ?X Dog) (instance ?X Mammal)))`), cache)
	require.True(t, res.Emitted())
	assert.Equal(t,
		"! [V__X: $i] : ( ( ( s__instance @ V__X @ s__Dog ) => ( s__instance @ V__X @ s__Mammal ) ) )",
		res.Text)
}

func TestBadUsageIsSkipped(t *testing.T) {
	cache := buildCache(t)
	tr := New(NewClassifier(cache), Options{})

	// likes has declared valence 2; applying it to three arguments is a
	// usage outside its signature.
	res := tr.Translate(parse(t, `(likes Fido Fido Fido)`), cache)
	assert.False(t, res.Emitted())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, trans.DiagUnsupportedConstruct, res.Diagnostics[0].Kind)
	assert.Contains(t, res.Diagnostics[0].Message, "bad usage")
}

func TestClassificationComputedOncePerFormula(t *testing.T) {
	cache := buildCache(t)
	c := NewClassifier(cache)
	f := parse(t, `(likes Fido Fido)`)

	const consumers = 32
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := c.Classify(f)
			assert.True(t, u.WellFormed)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), c.Computations())
}

func TestModalVariantWrapsAndDeclares(t *testing.T) {
	cache := buildCache(t)
	classifier := NewClassifier(cache)
	plain := New(classifier, Options{})
	modal := New(classifier, Options{Modal: true})

	f := parse(t, `(instance Fido Dog)`)
	p := plain.Translate(f, cache)
	m := modal.Translate(f, cache)

	assert.Equal(t, trans.DialectTHF, plain.Dialect())
	assert.Equal(t, trans.DialectTHFModal, modal.Dialect())
	assert.Equal(t, "( mvalid @ ( "+p.Text+" ) )", m.Text)
	assert.Contains(t, strings.Join(m.Aux, "\n"), "thf(mvalid_tp,type,(mvalid: ($o > $o))).")
	assert.NotContains(t, strings.Join(p.Aux, "\n"), "mvalid")

	// Both variants share one classification
	assert.Equal(t, int64(1), classifier.Computations())
}
