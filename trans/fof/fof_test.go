package fof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

func parse(t *testing.T, src string) *kif.Formula {
	t.Helper()
	formulas, err := kif.ReadString(src, "t.kif")
	require.NoError(t, err)
	require.Len(t, formulas, 1)
	return formulas[0]
}

func emptyCache(t *testing.T) *taxonomy.Cache {
	t.Helper()
	return taxonomy.Build(nil, nil)
}

func TestTranslateGroundFact(t *testing.T) {
	res := New().Translate(parse(t, `(instance Fido Dog)`), emptyCache(t))
	require.True(t, res.Emitted())
	assert.Equal(t, "s__instance(s__Fido,s__Dog)", res.Text)
	assert.Empty(t, res.Diagnostics)
}

func TestTranslateQuantifiedRule(t *testing.T) {
	res := New().Translate(
		parse(t, `(forall (?X) (=> (instance ?X Dog) (instance ?X Mammal)))`),
		emptyCache(t))
	require.True(t, res.Emitted())
	assert.Equal(t,
		"! [V__X] : ( s__instance(V__X,s__Dog) => s__instance(V__X,s__Mammal) )",
		res.Text)
}

func TestTranslateConnectives(t *testing.T) {
	res := New().Translate(
		parse(t, `(exists (?X ?Y) (and (not (likes ?X ?Y)) (or (knows ?X ?Y) (equal ?X ?Y))))`),
		emptyCache(t))
	require.True(t, res.Emitted())
	assert.Equal(t,
		"? [V__X,V__Y] : ( ~ s__likes(V__X,V__Y) & ( s__knows(V__X,V__Y) | ( V__X = V__Y ) ) )",
		res.Text)
}

func TestHigherOrderFormulaIsSkipped(t *testing.T) {
	res := New().Translate(parse(t, `(forall (?P) (?P Fido))`), emptyCache(t))
	assert.False(t, res.Emitted())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, trans.DiagUnsupportedConstruct, res.Diagnostics[0].Kind)
}

func TestTranslateIsDeterministic(t *testing.T) {
	f := parse(t, `(forall (?X ?Y) (=> (likes ?X ?Y) (knows ?Y ?X)))`)
	c := emptyCache(t)
	tr := New()
	first := tr.Translate(f, c)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Text, tr.Translate(f, c).Text)
	}
}
