package kif

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, src string) []*Formula {
	t.Helper()
	formulas, err := ReadString(src, "inline")
	require.NoError(t, err)
	return formulas
}

func TestReadSimpleAssertions(t *testing.T) {
	formulas := mustRead(t, `
(instance Fido Dog)
(subclass Dog Mammal)
`)
	require.Len(t, formulas, 2)
	assert.Equal(t, "(instance Fido Dog)", formulas[0].Canonical())
	assert.Equal(t, "(subclass Dog Mammal)", formulas[1].Canonical())
	assert.Equal(t, 2, formulas[0].Line)
}

func TestReadNestedFormula(t *testing.T) {
	formulas := mustRead(t, "(forall (?X) (=> (instance ?X Dog) (instance ?X Mammal)))")
	require.Len(t, formulas, 1)

	f := formulas[0]
	assert.Equal(t, Forall, f.Root.Head())
	require.Equal(t, 2, f.Root.Arity())

	body := f.Root.Args()[1]
	assert.Equal(t, Implies, body.Head())
	assert.Equal(t, "(forall (?X) (=> (instance ?X Dog) (instance ?X Mammal)))", f.Canonical())
}

func TestReadSkipsCommentsAndWhitespace(t *testing.T) {
	formulas := mustRead(t, `
; a header comment
(instance Fido Dog) ; trailing comment

;; another
(subclass   Dog
            Mammal)
`)
	require.Len(t, formulas, 2)
	// Canonical form normalizes internal whitespace
	assert.Equal(t, "(subclass Dog Mammal)", formulas[1].Canonical())
}

func TestReadQuotedStrings(t *testing.T) {
	formulas := mustRead(t, `(documentation Dog EnglishLanguage "A domesticated (canine) animal.")`)
	require.Len(t, formulas, 1)
	args := formulas[0].Root.Args()
	require.Len(t, args, 3)
	assert.Equal(t, `"A domesticated (canine) animal."`, args[2].Atom)
}

func TestReadUnbalancedParens(t *testing.T) {
	_, err := ReadString("(instance Fido Dog", "bad.kif")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrorKindSyntax, pe.Kind)
	assert.Equal(t, "bad.kif", pe.File)
	assert.Contains(t, pe.Error(), "bad.kif:1")
}

func TestReadStrayClosingParen(t *testing.T) {
	_, err := ReadString("(instance Fido Dog))", "bad.kif")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrorKindSyntax, pe.Kind)
}

func TestReadTopLevelAtomRejected(t *testing.T) {
	_, err := ReadString("Dog", "bad.kif")
	require.Error(t, err)
}

func TestIdentityIsContentDerived(t *testing.T) {
	a := mustRead(t, "(instance Fido Dog)")[0]
	b := mustRead(t, "(instance   Fido   Dog)")[0]
	c := mustRead(t, "(instance Rex Dog)")[0]

	assert.Equal(t, a.ID, b.ID, "identical canonical forms share identity")
	assert.NotEqual(t, a.ID, c.ID)
	assert.Len(t, a.ID, 16)
}

func TestStructuralEquality(t *testing.T) {
	a := mustRead(t, "(=> (instance ?X Dog) (instance ?X Mammal))")[0]
	b := mustRead(t, "(=> (instance ?X Dog) (instance ?X Mammal))")[0]
	c := mustRead(t, "(=> (instance ?X Dog) (instance ?X Animal))")[0]

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	// Cross-check the hand-rolled Equal against go-cmp
	assert.True(t, cmp.Equal(a.Root, b.Root))
	assert.False(t, cmp.Equal(a.Root, c.Root))
}

func TestVariables(t *testing.T) {
	f := mustRead(t, "(forall (?X ?Y) (=> (likes ?X ?Y) (knows ?Y ?X)))")[0]
	assert.Equal(t, []string{"?X", "?Y"}, f.Root.Variables())
}

func TestRowVariable(t *testing.T) {
	f := mustRead(t, "(=> (greaterThan @ROW) (lessThan @ROW))")[0]
	row := f.Root.Args()[0].Args()[0]
	assert.True(t, row.IsRowVariable())
	assert.False(t, row.IsVariable())
}

func TestCloneIsDeepAndEqual(t *testing.T) {
	f := mustRead(t, "(=> (instance ?X Dog) (instance ?X Mammal))")[0]
	clone := f.Root.Clone()
	require.True(t, f.Root.Equal(clone))

	// Mutating the clone must not affect the original
	clone.List[0].Atom = "<=>"
	assert.False(t, f.Root.Equal(clone))
	assert.Equal(t, Implies, f.Root.Head())
}

func TestDeriveKeepsProvenance(t *testing.T) {
	f := mustRead(t, "(instance Fido Dog)")[0]
	derived := f.Derive(NewList(NewAtom(Not), f.Root.Clone()))
	assert.Equal(t, f.SourceFile, derived.SourceFile)
	assert.Equal(t, f.Line, derived.Line)
	assert.NotEqual(t, f.ID, derived.ID)
}

func TestOperatorPredicates(t *testing.T) {
	assert.True(t, IsLogicalOperator(And))
	assert.True(t, IsLogicalOperator(Forall))
	assert.False(t, IsLogicalOperator(Instance))
	assert.True(t, IsQuantifier(Exists))
	assert.False(t, IsQuantifier(And))
	assert.True(t, IsVariable("?X"))
	assert.False(t, IsVariable("Dog"))
}
