package trans

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ontokit/axigen/kif"
)

// TermPrefix is prepended to every knowledge-base constant so emitted names
// can never collide with prover builtins.
const TermPrefix = "s__"

// TermName renders a knowledge-base atom as a prover-safe constant name.
// Numeric literals pass through untouched.
func TermName(atom string) string {
	if IsNumeric(atom) {
		return atom
	}
	var b strings.Builder
	b.WriteString(TermPrefix)
	for _, r := range atom {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// VarName renders a `?X`-style variable as an uppercase prover variable.
func VarName(v string) string {
	name := strings.TrimLeft(v, "?@")
	if name == "" {
		return "V"
	}
	name = strings.ReplaceAll(name, "-", "_")
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return "V__" + string(r)
}

// IsNumeric reports whether the atom is an integer or decimal literal.
func IsNumeric(atom string) bool {
	if atom == "" {
		return false
	}
	if _, err := strconv.ParseFloat(atom, 64); err == nil {
		return true
	}
	return false
}

// HigherOrderUse describes why a formula falls outside first-order range.
type HigherOrderUse struct {
	Term   string
	Reason string
}

// FirstOrderCheck scans for constructs the first-order dialects cannot
// express: a variable or embedded formula in operator position, a row
// variable, or a logical connective used as an argument.
func FirstOrderCheck(t *kif.Term) *HigherOrderUse {
	if t.IsAtom() {
		if t.IsRowVariable() {
			return &HigherOrderUse{Term: t.Atom, Reason: "row variable"}
		}
		return nil
	}
	if len(t.List) == 0 {
		return &HigherOrderUse{Reason: "empty application"}
	}

	head := t.List[0]
	if head.IsList() {
		return &HigherOrderUse{Reason: "compound term in operator position"}
	}
	if head.IsVariable() && !kif.IsQuantifier(head.Atom) {
		return &HigherOrderUse{Term: head.Atom, Reason: "variable in operator position"}
	}

	args := t.Args()
	if kif.IsQuantifier(head.Atom) {
		// The binder list is not an application.
		if len(args) == 2 {
			for _, v := range args[0].List {
				if v.IsRowVariable() {
					return &HigherOrderUse{Term: v.Atom, Reason: "row variable"}
				}
			}
			return FirstOrderCheck(args[1])
		}
	}
	headLogical := kif.IsLogicalOperator(head.Atom)
	for _, arg := range args {
		if arg.IsAtom() && kif.IsLogicalOperator(arg.Atom) {
			return &HigherOrderUse{Term: arg.Atom, Reason: "connective used as argument"}
		}
		if !headLogical && arg.IsList() && kif.IsLogicalOperator(arg.Head()) {
			// A formula in term position is a higher-order embedding.
			return &HigherOrderUse{Term: head.Atom, Reason: "formula used as argument"}
		}
		if use := FirstOrderCheck(arg); use != nil {
			return use
		}
	}
	return nil
}
