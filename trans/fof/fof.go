// Package fof renders formulas into the untyped first-order TPTP dialect.
package fof

import (
	"strings"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

// Translator is the untyped first-order translator. It carries no mutable
// state; one value serves any number of concurrent jobs.
type Translator struct{}

// New returns the untyped first-order translator.
func New() *Translator { return &Translator{} }

func (t *Translator) Dialect() trans.Dialect { return trans.DialectFOF }

// Translate renders one formula. Formulas containing higher-order
// constructs are refused with an unsupported-construct diagnostic rather
// than an error.
func (t *Translator) Translate(f *kif.Formula, cache *taxonomy.Cache) *trans.Result {
	res := &trans.Result{}
	if use := trans.FirstOrderCheck(f.Root); use != nil {
		res.Skip(f.ID, use.Reason)
		return res
	}

	var b strings.Builder
	render(f.Root, &b)
	res.Text = b.String()
	return res
}

var connectives = map[string]string{
	kif.And:     "&",
	kif.Or:      "|",
	kif.Implies: "=>",
	kif.Iff:     "<=>",
}

func render(t *kif.Term, b *strings.Builder) {
	if t.IsAtom() {
		if t.IsVariable() {
			b.WriteString(trans.VarName(t.Atom))
		} else {
			b.WriteString(trans.TermName(t.Atom))
		}
		return
	}

	head := t.Head()
	args := t.Args()

	switch {
	case head == kif.Not && len(args) == 1:
		b.WriteString("~ ")
		render(args[0], b)

	case kif.IsQuantifier(head) && len(args) == 2:
		if head == kif.Forall {
			b.WriteString("! [")
		} else {
			b.WriteString("? [")
		}
		for i, v := range args[0].List {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(trans.VarName(v.Atom))
		}
		b.WriteString("] : ")
		render(args[1], b)

	case head == kif.Equal && len(args) == 2:
		b.WriteString("( ")
		render(args[0], b)
		b.WriteString(" = ")
		render(args[1], b)
		b.WriteString(" )")

	case connectives[head] != "":
		b.WriteString("( ")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(" " + connectives[head] + " ")
			}
			render(arg, b)
		}
		b.WriteString(" )")

	default:
		// Plain application: relation, function, or predicate.
		b.WriteString(trans.TermName(head))
		b.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(",")
			}
			render(arg, b)
		}
		b.WriteString(")")
	}
}
