// Package thf renders formulas into the higher-order TPTP dialect: curried
// applications with typed constant declarations. The translator comes in
// two variants, plain and modal-augmented, produced by the same renderer
// under different policy flags.
package thf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

// Options selects the output variant.
type Options struct {
	// Modal wraps every axiom in the validity operator and declares the
	// modal vocabulary alongside the formula's own symbols.
	Modal bool
}

// Translator is the higher-order translator. It shares one Classifier so
// the well-formedness verdict for a formula is computed once even when both
// variants run in the same generation.
type Translator struct {
	classifier *Classifier
	opts       Options
}

// New returns a higher-order translator over a shared classifier.
func New(classifier *Classifier, opts Options) *Translator {
	return &Translator{classifier: classifier, opts: opts}
}

func (t *Translator) Dialect() trans.Dialect {
	if t.opts.Modal {
		return trans.DialectTHFModal
	}
	return trans.DialectTHF
}

// Classifier exposes the shared classifier, primarily for the orchestrator's
// sequential classification prepass.
func (t *Translator) Classifier() *Classifier { return t.classifier }

// Translate renders one formula. Formulas classified as bad usages are
// skipped with a diagnostic; the run continues.
func (t *Translator) Translate(f *kif.Formula, cache *taxonomy.Cache) *trans.Result {
	res := &trans.Result{}

	usage := t.classifier.Classify(f)
	if !usage.WellFormed {
		res.Skip(f.ID, "bad usage: "+usage.Reason)
		return res
	}

	r := &renderer{cache: cache}
	var b strings.Builder
	r.render(f.Root, &b)

	if t.opts.Modal {
		res.Text = "( mvalid @ ( " + b.String() + " ) )"
	} else {
		res.Text = b.String()
	}
	res.Aux = r.declarations(t.opts.Modal)
	return res
}

type renderer struct {
	cache   *taxonomy.Cache
	symbols map[string]int
}

var connectives = map[string]string{
	kif.And:     "&",
	kif.Or:      "|",
	kif.Implies: "=>",
	kif.Iff:     "<=>",
}

func (r *renderer) render(t *kif.Term, b *strings.Builder) {
	if t.IsAtom() {
		if t.IsVariable() || t.IsRowVariable() {
			b.WriteString(trans.VarName(t.Atom))
		} else {
			r.use(t.Atom, 0)
			b.WriteString(trans.TermName(t.Atom))
		}
		return
	}

	head := t.Head()
	args := t.Args()

	switch {
	case head == kif.Not && len(args) == 1:
		b.WriteString("~ ( ")
		r.render(args[0], b)
		b.WriteString(" )")

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
			b.WriteString(": $i")
		}
		b.WriteString("] : ( ")
		r.render(args[1], b)
		b.WriteString(" )")

	case head == kif.Equal && len(args) == 2:
		b.WriteString("( ")
		r.render(args[0], b)
		b.WriteString(" = ")
		r.render(args[1], b)
		b.WriteString(" )")

	case connectives[head] != "":
		b.WriteString("( ")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(" " + connectives[head] + " ")
			}
			r.render(arg, b)
		}
		b.WriteString(" )")

	default:
		// Curried application.
		r.use(head, len(args))
		b.WriteString("( ")
		b.WriteString(trans.TermName(head))
		for _, arg := range args {
			b.WriteString(" @ ")
			r.render(arg, b)
		}
		b.WriteString(" )")
	}
}

// use records a symbol occurrence at its widest observed arity.
func (r *renderer) use(symbol string, arity int) {
	if kif.IsLogicalOperator(symbol) {
		return
	}
	if r.symbols == nil {
		r.symbols = make(map[string]int)
	}
	if cur, ok := r.symbols[symbol]; !ok || arity > cur {
		r.symbols[symbol] = arity
	}
}

// declarations emits one typed constant declaration per symbol: functions
// map into $i, predicates into $o, bare constants are individuals.
func (r *renderer) declarations(modal bool) []string {
	var out []string
	for symbol, arity := range r.symbols {
		name := trans.TermName(symbol)
		out = append(out, fmt.Sprintf("thf(%s_tp,type,(%s: %s)).",
			name, name, r.typeOf(symbol, arity)))
	}
	if modal {
		out = append(out,
			"thf(mvalid_tp,type,(mvalid: ($o > $o))).",
			"thf(mbox_tp,type,(mbox: ($o > $o))).",
			"thf(mdia_tp,type,(mdia: ($o > $o))).",
		)
	}
	sort.Strings(out)
	return out
}

func (r *renderer) typeOf(symbol string, arity int) string {
	if arity == 0 {
		if r.cache.IsPredicate(symbol) {
			return "$o"
		}
		return "$i"
	}
	result := "$o"
	if r.cache.IsFunction(symbol) {
		result = "$i"
	}
	parts := make([]string, 0, arity+1)
	for i := 0; i < arity; i++ {
		parts = append(parts, "$i")
	}
	parts = append(parts, result)
	return "(" + strings.Join(parts, " > ") + ")"
}
