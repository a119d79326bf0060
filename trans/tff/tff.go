// Package tff renders formulas into the typed first-order TPTP dialect:
// sorted quantifier binders plus explicit type declarations for every
// referenced relation argument position.
package tff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

// anySort is the unconstrained fallback for positions with no resolvable
// type.
const anySort = "$i"

// Translator is the typed first-order translator. Stateless; safe for
// concurrent use.
type Translator struct{}

// New returns the typed first-order translator.
func New() *Translator { return &Translator{} }

func (t *Translator) Dialect() trans.Dialect { return trans.DialectTFF }

// Translate normalizes the formula to a fixed point, renders it with sorted
// binders, and collects the sort and signature declarations its symbols
// require. Unresolvable sorts degrade to the unconstrained sort with a
// warning; higher-order constructs are skipped.
func (t *Translator) Translate(f *kif.Formula, cache *taxonomy.Cache) *trans.Result {
	res := &trans.Result{}
	if use := trans.FirstOrderCheck(f.Root); use != nil {
		res.Skip(f.ID, use.Reason)
		return res
	}

	root, converged := normalize(f.Root, cache)
	if !converged {
		res.WarnNonConvergence(f.ID,
			fmt.Sprintf("normalization still changing after %d iterations", maxNormalizeIterations))
	}

	r := &renderer{cache: cache, res: res, formulaID: f.ID, warned: make(map[string]bool)}
	var b strings.Builder
	r.render(root, &b)
	res.Text = b.String()
	res.Aux = r.declarations()
	return res
}

// renderer carries the per-job working state: the declaration sets being
// accumulated and the per-symbol warning dedup. Constructed fresh per
// translation, never shared.
type renderer struct {
	cache     *taxonomy.Cache
	res       *trans.Result
	formulaID string

	sorts      map[string]bool
	signatures map[string]string
	warned     map[string]bool
}

var connectives = map[string]string{
	kif.And:     "&",
	kif.Or:      "|",
	kif.Implies: "=>",
	kif.Iff:     "<=>",
}

func (r *renderer) render(t *kif.Term, b *strings.Builder) {
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
		r.render(args[0], b)

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
			b.WriteString(": ")
			b.WriteString(r.binderSort(v.Atom, args[1]))
		}
		b.WriteString("] : ")
		r.render(args[1], b)

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
		r.declare(head, len(args))
		b.WriteString(trans.TermName(head))
		if len(args) == 0 {
			return
		}
		b.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(",")
			}
			r.render(arg, b)
		}
		b.WriteString(")")
	}
}

// binderSort resolves a quantified variable's sort from the type guard the
// preprocessor attached directly under the quantifier. Variables with no
// resolvable guard fall back to the unconstrained sort with a warning;
// subclass-guarded variables denote classes, which live in the individual
// sort, so they take it silently.
func (r *renderer) binderSort(variable string, body *kif.Term) string {
	typ, subclass := guardTypeFor(variable, body)
	switch {
	case typ == "":
		if !r.warned[variable] {
			r.warned[variable] = true
			r.res.WarnUnresolved(r.formulaID,
				fmt.Sprintf("no sort for %s, using %s", variable, anySort))
		}
		return anySort
	case subclass:
		return anySort
	default:
		r.useSort(typ)
		return trans.TermName(typ)
	}
}

// guardTypeFor matches the guard shapes the preprocessor emits:
// (=> G body) and (and G body) with G either a single guard literal or a
// conjunction of them. Reports whether the match is a subclass restriction.
func guardTypeFor(variable string, body *kif.Term) (string, bool) {
	head := body.Head()
	if (head != kif.Implies && head != kif.And) || body.Arity() < 1 {
		return "", false
	}
	for _, candidate := range body.Args() {
		if typ, sub, ok := guardLiteral(variable, candidate); ok {
			return typ, sub
		}
		if candidate.Head() == kif.And {
			for _, g := range candidate.Args() {
				if typ, sub, ok := guardLiteral(variable, g); ok {
					return typ, sub
				}
			}
		}
		// Only the guard position binds sorts; stop before the body.
		break
	}
	return "", false
}

func guardLiteral(variable string, t *kif.Term) (string, bool, bool) {
	head := t.Head()
	if (head == kif.Instance || head == kif.Subclass) && t.Arity() == 2 &&
		t.Args()[0].IsAtom() && t.Args()[0].Atom == variable && t.Args()[1].IsAtom() {
		return t.Args()[1].Atom, head == kif.Subclass, true
	}
	return "", false, false
}

// declare records the signature declaration for one applied symbol.
func (r *renderer) declare(symbol string, arity int) {
	if r.signatures == nil {
		r.signatures = make(map[string]string)
	}
	if _, ok := r.signatures[symbol]; ok {
		return
	}

	sig := r.cache.SignatureOf(symbol)
	if r.cache.IsVariableArity(symbol) && arity > len(sig) {
		if extended, err := r.cache.ExtendVariableArity(symbol, arity); err == nil {
			sig = extended
		}
	}

	argSorts := make([]string, arity)
	for i := range argSorts {
		if i < len(sig) && sig[i] != "" {
			base, subclass := taxonomy.BaseType(sig[i])
			if subclass {
				// Subclass positions take class values, which live in the
				// individual sort alongside their subclass-guarded binders.
				argSorts[i] = anySort
				continue
			}
			argSorts[i] = trans.TermName(base)
			r.useSort(base)
		} else {
			argSorts[i] = anySort
			if !r.warned[symbol] {
				r.warned[symbol] = true
				r.res.WarnUnresolved(r.formulaID,
					fmt.Sprintf("no declared sort for argument %d of %s, using %s", i+1, symbol, anySort))
			}
		}
	}

	result := "$o"
	if rng := r.cache.RangeOf(symbol); rng != "" {
		result = trans.TermName(rng)
		r.useSort(rng)
	} else if r.cache.IsFunction(symbol) {
		result = anySort
	}

	name := trans.TermName(symbol)
	if arity == 0 {
		r.signatures[symbol] = fmt.Sprintf("tff(%s_sig,type,(%s: %s)).", name, name, result)
		return
	}
	r.signatures[symbol] = fmt.Sprintf("tff(%s_sig,type,(%s: (%s) > %s)).",
		name, name, strings.Join(argSorts, " * "), result)
}

func (r *renderer) useSort(typ string) {
	if r.sorts == nil {
		r.sorts = make(map[string]bool)
	}
	r.sorts[typ] = true
}

// declarations returns the sorted sort and signature declarations this
// formula requires. Sorting keeps per-formula output deterministic; the
// merge phase dedups across formulas.
func (r *renderer) declarations() []string {
	var out []string
	for typ := range r.sorts {
		name := trans.TermName(typ)
		out = append(out, fmt.Sprintf("tff(%s_tp,type,(%s: $tType)).", name, name))
	}
	for _, decl := range r.signatures {
		out = append(out, decl)
	}
	sort.Strings(out)
	return out
}
