package trans

// DiagKind classifies a per-formula translation diagnostic.
type DiagKind string

const (
	// DiagUnsupportedConstruct marks a formula the dialect cannot express.
	// The formula is skipped; the run continues.
	DiagUnsupportedConstruct DiagKind = "unsupported_construct"

	// DiagUnresolvedType marks a relation or variable with no taxonomy
	// entry; the translator substituted the unconstrained sort.
	DiagUnresolvedType DiagKind = "unresolved_type"

	// DiagNonConvergence marks a normalization pass that hit its iteration
	// cap while the formula was still changing; the last computed state was
	// used.
	DiagNonConvergence DiagKind = "non_convergence"

	// DiagTimeout marks a job abandoned by the per-job timeout.
	DiagTimeout DiagKind = "timeout"
)

// Diagnostic records one recoverable condition against one formula.
type Diagnostic struct {
	Kind      DiagKind
	FormulaID string
	Message   string
}

// Result is a translator's complete output for one formula. Text is the
// rendered formula body without its axiom wrapper; naming and wrapping
// happen in the merge phase so sequential identifiers stay stable. An empty
// Text means the formula was skipped (see Diagnostics for why).
type Result struct {
	Text        string
	Aux         []string
	Diagnostics []Diagnostic
}

// Emitted reports whether the formula produced output.
func (r *Result) Emitted() bool {
	return r.Text != ""
}

func (r *Result) diag(kind DiagKind, id, msg string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, FormulaID: id, Message: msg})
}

// Skip records an unsupported-construct diagnostic and clears the text.
func (r *Result) Skip(id, msg string) {
	r.Text = ""
	r.diag(DiagUnsupportedConstruct, id, msg)
}

// WarnUnresolved records an unresolved-type warning.
func (r *Result) WarnUnresolved(id, msg string) {
	r.diag(DiagUnresolvedType, id, msg)
}

// WarnNonConvergence records a normalization cap overrun.
func (r *Result) WarnNonConvergence(id, msg string) {
	r.diag(DiagNonConvergence, id, msg)
}
