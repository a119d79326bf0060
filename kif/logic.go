package kif

// SUO-KIF logical operators.
const (
	And     = "and"
	Or      = "or"
	Not     = "not"
	Implies = "=>"
	Iff     = "<=>"
	Forall  = "forall"
	Exists  = "exists"
	Equal   = "equal"
)

// Taxonomic and declaration relations consumed by the taxonomy build.
const (
	Instance              = "instance"
	Subclass              = "subclass"
	Subrelation           = "subrelation"
	SubAttribute          = "subAttribute"
	Domain                = "domain"
	DomainSubclass        = "domainSubclass"
	Range                 = "range"
	Disjoint              = "disjoint"
	Valence               = "valence"
	VariableArityRelation = "VariableArityRelation"
	RelationClass         = "Relation"
	FunctionClass         = "Function"
	PredicateClass        = "Predicate"
)

var logicalOperators = map[string]bool{
	And: true, Or: true, Not: true, Implies: true, Iff: true,
	Forall: true, Exists: true, Equal: true,
}

var quantifiers = map[string]bool{
	Forall: true, Exists: true,
}

// IsLogicalOperator reports whether op is a SUO-KIF connective or quantifier.
func IsLogicalOperator(op string) bool {
	return logicalOperators[op]
}

// IsQuantifier reports whether op binds variables.
func IsQuantifier(op string) bool {
	return quantifiers[op]
}

// IsVariable reports whether the token is a regular variable (?X).
func IsVariable(token string) bool {
	return len(token) > 0 && token[0] == '?'
}
