// Package sym defines canonical symbols for axigen pipeline stages and
// system markers. These symbols are stable across CLI output, structured
// logs, and documentation, and make log streams queryable by stage.
package sym

// Pipeline stage symbols — one per stage of the translation flow.
const (
	KB    = "⊞" // kb — knowledge base load/reload
	Tax   = "⊑" // tax — taxonomy cache (subsumption closures)
	Pre   = "⊢" // pre — type-restriction preprocessing
	FOF   = "∀" // fof — untyped first-order translation
	TFF   = "⊨" // tff — typed first-order translation
	THF   = "λ" // thf — higher-order translation
	Merge = "⊕" // merge — dedup and sequential naming
)

// System infrastructure symbols.
const (
	Run      = "꩜" // generation run lifecycle
	RunOpen  = "✿" // run fan-out started
	RunClose = "❀" // run committed or failed
	DB       = "⊔" // database/snapshot layer
	Watch    = "✦" // filesystem watcher events
)

// StageOrder defines the canonical ordering for progress output and reports.
var StageOrder = []string{KB, Tax, Pre, FOF, TFF, THF, Merge}

// SymbolToStage maps glyph strings to their stage name equivalents.
var SymbolToStage = map[string]string{
	KB:    "kb",
	Tax:   "tax",
	Pre:   "pre",
	FOF:   "fof",
	TFF:   "tff",
	THF:   "thf",
	Merge: "merge",
}

// StageToSymbol maps stage names to their canonical glyph strings.
var StageToSymbol = map[string]string{
	"kb":    KB,
	"tax":   Tax,
	"pre":   Pre,
	"fof":   FOF,
	"tff":   TFF,
	"thf":   THF,
	"merge": Merge,
}

// StageDescriptions provides human-readable explanations for help text.
var StageDescriptions = map[string]string{
	"kb":    "Knowledge base — ordered formula store and ground-fact index",
	"tax":   "Taxonomy — transitively closed subsumption and signature cache",
	"pre":   "Preprocess — minimal type-restriction guard inference",
	"fof":   "FOF — untyped first-order dialect",
	"tff":   "TFF — typed first-order dialect with sorts",
	"thf":   "THF — typed higher-order dialect",
	"merge": "Merge — dedup, sequential naming, artifact commit",
}
