package sym

import (
	"testing"
	"unicode/utf8"
)

func TestSymbolToStageAndStageToSymbolAreBidirectional(t *testing.T) {
	for symbol, stage := range SymbolToStage {
		got, ok := StageToSymbol[stage]
		if !ok {
			t.Errorf("SymbolToStage has %q → %q, but StageToSymbol has no entry for %q", symbol, stage, stage)
			continue
		}
		if got != symbol {
			t.Errorf("bidirectional mismatch: SymbolToStage[%q] = %q, but StageToSymbol[%q] = %q", symbol, stage, stage, got)
		}
	}

	for stage, symbol := range StageToSymbol {
		got, ok := SymbolToStage[symbol]
		if !ok {
			t.Errorf("StageToSymbol has %q → %q, but SymbolToStage has no entry for %q", stage, symbol, symbol)
			continue
		}
		if got != stage {
			t.Errorf("bidirectional mismatch: StageToSymbol[%q] = %q, but SymbolToStage[%q] = %q", stage, symbol, symbol, got)
		}
	}
}

func TestMapsHaveSameSize(t *testing.T) {
	if len(SymbolToStage) != len(StageToSymbol) {
		t.Errorf("map size mismatch: SymbolToStage has %d entries, StageToSymbol has %d",
			len(SymbolToStage), len(StageToSymbol))
	}
}

func TestStageDescriptionsCoversAllStages(t *testing.T) {
	for stage := range StageToSymbol {
		if _, ok := StageDescriptions[stage]; !ok {
			t.Errorf("StageDescriptions missing entry for stage %q", stage)
		}
	}
}

func TestStageOrderContainsValidSymbols(t *testing.T) {
	for i, symbol := range StageOrder {
		if _, ok := SymbolToStage[symbol]; !ok {
			t.Errorf("StageOrder[%d] = %q is not in SymbolToStage", i, symbol)
		}
	}
}

func TestAllSymbolsAreSingleRunes(t *testing.T) {
	for symbol := range SymbolToStage {
		if utf8.RuneCountInString(symbol) != 1 {
			t.Errorf("symbol %q is not a single rune", symbol)
		}
	}
}
