package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ontokit/axigen/config"
	"github.com/ontokit/axigen/kb"
	"github.com/ontokit/axigen/logger"
	"github.com/ontokit/axigen/pipeline"
	"github.com/ontokit/axigen/store"
	"github.com/ontokit/axigen/sym"
	"github.com/ontokit/axigen/taxonomy"
	"github.com/ontokit/axigen/trans"
)

// GenerateCmd runs the translation pipeline.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Translate the knowledge base into prover dialect artifacts",
	Long: `Generate runs the full translation pipeline: taxonomy build, per-formula
preprocessing, dialect translation across a bounded worker pool, and atomic
artifact commit. One artifact file is written per configured dialect.

Pipeline stages:
` + stageLegend(),
	RunE: runGenerate,
}

// stageLegend renders the glyph-to-stage table shown in command help.
func stageLegend() string {
	var b strings.Builder
	for _, glyph := range sym.StageOrder {
		stage := sym.SymbolToStage[glyph]
		fmt.Fprintf(&b, "  %s %-6s %s\n", glyph, stage, sym.StageDescriptions[stage])
	}
	return b.String()
}

func init() {
	GenerateCmd.Flags().StringSlice("dialect", nil, "Dialects to generate (default: all configured)")
	GenerateCmd.Flags().Int("workers", 0, "Worker pool size (0 = hardware parallelism)")
	GenerateCmd.Flags().Bool("closed-world", false, "Additionally generate closed-world-assumption axioms")
	GenerateCmd.Flags().Bool("timing", false, "Record per-stage timing in the run report")
	GenerateCmd.Flags().Bool("watch", false, "Stay running and regenerate when knowledge-base files change")
	GenerateCmd.Flags().String("output", "", "Artifact output directory (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg)

	k, err := loadKB(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := generateOnce(ctx, cfg, k); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch && !cfg.KB.Watch {
		return nil
	}

	debounce := time.Duration(cfg.KB.ReloadDebounceSeconds) * time.Second
	logger.RunInfow("Watch mode active", "files", len(k.Paths()), "debounce", debounce)
	watcher := kb.NewWatcher(k, debounce, func() {
		if err := generateOnce(ctx, cfg, k); err != nil {
			logger.RunErrorw("Regeneration failed", "error", err)
		}
	})
	err = watcher.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	if dialects, _ := cmd.Flags().GetStringSlice("dialect"); len(dialects) > 0 {
		cfg.Output.Dialects = dialects
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Pipeline.Workers = workers
	}
	if cw, _ := cmd.Flags().GetBool("closed-world"); cw {
		cfg.Pipeline.ClosedWorld = true
	}
	if timing, _ := cmd.Flags().GetBool("timing"); timing {
		cfg.Pipeline.Timing = true
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output.Dir = out
	}
}

// generateOnce runs every configured dialect over the current knowledge
// base state and persists cache snapshots when a snapshot path is set.
func generateOnce(ctx context.Context, cfg *config.Config, k *kb.KnowledgeBase) error {
	logger.RunOpenInfow("Generation run started",
		"kb", k.Name(), "dialects", cfg.Output.Dialects)

	transCache := trans.NewCache()
	var snapshots *store.Store
	if cfg.Snapshot.Path != "" {
		var err error
		snapshots, err = store.Open(cfg.Snapshot.Path, logger.Logger)
		if err != nil {
			return err
		}
		defer snapshots.Close()
		logger.DBInfow("Snapshot store opened", "path", cfg.Snapshot.Path)

		// An absent snapshot is not an error; the caches start fresh. A
		// taxonomy snapshot is only adopted while its basis still matches
		// the loaded formulas, which carries the lazily derived signature
		// extensions of earlier runs forward; otherwise the built cache
		// stands.
		if snap, loadErr := snapshots.LoadTranslations(k.Name()); loadErr == nil {
			transCache = trans.FromSnapshot(snap)
		}
		if snap, loadErr := snapshots.LoadTaxonomy(k.Name()); loadErr == nil && snap.Basis == k.Fingerprint() {
			k.RestoreTaxonomy(taxonomy.FromSnapshot(snap, logger.Logger))
		}
	}

	translators, err := buildTranslators(cfg.Output.Dialects, k)
	if err != nil {
		return err
	}

	orch := pipeline.New(k.Taxonomy(), transCache, translators, pipeline.Options{
		KBName:      k.Name(),
		OutputDir:   cfg.Output.Dir,
		Workers:     cfg.Pipeline.Workers,
		JobTimeout:  time.Duration(cfg.Pipeline.JobTimeoutSeconds) * time.Second,
		ClosedWorld: cfg.Pipeline.ClosedWorld,
		Timing:      cfg.Pipeline.Timing,
	}, logger.Logger)

	reports, err := orch.Run(ctx, k.Formulas())
	if err != nil {
		return err
	}
	renderReports(reports)

	if snapshots != nil {
		taxSnap := k.Taxonomy().Export()
		taxSnap.Basis = k.Fingerprint()
		if err := snapshots.SaveTaxonomy(k.Name(), taxSnap); err != nil {
			return err
		}
		if err := snapshots.SaveTranslations(k.Name(), transCache.Export()); err != nil {
			return err
		}
	}

	logger.RunCloseInfow("Generation run finished", "kb", k.Name())
	return nil
}

func renderReports(reports []*pipeline.Report) {
	rows := pterm.TableData{{"Dialect", "Emitted", "Skipped", "Deduped", "Cached", "Artifact"}}
	for _, r := range reports {
		if r == nil {
			continue
		}
		rows = append(rows, []string{
			string(r.Dialect),
			fmt.Sprintf("%d", r.Emitted),
			fmt.Sprintf("%d", r.Skipped),
			fmt.Sprintf("%d", r.Deduplicated),
			fmt.Sprintf("%d", r.CacheHits),
			r.Artifact,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	for _, r := range reports {
		if r == nil || r.Timing == nil {
			continue
		}
		pterm.Info.Printfln("%s timing: preprocess %s, translate %s, write %s",
			r.Dialect, r.Timing.Preprocess, r.Timing.Translate, r.Timing.Write)
		for _, slow := range r.Timing.Slowest {
			pterm.Debug.Printfln("  slow formula %s: %s", slow.FormulaID, slow.Duration)
		}
	}
}
