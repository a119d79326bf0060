package commands

import (
	"github.com/spf13/cobra"

	"github.com/ontokit/axigen/config"
	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/kb"
	"github.com/ontokit/axigen/logger"
	"github.com/ontokit/axigen/trans"
	"github.com/ontokit/axigen/trans/fof"
	"github.com/ontokit/axigen/trans/tff"
	"github.com/ontokit/axigen/trans/thf"
)

// loadConfig resolves configuration for a command, honoring the --config
// persistent flag when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// loadKB loads the configured knowledge base.
func loadKB(cfg *config.Config) (*kb.KnowledgeBase, error) {
	return kb.Load(cfg.KB.Name, cfg.KB.Paths, logger.Logger)
}

// buildTranslators maps configured dialect names to translators. The two
// higher-order variants share one classifier so well-formedness verdicts
// are computed once.
func buildTranslators(dialects []string, k *kb.KnowledgeBase) ([]trans.Translator, error) {
	classifier := thf.NewClassifier(k.Taxonomy())

	var out []trans.Translator
	for _, name := range dialects {
		switch trans.Dialect(name) {
		case trans.DialectFOF:
			out = append(out, fof.New())
		case trans.DialectTFF:
			out = append(out, tff.New())
		case trans.DialectTHF:
			out = append(out, thf.New(classifier, thf.Options{}))
		case trans.DialectTHFModal:
			out = append(out, thf.New(classifier, thf.Options{Modal: true}))
		default:
			return nil, errors.Newf("unknown dialect %q", name)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no dialects configured")
	}
	return out, nil
}
