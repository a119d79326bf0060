package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ontokit/axigen/logger"
	"github.com/ontokit/axigen/taxonomy"
)

// TaxCmd queries the taxonomy cache.
var TaxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Query the taxonomy cache",
}

var taxClosureCmd = &cobra.Command{
	Use:   "closure <term>",
	Short: "Show the transitive closure of a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		k, err := loadKB(cfg)
		if err != nil {
			return err
		}

		kind, _ := cmd.Flags().GetString("kind")
		closure, err := k.Taxonomy().ClosureOf(args[0], taxonomy.RelationKind(kind))
		if err != nil {
			return err
		}
		logger.TaxDebugw("Closure computed", "term", args[0], "kind", kind, "size", len(closure))

		terms := make([]string, 0, len(closure))
		for t := range closure {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(terms, "\n"))
		return nil
	},
}

var taxSignatureCmd = &cobra.Command{
	Use:   "signature <relation>",
	Short: "Show a relation's declared argument types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		k, err := loadKB(cfg)
		if err != nil {
			return err
		}
		cache := k.Taxonomy()

		sig := cache.SignatureOf(args[0])
		if sig == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no declared signature\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s(%s)", args[0], strings.Join(sig, ", "))
		if rng := cache.RangeOf(args[0]); rng != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " -> %s", rng)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var taxInstancesCmd = &cobra.Command{
	Use:   "instances <class>",
	Short: "List the declared instances of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		k, err := loadKB(cfg)
		if err != nil {
			return err
		}
		for _, inst := range k.Taxonomy().InstancesOf(args[0]) {
			fmt.Fprintln(cmd.OutOrStdout(), inst)
		}
		return nil
	},
}

func init() {
	taxClosureCmd.Flags().String("kind", "subclass",
		"Relation kind to walk: subclass, subrelation, subAttribute")
	TaxCmd.AddCommand(taxClosureCmd)
	TaxCmd.AddCommand(taxSignatureCmd)
	TaxCmd.AddCommand(taxInstancesCmd)
}
