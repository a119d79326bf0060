package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ontokit/axigen/cmd/axigen/commands"
	"github.com/ontokit/axigen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "axigen",
	Short: "axigen - Theorem-prover axiom generation from SUO-KIF knowledge bases",
	Long: `axigen translates SUO-KIF knowledge bases into theorem-prover dialects.

Available commands:
  generate - Run the translation pipeline and write dialect artifacts
  tax      - Query the taxonomy cache (closures, signatures, instances)
  config   - Manage axigen configuration
  version  - Show version information

Examples:
  axigen generate                     # Generate all configured dialects
  axigen generate --dialect fof       # Generate one dialect
  axigen generate --watch             # Regenerate on knowledge-base changes
  axigen tax closure Dog              # Show the subclass closure of Dog
  axigen config show                  # Show current configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "show" {
			return nil
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.InitializeWithVerbosity(false, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v",
		"Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (overrides search paths)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.TaxCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
