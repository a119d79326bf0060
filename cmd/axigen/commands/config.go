package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigCmd manages axigen configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage axigen configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the merged configuration: defaults, config files, and AXIGEN_ environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
}
