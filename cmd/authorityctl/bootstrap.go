package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/config"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Apply declarative authority plans",
	Long: `Apply a YAML plan that harvests authorities and registers vocabularies.

The plan file defaults to the bootstrap_file configuration attribute.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'bootstrap' requires a subcommand (apply, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

// planFile picks the plan path from args or configuration
func planFile(args []string, cfg *config.AuthorityConfig) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.BootstrapFile != "" {
		return cfg.BootstrapFile, nil
	}
	return "", fmt.Errorf("no plan file given and bootstrap_file is not configured")
}
