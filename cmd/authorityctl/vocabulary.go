package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// vocabularyCmd represents the vocabulary command
var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "Manage vocabulary bindings",
	Long:  `Bind harvested authorities to metadata fields.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'vocabulary' requires a subcommand (register)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(vocabularyCmd)
}
