package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// authorityCmd represents the authority command
var authorityCmd = &cobra.Command{
	Use:   "authority",
	Short: "Manage harvested authorities",
	Long:  `List and delete harvested local authorities.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'authority' requires a subcommand (list, delete)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(authorityCmd)
}
