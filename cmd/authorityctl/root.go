package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authorityctl",
	Short: "Harvest, bind and query local authorities",
	Long: `Harvest controlled vocabularies from RDF and TSV sources, bind them to
metadata fields, and serve typeahead lookups.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "override the configured log level (debug, info, warn, error)")
}
