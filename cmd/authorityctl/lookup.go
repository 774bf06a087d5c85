package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <term> <query>",
	Short: "Print the entries a typeahead lookup would return",
	Long: `Print the entries a typeahead lookup would return, as JSON.

Example:
  authorityctl lookup creator cat --model books
  authorityctl lookup subject "civil war"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		model, _ := cmd.Flags().GetString("model")

		if err := lookup(cmd, args[0], args[1], authority.ScopeOf(model)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to look up %s: %v\n", args[0], err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringP("model", "m", "", "model whose binding is used")
}

func lookup(cmd *cobra.Command, term, query string, scope authority.Scope) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	hits, err := a.resolver().EntriesByTerm(context.Background(), term, query, scope)
	if err != nil {
		return err
	}
	if hits == nil {
		hits = []authority.Hit{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(hits)
}
