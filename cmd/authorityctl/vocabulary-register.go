package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// vocabularyRegisterCmd represents the vocabulary register command
var vocabularyRegisterCmd = &cobra.Command{
	Use:   "register <term> <authority>",
	Short: "Make an authority available for lookups of a term",
	Long: `Make an authority available for lookups of a term.

Without --model the binding applies to any model. Registering an authority
that has not been harvested logs a warning and changes nothing.

Example:
  authorityctl vocabulary register creator names --model books
  authorityctl vocabulary register subject lcsh`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		model, _ := cmd.Flags().GetString("model")

		if err := registerVocabulary(cmd, authority.ScopeOf(model), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register vocabulary: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	vocabularyCmd.AddCommand(vocabularyRegisterCmd)
	vocabularyRegisterCmd.Flags().StringP("model", "m", "", "restrict the binding to one model")
}

func registerVocabulary(cmd *cobra.Command, scope authority.Scope, term, name string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	return a.vocabularies().RegisterVocabulary(context.Background(), scope, term, name)
}
