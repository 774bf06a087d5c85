package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// authorityDeleteCmd represents the authority delete command
var authorityDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an authority with its entries and bindings",
	Long: `Delete an authority with its entries and bindings.

Use this to clear a partially-harvested authority before harvesting it again.

Example:
  authorityctl authority delete lcsh`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deleteAuthority(cmd, args[0]); err != nil {
			if errors.Is(err, authority.ErrAuthorityNotFound) {
				fmt.Fprintf(os.Stderr, "Authority %q not found\n", args[0])
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Failed to delete authority: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted authority %q\n", args[0])
	},
}

func init() {
	authorityCmd.AddCommand(authorityDeleteCmd)
}

func deleteAuthority(cmd *cobra.Command, name string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	return a.store.DeleteAuthority(context.Background(), name)
}
