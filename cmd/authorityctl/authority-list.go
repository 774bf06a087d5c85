package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// authorityListCmd represents the authority list command
var authorityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authorities and their entry counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listAuthorities(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list authorities: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	authorityCmd.AddCommand(authorityListCmd)
}

func listAuthorities(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	summaries, err := a.store.ListAuthorities(context.Background())
	if err != nil {
		return err
	}
	return writeAuthorityTable(os.Stdout, summaries)
}

func writeAuthorityTable(w io.Writer, summaries []authority.AuthoritySummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tENTRIES\tCREATED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Entries, s.CreatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
