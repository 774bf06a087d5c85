package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/config"
)

// harvestRDFCmd represents the harvest rdf command
var harvestRDFCmd = &cobra.Command{
	Use:   "rdf <name> <source>...",
	Short: "Harvest an authority from RDF sources",
	Long: `Harvest an authority from RDF sources.

Every statement whose predicate matches --predicate becomes an entry, with
the statement subject as uri and the object text as label. Sources may be
local paths, file:// URLs or http(s):// URLs.

Example:
  authorityctl harvest rdf lcsh ./subjects.nt
  authorityctl harvest rdf genres https://example.org/genres.ttl --format turtle`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		predicate, _ := cmd.Flags().GetString("predicate")

		rdfFormat, err := authority.ParseFormat(format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to harvest: %v\n", err)
			os.Exit(1)
		}

		name, sources := args[0], args[1:]
		err = runHarvest(cmd, name, func(ctx context.Context, h *authority.Harvester, _ *config.AuthorityConfig) (*authority.HarvestResult, error) {
			return h.HarvestRDF(ctx, name, sources, authority.RDFOptions{Format: rdfFormat, Predicate: predicate})
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to harvest: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	harvestCmd.AddCommand(harvestRDFCmd)
	harvestRDFCmd.Flags().StringP("format", "f", string(authority.FormatNTriples), "RDF serialization (ntriples, turtle, rdfxml)")
	harvestRDFCmd.Flags().String("predicate", authority.SKOSPrefLabel, "predicate whose objects become labels")
}
