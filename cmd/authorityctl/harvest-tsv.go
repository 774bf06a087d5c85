package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/config"
)

// harvestTSVCmd represents the harvest tsv command
var harvestTSVCmd = &cobra.Command{
	Use:   "tsv <name> <source>...",
	Short: "Harvest an authority from tab-separated sources",
	Long: `Harvest an authority from tab-separated sources.

Each line is "id<TAB>code<TAB>label". The entry uri is --prefix + id + "/"
and the label is the third column. Lines with fewer than three fields fail
the harvest unless --skip-malformed is set.

Example:
  authorityctl harvest tsv languages ./languages.tsv --prefix http://id.loc.gov/vocabulary/languages/`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		prefix, _ := cmd.Flags().GetString("prefix")

		name, sources := args[0], args[1:]
		err := runHarvest(cmd, name, func(ctx context.Context, h *authority.Harvester, cfg *config.AuthorityConfig) (*authority.HarvestResult, error) {
			skip := cfg.TSVSkipMalformed
			if cmd.Flags().Changed("skip-malformed") {
				skip, _ = cmd.Flags().GetBool("skip-malformed")
			}
			return h.HarvestTSV(ctx, name, sources, authority.TSVOptions{Prefix: prefix, SkipMalformed: skip})
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to harvest: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	harvestCmd.AddCommand(harvestTSVCmd)
	harvestTSVCmd.Flags().String("prefix", "", "prepended to the id column to build each uri")
	harvestTSVCmd.Flags().Bool("skip-malformed", false, "skip lines with fewer than three fields (default from tsv_skip_malformed)")
}
