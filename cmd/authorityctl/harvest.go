package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/config"
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Create a local authority from external sources",
	Long: `Create a local authority from RDF or TSV sources.

Harvesting a name that already exists does nothing. A harvest that fails
after the authority was created leaves a partial authority behind; remove it
with "authorityctl authority delete <name>" before retrying, or pass --atomic.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'harvest' requires a subcommand (rdf, tsv)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(harvestCmd)
	harvestCmd.PersistentFlags().Bool("atomic", false, "roll back the authority if any source fails")
}

// runHarvest runs fn as a queued job so that SIGINT cancels it cleanly
func runHarvest(cmd *cobra.Command, name string, fn func(ctx context.Context, h *authority.Harvester, cfg *config.AuthorityConfig) (*authority.HarvestResult, error)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	atomic, _ := cmd.Flags().GetBool("atomic")
	h := a.harvester(atomic)

	ctx, stop := signalContext()
	defer stop()

	queue := authority.NewQueue(a.logger)
	defer queue.Shutdown()

	id := queue.Submit(name, func(ctx context.Context) (*authority.HarvestResult, error) {
		return fn(ctx, h, a.cfg)
	})

	status, err := queue.Wait(ctx, id)
	if err != nil {
		queue.Cancel(id)
		return err
	}
	if status.Err != nil {
		var partial *authority.PartialHarvestError
		if errors.As(status.Err, &partial) {
			fmt.Fprintf(os.Stderr, "Authority %q was left with %d entries\n", partial.Authority, partial.Written)
		}
		return status.Err
	}

	printHarvestResult(status.Result)
	return nil
}

func printHarvestResult(result *authority.HarvestResult) {
	if !result.Created {
		fmt.Printf("Authority %q already exists, nothing harvested\n", result.Authority.Name)
		return
	}
	fmt.Printf("Harvested %d entries into %q", result.Entries, result.Authority.Name)
	if result.Skipped > 0 {
		fmt.Printf(" (%d malformed lines skipped)", result.Skipped)
	}
	fmt.Println()
}
