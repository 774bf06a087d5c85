package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/bootstrap"
)

// bootstrapApplyCmd represents the bootstrap apply command
var bootstrapApplyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Harvest and register everything a plan declares",
	Long: `Harvest and register everything a plan declares.

Authorities that already exist are left untouched, so a plan can be applied
repeatedly.

Example:
  authorityctl bootstrap apply /etc/localauth/bootstrap.yml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := applyBootstrap(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply bootstrap plan: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	bootstrapCmd.AddCommand(bootstrapApplyCmd)
	bootstrapApplyCmd.Flags().Bool("atomic", false, "roll back an authority if any of its sources fails")
}

func applyBootstrap(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	path, err := planFile(args, a.cfg)
	if err != nil {
		return err
	}
	plan, err := bootstrap.LoadFile(path)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	atomic, _ := cmd.Flags().GetBool("atomic")
	report, err := bootstrap.Apply(ctx, plan, a.harvester(atomic), a.vocabularies(), a.logger)
	printReport(report)
	return err
}

func printReport(report *bootstrap.Report) {
	if report == nil {
		return
	}
	for _, name := range report.Created {
		fmt.Printf("Harvested %s\n", name)
	}
	for _, name := range report.Existing {
		fmt.Printf("Skipped %s (already harvested)\n", name)
	}
	fmt.Printf("Registered %d vocabularies\n", report.Registered)
}
