package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/bootstrap"
)

// bootstrapWatchCmd represents the bootstrap watch command
var bootstrapWatchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Watch a plan file and apply it whenever it changes",
	Long: `Apply a plan, then watch the file and apply it again whenever it changes.

Re-applying only harvests the authorities that do not exist yet and registers
new vocabularies.

Example:
  authorityctl bootstrap watch /etc/localauth/bootstrap.yml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchBootstrap(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch bootstrap plan: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	bootstrapCmd.AddCommand(bootstrapWatchCmd)
}

func watchBootstrap(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	path, err := planFile(args, a.cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are noticed
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signalContext()
	defer stop()

	queue := authority.NewQueue(a.logger)
	defer queue.Shutdown()

	h := a.harvester(false)
	registry := a.vocabularies()
	apply := func() {
		// Applies run as jobs under one name so overlapping changes queue up
		queue.Submit(path, func(ctx context.Context) (*authority.HarvestResult, error) {
			plan, err := bootstrap.LoadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
				return nil, err
			}
			report, err := bootstrap.Apply(ctx, plan, h, registry, a.logger)
			printReport(report)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error applying plan: %v\n", err)
			}
			return nil, err
		})
	}

	fmt.Printf("Watching %s for changes\n", path)
	apply()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] Plan modified, applying...\n", time.Now().Format(time.RFC3339))
				apply()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
