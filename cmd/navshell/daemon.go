package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "rebuild the index and keep it warm under the debounced watcher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fmt.Fprintln(os.Stderr, "navshell: building index...")
		if err := navIdx.Rebuild(ctx); err != nil {
			return fmt.Errorf("initial rebuild: %w", err)
		}
		fmt.Fprintln(os.Stderr, "navshell: watching for changes")

		if err := navIdx.StartWatching(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer navIdx.StopWatching()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "navshell: shutting down")
		case <-ctx.Done():
		}
		return nil
	},
}
