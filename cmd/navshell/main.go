// Command navshell is the CLI surface over the background shell
// supervisor and code navigator: nav/open/snippet/atlas/facet query the
// index, daemon keeps it warm and watching, doctor reports its health.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"navshell/internal/config"
	"navshell/internal/logging"
	"navshell/internal/navigator/index"
)

var (
	verbose   bool
	workspace string
	format    string

	logger *zap.Logger
	navIdx *index.Index
	navCfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "navshell",
	Short: "navshell - code navigator and background shell supervisor CLI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		root := workspaceRoot()
		if err := logging.Initialize(root); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		cfg, err := config.Load(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load .navshell config: %v\n", err)
			cfg = config.Default()
		}
		navCfg = cfg

		navIdx = index.NewIndex(root)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func workspaceRoot() string {
	if workspace != "" {
		if abs, err := filepath.Abs(workspace); err == nil {
			return abs
		}
		return workspace
	}
	wd, _ := os.Getwd()
	return wd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "output format: json, ndjson, text")

	rootCmd.AddCommand(
		navCmd,
		openCmd,
		snippetCmd,
		atlasCmd,
		facetCmd,
		daemonCmd,
		doctorCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
