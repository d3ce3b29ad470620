package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"navshell/internal/navigator/index"
)

type doctorReport struct {
	State     string                      `json:"state"`
	FileCount int                         `json:"file_count"`
	Coverage  map[index.CoverageState]int `json:"coverage"`
	Pending   []string                    `json:"pending"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "report the index's health and pending coverage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		snapshot := navIdx.Snapshot()
		_, counts := navIdx.Coverage()
		report := doctorReport{
			State:     navIdx.State(),
			FileCount: len(snapshot.Files),
			Coverage:  counts,
			Pending:   navIdx.PendingPaths(),
		}

		return emit(report, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "state:      %s\n", report.State)
			fmt.Fprintf(&b, "files:      %d\n", report.FileCount)
			fmt.Fprintf(&b, "symbols:    %d\n", len(snapshot.Symbols))
			fmt.Fprintf(&b, "built_at:   %s\n", snapshot.BuiltAt)
			if len(report.Pending) > 0 {
				fmt.Fprintf(&b, "pending:    %d paths\n", len(report.Pending))
			}
			return strings.TrimRight(b.String(), "\n")
		})
	},
}
