package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mthomasen/stimuli-cli/internal/stimulus"
)

var qcCmd = &cobra.Command{
	Use:   "qc <stimulus-table>",
	Short: "Run the standalone quality-control pass over a stimulus table",
	Long:  "Re-validates a persisted stimulus table against every structural invariant, plus the row-count and duplicate-name checks. Exits non-zero when any check fails.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := stimulus.ReadTable(args[0])
		if err != nil {
			return err
		}

		report := stimulus.QCTable(items, cfg.QC)
		printReport(report)

		if !report.OK() {
			zap.L().Error("qc: table failed",
				zap.String("table", args[0]),
				zap.Int("violations", len(report.Violations)),
			)
			return report.Err()
		}

		fmt.Fprintf(os.Stdout, "QC passed: %d items, %d warning(s)\n", len(items), len(report.Warnings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qcCmd)
}
