package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mthomasen/stimuli-cli/internal/catalog"
	"github.com/mthomasen/stimuli-cli/internal/flags"
)

var flagsOutput string

var flagsCmd = &cobra.Command{
	Use:   "flags <clean-catalog>",
	Short: "Derive design flags from the cleaned catalog",
	Long:  "Reads the cleaned catalog CSV and derives the eco grade, organic badge, green wording, and Danish-language flags the sampler partitions on.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := catalog.ReadClean(args[0])
		if err != nil {
			return err
		}

		flagged := flags.Engineer(records)
		if err := flags.WriteFlags(flagged, flagsOutput); err != nil {
			return err
		}

		s := flags.Summarize(flagged)
		zap.L().Info("flags: engineering complete",
			zap.Int("records", s.Records),
			zap.Int("with_grade", s.WithGrade),
			zap.Int("eco_signal", s.EcoSignal),
			zap.Int("organic_badge", s.OrganicBadge),
			zap.Int("lang_da", s.LangDA),
			zap.Int("green_words", s.GreenWords),
		)

		fmt.Fprintf(os.Stdout, "Flagged %d records into %s\n", s.Records, flagsOutput)
		return nil
	},
}

func init() {
	flagsCmd.Flags().StringVarP(&flagsOutput, "output", "o", "catalog_flags.csv", "flagged record CSV path")
	rootCmd.AddCommand(flagsCmd)
}
