package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mthomasen/stimuli-cli/internal/catalog"
)

var cleanOutput string

var cleanCmd = &cobra.Command{
	Use:   "clean <raw-export>",
	Short: "Filter the raw catalog export down to usable Danish products",
	Long:  "Streams the tab-separated catalog export (optionally gzipped), keeps Denmark-scoped rows with a usable display name, and writes the cleaned catalog CSV.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := catalog.CleanFile(cmd.Context(), args[0], cleanOutput, cfg.Clean)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Cleaned %d of %d rows into %s (%d chunks)\n",
			stats.KeptRows, stats.RawRows, cleanOutput, stats.Chunks)
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "catalog_clean.csv", "cleaned catalog CSV path")
	rootCmd.AddCommand(cleanCmd)
}
