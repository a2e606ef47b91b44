package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mthomasen/stimuli-cli/internal/model"
	"github.com/mthomasen/stimuli-cli/internal/stimulus"
)

var (
	buildOutput      string
	buildXLSX        string
	buildSeed        int64
	buildNoOverrides bool
	buildDryRun      bool
)

var buildCmd = &cobra.Command{
	Use:   "build <flags-file>",
	Short: "Build and validate the balanced stimulus set",
	Long:  "Samples a balanced stimulus set from the flagged record snapshot using the configured seed, applies name overrides, validates every invariant, and writes the presentation table. The run and its outcome are recorded in the store.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stimCfg := cfg.Stimulus
		if cmd.Flags().Changed("seed") {
			stimCfg.Seed = buildSeed
		}

		overrides := stimulus.DefaultOverrides
		if buildNoOverrides {
			overrides = nil
		} else if stimCfg.OverridesFile != "" {
			loaded, err := stimulus.LoadOverrides(stimCfg.OverridesFile)
			if err != nil {
				return err
			}
			overrides = loaded
		}

		records, err := stimulus.LoadFlagged(args[0])
		if err != nil {
			return err
		}

		params := model.BuildParams{
			InputPath:      args[0],
			OutputPath:     buildOutput,
			Seed:           stimCfg.Seed,
			TargetPerCombo: stimCfg.TargetPerCombo,
			SalienceSplit:  stimCfg.SalienceSplit,
		}

		if buildDryRun {
			set, report, err := stimulus.NewBuilder(stimCfg, overrides).Build(records)
			printReport(report)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Dry run: %d items built, nothing written\n", len(set.Items))
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, params)
		if err != nil {
			return err
		}
		zap.L().Info("build: run created", zap.String("run_id", run.ID))

		if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusSampling); err != nil {
			return err
		}

		set, report, buildErr := stimulus.NewBuilder(stimCfg, overrides).Build(records)
		printReport(report)

		if buildErr != nil {
			result := &model.BuildResult{Report: report, Error: buildErr.Error()}
			if set != nil {
				result.Items = len(set.Items)
				result.CellCounts = stimulus.CellCounts(set.Items)
			}
			if err := st.CompleteRun(ctx, run.ID, model.RunStatusFailed, result); err != nil {
				zap.L().Error("build: record failure", zap.Error(err))
			}
			return buildErr
		}

		if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusValidating); err != nil {
			return err
		}
		if err := st.SaveStimulusSet(ctx, run.ID, set); err != nil {
			return err
		}

		if err := stimulus.WriteTable(set.Items, buildOutput); err != nil {
			return err
		}
		if buildXLSX != "" {
			if err := stimulus.WriteXLSX(set.Items, buildXLSX); err != nil {
				return err
			}
		}

		result := &model.BuildResult{
			Items:      len(set.Items),
			CellCounts: stimulus.CellCounts(set.Items),
			Report:     report,
		}
		if err := st.CompleteRun(ctx, run.ID, model.RunStatusComplete, result); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Built %d items (seed %d) into %s\n", len(set.Items), set.Seed, buildOutput)
		return nil
	},
}

// printReport writes warnings and violations to stderr so the table on
// stdout pipes cleanly.
func printReport(report *model.Report) {
	if report == nil {
		return
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for _, v := range report.Violations {
		fmt.Fprintf(os.Stderr, "violation: %s\n", v)
	}
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "stimuli.csv", "stimulus table CSV path")
	buildCmd.Flags().StringVar(&buildXLSX, "xlsx", "", "also write the table as XLSX to this path")
	buildCmd.Flags().Int64Var(&buildSeed, "seed", 0, "sampling seed (default from config)")
	buildCmd.Flags().BoolVar(&buildNoOverrides, "no-overrides", false, "skip display-name overrides")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "build and validate without writing files or recording a run")
	rootCmd.AddCommand(buildCmd)
}
