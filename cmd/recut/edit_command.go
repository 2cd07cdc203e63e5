package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/export"
	"github.com/maauso/recut/internal/job"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var analysisPath string
	var outputPath string
	var jsonOutput bool
	var render renderFlags
	var exports exportFlags

	cmd := &cobra.Command{
		Use:   "edit <input>",
		Short: "Remove the analysed intervals from an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, _, err := ctx.setup(cmd, &render)
			if err != nil {
				return err
			}

			analysis, err := loadAnalysis(analysisPath, cfg.MinConfidence)
			if err != nil {
				return err
			}

			input := args[0]
			if outputPath == "" {
				outputPath = defaultOutputPath(input)
			}
			targets := exports.targets()

			j, err := deps.RenderService.Run(cmd.Context(), job.Request{
				InputPath:  input,
				OutputPath: outputPath,
				Analysis:   analysis,
				Exports:    targets,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, export.NewJSONReport(j.Report, time.Now()))
			}
			printSummary(cmd, j.Report)
			printPaths(cmd, "Exported", targetPaths(targets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&analysisPath, "analysis", "a", "", "Analysis JSON with the removals to apply")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output WAV path (default <input>_edited.wav)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	render.bind(cmd)
	exports.bind(cmd)
	_ = cmd.MarkFlagRequired("analysis")

	return cmd
}
