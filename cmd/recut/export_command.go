package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var analysisPath string
	var outputDir string
	var formatNames []string
	var toStdout bool
	var render renderFlags

	cmd := &cobra.Command{
		Use:   "export <input>",
		Short: "Export an analysis as reports without rendering audio",
		Long: "Export an analysis as reports without rendering audio. The edited duration is the\n" +
			"original duration minus the removed duration. <input> names the audio the analysis\n" +
			"belongs to and need not exist.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, _, err := ctx.setup(cmd, &render)
			if err != nil {
				return err
			}

			analysis, err := loadAnalysis(analysisPath, cfg.MinConfidence)
			if err != nil {
				return err
			}
			formats, err := parseFormats(formatNames)
			if err != nil {
				return err
			}

			report := export.ReportFromAnalysis(analysis, args[0])

			if toStdout {
				if len(formats) != 1 {
					return errors.New("--stdout needs exactly one --format")
				}
				return deps.Exporter.Encode(cmd.OutOrStdout(), report, formats[0])
			}

			targets := formatTargets(args[0], outputDir, formats)
			if err := deps.Exporter.Export(cmd.Context(), report, targets); err != nil {
				return err
			}
			printPaths(cmd, "Exported", targetPaths(targets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&analysisPath, "analysis", "a", "", "Analysis JSON with the removals")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the reports (default: beside <input>)")
	cmd.Flags().StringSliceVarP(&formatNames, "format", "f", []string{"json"}, "Formats to write (json, edl, csv, audacity)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the single requested format to stdout")
	cmd.Flags().Float64Var(&render.minConfidence, "min-confidence", 0, "Ignore removals below this confidence (0-1)")
	cmd.Flags().Uint32Var(&render.fps, "fps", 0, "EDL frame rate")
	_ = cmd.MarkFlagRequired("analysis")

	return cmd
}
