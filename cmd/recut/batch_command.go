package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/job"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var analysisDir string
	var outputDir string
	var formatNames []string
	var render renderFlags

	cmd := &cobra.Command{
		Use:   "batch <input>...",
		Short: "Render several files concurrently",
		Long: "Render several files concurrently. The analysis for <dir>/<name>.wav is read from\n" +
			"<name>.json in --analysis-dir (default: the input's directory).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, logger, err := ctx.setup(cmd, &render)
			if err != nil {
				return err
			}

			formats, err := parseFormats(formatNames)
			if err != nil {
				return err
			}

			var skipped int
			for _, input := range args {
				dir := analysisDir
				if dir == "" {
					dir = filepath.Dir(input)
				}
				analysis, err := loadAnalysis(filepath.Join(dir, stem(input)+".json"), cfg.MinConfidence)
				if err != nil {
					logger.Error("skipping input", slog.String("input", input), slog.String("error", err.Error()))
					skipped++
					continue
				}

				output := defaultOutputPath(input)
				if outputDir != "" {
					output = filepath.Join(outputDir, filepath.Base(output))
				}

				_, err = deps.RenderService.Submit(cmd.Context(), job.Request{
					InputPath:  input,
					OutputPath: output,
					Analysis:   analysis,
					Exports:    formatTargets(output, "", formats),
				})
				if err != nil {
					return err
				}
			}

			deps.RenderService.Wait()

			jobs, err := deps.RenderService.ListJobs(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(jobs))
			var failed int
			for _, j := range jobs {
				removed, size := "-", "-"
				if j.Report != nil {
					removed = formatDuration(j.Report.RemovedDuration())
					size = fileSize(j.OutputPath)
				}
				if j.Status != job.StatusCompleted {
					failed++
				}
				rows = append(rows, []string{
					filepath.Base(j.InputPath),
					string(j.Status),
					removed,
					size,
					truncate(j.Error, 60),
				})
			}
			headers := []string{"Input", "Status", "Removed", "Size", "Error"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))

			if failed+skipped > 0 {
				return fmt.Errorf("%d of %d inputs did not render", failed+skipped, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&analysisDir, "analysis-dir", "", "Directory holding <name>.json analysis files")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for rendered files (default: beside each input)")
	cmd.Flags().StringSliceVar(&formatNames, "export", nil, "Report formats to write beside each output (json, edl, csv, audacity)")
	render.bind(cmd)

	return cmd
}
