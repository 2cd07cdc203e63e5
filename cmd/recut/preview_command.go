package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var analysisPath string
	var jsonOutput bool
	var render renderFlags

	cmd := &cobra.Command{
		Use:   "preview <input>",
		Short: "Show where each cut would land without rendering",
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

			edits, err := deps.Editor.Preview(cmd.Context(), args[0], analysis)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, edits)
			}

			out := cmd.OutOrStdout()
			if len(edits) == 0 {
				fmt.Fprintln(out, "No edits would be applied.")
				return nil
			}

			rows := make([][]string, 0, len(edits))
			var total float64
			for i, e := range edits {
				total += e.Duration
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					fmt.Sprintf("%.3f - %.3f", e.OriginalStart, e.OriginalEnd),
					fmt.Sprintf("%.3f - %.3f", e.AdjustedStart, e.AdjustedEnd),
					fmt.Sprintf("%.3fs", e.Duration),
					e.Reason,
					truncate(e.Text, 40),
					fmt.Sprintf("%.0f%%", e.Confidence*100),
				})
			}
			headers := []string{"#", "Original", "Adjusted", "Duration", "Reason", "Text", "Confidence"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))
			fmt.Fprintf(out, "%d edits, %s removed\n", len(edits), formatDuration(total))
			return nil
		},
	}

	cmd.Flags().StringVarP(&analysisPath, "analysis", "a", "", "Analysis JSON with the removals to apply")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the planned edits as JSON")
	render.bind(cmd)
	_ = cmd.MarkFlagRequired("analysis")

	return cmd
}
