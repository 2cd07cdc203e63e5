package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/edit"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formatDuration renders seconds as m:ss or h:mm:ss.
func formatDuration(seconds float64) string {
	total := int(max(seconds, 0))
	hours, rem := total/3600, total%3600
	mins, secs := rem/60, rem%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func formatPercent(part, whole float64) string {
	if whole <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/whole*100)
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return humanize.Bytes(uint64(info.Size())) // #nosec G115 - file sizes are non-negative
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// printSummary writes the render totals and the per-reason breakdown.
func printSummary(cmd *cobra.Command, report *edit.EditReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := [][]string{
		{"Original", formatDuration(report.OriginalDuration)},
		{"Removed", formatDuration(report.RemovedDuration())},
		{"Output", formatDuration(report.EditedDuration)},
		{"Reduction", formatPercent(report.RemovedDuration(), report.OriginalDuration)},
		{"Edits", humanize.Comma(int64(len(report.Edits)))},
		{"Output file", fmt.Sprintf("%s (%s)", report.OutputPath, fileSize(report.OutputPath))},
	}
	fmt.Fprintln(out, renderTable([]string{"Item", "Value"}, rows, []columnAlignment{alignLeft, alignRight}, colorize))

	counts := make(map[string]int)
	durations := make(map[string]float64)
	for _, e := range report.Edits {
		counts[e.Reason]++
		durations[e.Reason] += e.Duration()
	}
	if len(counts) == 0 {
		return
	}

	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, r)
	}
	slices.Sort(reasons)

	statRows := make([][]string, 0, len(reasons))
	for _, r := range reasons {
		statRows = append(statRows, []string{r, fmt.Sprint(counts[r]), fmt.Sprintf("%.2fs", durations[r])})
	}
	fmt.Fprintln(out, renderTable([]string{"Reason", "Count", "Duration"}, statRows,
		[]columnAlignment{alignLeft, alignRight, alignRight}, colorize))
}

func printPaths(cmd *cobra.Command, label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", label, strings.Join(paths, ", "))
}
