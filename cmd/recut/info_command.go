package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info <input>",
		Short: "Show an audio file's native format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, deps, _, err := ctx.setup(cmd, nil)
			if err != nil {
				return err
			}

			info, err := deps.Processor.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Path", info.Path},
				{"Codec", string(info.Codec)},
				{"Duration", fmt.Sprintf("%s (%.3fs)", formatDuration(info.Duration), info.Duration)},
				{"Sample rate", fmt.Sprintf("%d Hz", info.SampleRate)},
				{"Channels", fmt.Sprint(info.Channels)},
				{"Bits per sample", fmt.Sprint(info.BitsPerSample)},
				{"Size", fileSize(info.Path)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	return cmd
}
