package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/storage"
	"github.com/maauso/recut/internal/waveform"
)

func newWaveformCommand(ctx *commandContext) *cobra.Command {
	var resolutionName string
	var outputPath string
	var noCache bool
	var invalidate bool

	cmd := &cobra.Command{
		Use:   "waveform <input>",
		Short: "Compute display peaks for an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, deps, logger, err := ctx.setup(cmd, nil)
			if err != nil {
				return err
			}

			res, err := waveform.ParseResolution(resolutionName)
			if err != nil {
				return err
			}

			gen := deps.Waveforms
			if noCache {
				gen = waveform.NewGenerator(deps.Processor, waveform.WithLogger(logger))
			}
			if invalidate {
				if err := gen.Invalidate(cmd.Context(), args[0]); err != nil {
					return err
				}
			}

			data, err := gen.Generate(cmd.Context(), args[0], res)
			if err != nil {
				return err
			}

			if outputPath == "" {
				return writeJSON(cmd, data)
			}
			err = storage.NewLocalStorage().WriteAtomic(cmd.Context(), outputPath, func(w io.WriteSeeker) error {
				return json.NewEncoder(w).Encode(data)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d peaks to %s\n", len(data.Peaks), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resolutionName, "resolution", "r", string(waveform.Standard), "Resolution: thumbnail, standard, high or full")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write peaks JSON to this path instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the waveform cache")
	cmd.Flags().BoolVar(&invalidate, "invalidate", false, "Drop cached peaks for the input before generating")

	return cmd
}
