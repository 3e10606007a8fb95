package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goldsheep3/clockvid/internal/discovery"
)

func newOverlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "overlay <input|dir>...",
		Short: "Replace each input's picture with a running timer, keeping its audio",
		Long: `Probe each input, render a timer video with the same frame count and
frame rate, and mux it with the input's audio streams (stream copy).
Outputs are written next to the inputs as <name>_clock<ext>.
Directories are expanded to the video files they contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			inputs, err := discovery.ExpandInputs(args, s.logger)
			if err != nil {
				return err
			}
			s.logger.Info("processing inputs", "count", len(inputs))

			batch, err := s.overlay.ProcessBatch(cmd.Context(), inputs)
			if !ctx.flags.json && batch != nil {
				for _, r := range batch.Results {
					fmt.Fprintln(cmd.OutOrStdout(), r.OutputFile)
				}
			}
			return err
		},
	}
}
