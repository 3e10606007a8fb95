package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goldsheep3/clockvid/internal/timecode"
)

func newTimerCommand(ctx *commandContext) *cobra.Command {
	var (
		fps    float64
		output string
	)

	cmd := &cobra.Command{
		Use:   "timer <H:MM:SS[.T]|frames>",
		Short: "Render a standalone timer video",
		Long: `Render a black 320x240 video whose frames show the elapsed time.
The length is either a H:MM:SS[.T] duration or a frame count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := timecode.ParseTimeSpec(args[0])
			if err != nil {
				return err
			}

			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			path, err := s.overlay.RenderTimer(cmd.Context(), spec, fps, output)
			if err != nil {
				return err
			}
			if !ctx.flags.json {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&fps, "fps", 30, "Frame rate of the timer video")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output video path")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newLabelCommand() *cobra.Command {
	var fps float64

	cmd := &cobra.Command{
		Use:         "label <frame>...",
		Short:       "Print the timer text shown on the given frames",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %v", fps)
			}
			for _, a := range args {
				i, err := strconv.Atoi(a)
				if err != nil || i < 0 {
					return fmt.Errorf("invalid frame index %q", a)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, timecode.Label(i, fps))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&fps, "fps", 30, "Frame rate used to compute labels")
	return cmd
}
