package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goldsheep3/clockvid/internal/util"
)

type probeRow struct {
	File        string  `json:"file"`
	TotalFrames int     `json:"total_frames"`
	FrameSource string  `json:"frame_source"`
	FrameRate   string  `json:"frame_rate"`
	FPS         float64 `json:"fps"`
	Duration    float64 `json:"duration_seconds"`
	HasAudio    bool    `json:"has_audio"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <input>...",
		Short: "Show the metadata the overlay would use",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			rows := make([]probeRow, 0, len(args))
			for _, input := range args {
				info, err := s.overlay.Probe(cmd.Context(), input)
				if err != nil {
					return fmt.Errorf("probe %s: %w", input, err)
				}
				fps := info.Rate.Float()
				rows = append(rows, probeRow{
					File:        input,
					TotalFrames: info.TotalFrames,
					FrameSource: string(info.Strategy),
					FrameRate:   info.Rate.String(),
					FPS:         fps,
					Duration:    float64(info.TotalFrames) / fps,
					HasAudio:    info.HasAudio,
				})
			}

			if ctx.flags.json {
				return writeJSON(cmd, rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProbeTable(rows))
			return nil
		},
	}
}

func renderProbeTable(rows []probeRow) string {
	headers := []string{"File", "Frames", "Source", "Rate", "FPS", "Duration", "Audio"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			util.GetFilename(r.File),
			strconv.Itoa(r.TotalFrames),
			r.FrameSource,
			r.FrameRate,
			util.FormatFrameRate(r.FPS),
			util.FormatDuration(r.Duration),
			yesNo(r.HasAudio),
		})
	}
	return renderTable(headers, cells, aligns)
}
