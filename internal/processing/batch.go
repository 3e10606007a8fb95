package processing

import (
	"context"
	"fmt"
	"time"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/reporter"
	"github.com/goldsheep3/clockvid/internal/util"
)

// ProcessVideos runs the pipeline for each input in order and returns the
// results in input order. The first failure stops the batch; results for
// the inputs before it are returned alongside the error.
func (p *Pipeline) ProcessVideos(ctx context.Context, inputs []string) ([]Result, error) {
	rep := reporter.OrNull(p.Reporter)
	batch := len(inputs) > 1
	start := time.Now()

	if batch {
		var names []string
		for _, f := range inputs {
			names = append(names, util.GetFilename(f))
		}
		rep.BatchStarted(reporter.BatchStartInfo{
			TotalFiles: len(inputs),
			FileList:   names,
		})
	}

	results := make([]Result, 0, len(inputs))
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			rep.Warning(fmt.Sprintf("Processing cancelled: %v", err))
			return results, cverrors.NewCancelledError(err)
		}

		if batch {
			rep.FileProgress(reporter.FileProgressContext{
				CurrentFile: i + 1,
				TotalFiles:  len(inputs),
			})
		}

		res, err := p.Process(ctx, input)
		if err != nil {
			if batch {
				rep.BatchComplete(batchSummary(results, len(inputs), time.Since(start)))
			}
			return results, err
		}
		results = append(results, *res)
	}

	if batch {
		rep.BatchComplete(batchSummary(results, len(inputs), time.Since(start)))
	}
	rep.OperationComplete(fmt.Sprintf("Processed %d of %d file(s)", len(results), len(inputs)))
	return results, nil
}

func batchSummary(results []Result, total int, elapsed time.Duration) reporter.BatchSummary {
	summary := reporter.BatchSummary{
		SuccessfulCount: len(results),
		TotalFiles:      total,
		TotalDuration:   elapsed,
	}
	for _, r := range results {
		summary.TotalFrames += uint64(r.TotalFrames)
		summary.FileResults = append(summary.FileResults, reporter.FileResult{
			Filename:   util.GetFilename(r.InputFile),
			OutputFile: r.OutputFile,
			Frames:     uint64(r.TotalFrames),
			HasAudio:   r.HasAudio,
			Duration:   r.Duration,
		})
	}
	return summary
}
