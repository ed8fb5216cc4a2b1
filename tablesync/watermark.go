package tablesync

import (
	"context"

	"github.com/relloyd/dpu/aws/glue"
	"github.com/relloyd/dpu/constants"
)

// Watermark is a timestamp of the form YYYY-MM-DD HH:MM:SS used as the lower bound of incremental extracts.
type Watermark string

// JobHistory returns the previous runs of a job.
type JobHistory interface {
	GetJobRuns(ctx context.Context, jobName string) ([]glue.JobRun, error)
}

// ResolveWatermark picks the lower bound for incremental loads.
// A non-empty override other than "N" wins. Otherwise the latest start time of a SUCCEEDED run is used,
// or the default when there are none.
func ResolveWatermark(history []glue.JobRun, override string) Watermark {
	if override != "" && override != constants.WatermarkNoOverride {
		return Watermark(override)
	}
	best := ""
	for _, r := range history {
		if r.State != constants.JobRunStateSucceeded {
			continue
		}
		// The format sorts the same as the times it describes.
		if s := r.StartedOn.Format(constants.TimeFormatWatermark); s > best {
			best = s
		}
	}
	if best == "" {
		return constants.WatermarkDefault
	}
	return Watermark(best)
}

// FetchWatermark loads history for jobName and resolves the watermark.
// Provider errors are returned unchanged.
func FetchWatermark(ctx context.Context, h JobHistory, jobName string, override string) (Watermark, error) {
	runs, err := h.GetJobRuns(ctx, jobName)
	if err != nil {
		return "", err
	}
	return ResolveWatermark(runs, override), nil
}
