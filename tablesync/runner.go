// Package tablesync copies tables from operational databases into the warehouse, either in full or
// incrementally from a watermark taken from the job's own run history.
package tablesync

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/aws/s3"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/logger"
	"github.com/rs/xid"
)

// RunConfig holds the parameters of one job run.
type RunConfig struct {
	TableList         s3.Location `errorTxt:"table list location"`
	JobName           string      `errorTxt:"job name" mandatory:"yes"`
	WatermarkOverride string      // "N" or empty means resolve from job history.
	SourceConnection  string      `errorTxt:"source connection" mandatory:"yes"`
	TargetConnection  string      `errorTxt:"target connection" mandatory:"yes"`
}

// TableResult is the outcome of loading one table.
type TableResult struct {
	Spec     TableSpec
	RowCount int64
	Elapsed  time.Duration
}

// RunSummary is returned by Runner.Run.
type RunSummary struct {
	RunId     string
	Watermark Watermark
	Tables    []TableResult
}

// Runner wires the job's collaborators together.
type Runner struct {
	Log      logger.Logger
	Objects  func(bucket string) s3.Getter
	History  JobHistory
	Profiles *ProfileCache
	Executor *Executor
}

// Run loads every table in the table list in order. The first failure aborts the run.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*RunSummary, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, errors.Wrap(err, "bad run config")
	}
	summary := &RunSummary{RunId: xid.New().String()}
	log := r.Log.WithFields(map[string]interface{}{"run_id": summary.RunId, "job_name": cfg.JobName})

	b, err := r.Objects(cfg.TableList.Bucket).Get(ctx, cfg.TableList.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading table list %v", cfg.TableList)
	}
	tables, err := ParseTableList(b)
	if err != nil {
		return nil, err
	}
	log.Info("loaded ", len(tables), " tables from ", cfg.TableList)

	summary.Watermark, err = FetchWatermark(ctx, r.History, cfg.JobName, cfg.WatermarkOverride)
	if err != nil {
		return nil, errors.Wrap(err, "error resolving watermark")
	}
	log.Info("using watermark ", summary.Watermark)

	source, err := r.Profiles.Get(ctx, cfg.SourceConnection)
	if err != nil {
		return nil, err
	}
	target, err := r.Profiles.Get(ctx, cfg.TargetConnection)
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		start := time.Now()
		plan, err := BuildPlan(t, source, summary.Watermark)
		if err != nil {
			return summary, err
		}
		n, err := r.Executor.Execute(ctx, source, target, t, plan)
		if err != nil {
			return summary, err
		}
		summary.Tables = append(summary.Tables, TableResult{Spec: t, RowCount: n, Elapsed: time.Since(start)})
	}
	var total int64
	for _, t := range summary.Tables {
		total += t.RowCount
	}
	log.WithFields(map[string]interface{}{"tables": len(summary.Tables), "rows": total}).Info("run complete")
	return summary, nil
}
