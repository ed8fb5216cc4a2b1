package tablesync

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/engine"
	"github.com/relloyd/dpu/logger"
	"github.com/relloyd/dpu/rdbms"
)

// Executor carries out plans using an engine.
type Executor struct {
	Log       logger.Logger
	Engine    engine.Engine
	BatchSize int
	Now       func() time.Time // stamps _LOAD_TIMESTAMP; defaults to time.Now.
}

func NewExecutor(log logger.Logger, e engine.Engine, batchSize int) *Executor {
	return &Executor{Log: log, Engine: e, BatchSize: batchSize, Now: time.Now}
}

// Execute reads the plan query from source and writes the rows to target.
// It returns the number of rows read from the source.
func (x *Executor) Execute(ctx context.Context, source rdbms.ConnectionProfile, target rdbms.ConnectionProfile, spec TableSpec, plan *Plan) (int64, error) {
	log := x.Log.WithFields(map[string]interface{}{
		"source":    spec.SourceName().String(),
		"target":    spec.TargetName().String(),
		"load_type": string(spec.LoadType),
	})
	log.Info("source: ", spec.SourceName(), " ", spec.LoadType)
	log.Info("target: ", spec.TargetName(), " ", spec.LoadType)
	log.WithFields(map[string]interface{}{"sql_query": plan.Query}).Info("extracting")

	frame, err := x.Engine.Read(ctx, source, engine.ReadOptions{Query: plan.Query})
	if err != nil {
		return 0, errors.Wrapf(err, "error reading %v", spec.SourceName())
	}
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	frame = frame.WithLoadTimestamp(constants.LoadTimestampFieldName, now())
	count := frame.Count()
	log.WithFields(map[string]interface{}{"row_count": count}).Info("source row count: ", count)

	if spec.LoadType == LoadTypeIncremental {
		log.WithFields(map[string]interface{}{
			"preaction_query":  plan.PreActions,
			"postaction_query": plan.PostActions,
		}).Info("writing")
	}
	err = x.Engine.Write(ctx, frame, target, engine.WriteOptions{
		DbTable:     plan.WriteTable,
		Database:    spec.TargetDb,
		Schema:      spec.TargetSchema,
		PreActions:  plan.PreActions,
		PostActions: plan.PostActions,
		BatchSize:   x.BatchSize,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "error writing %v", spec.TargetName())
	}
	log.Info("Complete: ", spec.TargetName())
	return count, nil
}
