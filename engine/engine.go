// Package engine moves tabular data between databases for table syncs.
package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/logger"
	"github.com/relloyd/dpu/rdbms"
	"github.com/relloyd/dpu/rdbms/shared"
	"github.com/relloyd/dpu/stream"
)

// ReadOptions says what to extract from a source connection.
type ReadOptions struct {
	Query string `errorTxt:"query" mandatory:"yes"`
}

// WriteOptions says where and how to load a frame into a target connection.
type WriteOptions struct {
	DbTable     string `errorTxt:"dbtable" mandatory:"yes"`
	Database    string
	Schema      string
	PreActions  []string // run in order before the rows are inserted.
	PostActions []string // run in order after the rows are inserted.
	BatchSize   int      // rows per INSERT statement; zero means constants.InsertBatchSizeDefault.
}

// Engine reads frames from and writes frames to databases.
type Engine interface {
	Read(ctx context.Context, profile rdbms.ConnectionProfile, o ReadOptions) (*stream.Frame, error)
	Write(ctx context.Context, frame *stream.Frame, profile rdbms.ConnectionProfile, o WriteOptions) error
}

// Opener opens a connection for profile, optionally overriding its database and schema.
type Opener func(ctx context.Context, log logger.Logger, profile rdbms.ConnectionProfile, database string, schema string) (shared.Connector, error)

// SqlEngine implements Engine using database/sql drivers.
type SqlEngine struct {
	Log  logger.Logger
	Open Opener
}

func NewSqlEngine(log logger.Logger) *SqlEngine {
	return &SqlEngine{Log: log, Open: rdbms.OpenDbConnection}
}

// Read runs the query against the profile's database and returns all rows.
func (e *SqlEngine) Read(ctx context.Context, profile rdbms.ConnectionProfile, o ReadOptions) (*stream.Frame, error) {
	if err := helper.ValidateStructIsPopulated(o); err != nil {
		return nil, errs.NewConfigurationError("engine read", "%v", err)
	}
	conn, err := e.Open(ctx, e.Log, profile, "", "")
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	rows, err := conn.QueryContext(ctx, o.Query)
	if err != nil {
		return nil, errs.External(profile.Dialect, "query", err)
	}
	defer rows.Close()
	f, err := scanRows(rows)
	if err != nil {
		return nil, errs.External(profile.Dialect, "query", err)
	}
	e.Log.Debug("read ", f.Count(), " rows from ", profile.Name)
	return f, nil
}

func scanRows(rows shared.Rows) (*stream.Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "error fetching columns")
	}
	f := stream.NewFrame(cols)
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok { // text columns arrive as bytes from some drivers.
				values[i] = string(b)
			}
		}
		if err = f.AddRow(values); err != nil {
			return nil, err
		}
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading rows")
	}
	return f, nil
}

// Write runs pre-actions, inserts the frame into o.DbTable in batches and runs post-actions.
// The first failure aborts the write.
func (e *SqlEngine) Write(ctx context.Context, frame *stream.Frame, profile rdbms.ConnectionProfile, o WriteOptions) error {
	if err := helper.ValidateStructIsPopulated(o); err != nil {
		return errs.NewConfigurationError("engine write", "%v", err)
	}
	if err := helper.ValidateIdentifiers("column", frame.Columns); err != nil {
		return errs.NewConfigurationError("engine write", "%v", err)
	}
	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = constants.InsertBatchSizeDefault
	}
	conn, err := e.Open(ctx, e.Log, profile, o.Database, o.Schema)
	if err != nil {
		return err
	}
	defer conn.Close()
	for _, stmt := range o.PreActions {
		if err = e.exec(ctx, conn, profile, "preaction", stmt); err != nil {
			return err
		}
	}
	if frame.Count() > 0 {
		if err = e.insert(ctx, conn, profile, frame, o, batchSize); err != nil {
			return err
		}
	}
	for _, stmt := range o.PostActions {
		if err = e.exec(ctx, conn, profile, "postaction", stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *SqlEngine) exec(ctx context.Context, conn shared.Connector, profile rdbms.ConnectionProfile, op string, stmt string) error {
	e.Log.Debug("executing ", op, ": ", stmt)
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return errs.External(profile.Dialect, op, errors.Wrapf(err, "error executing %q", stmt))
	}
	return nil
}

func (e *SqlEngine) insert(ctx context.Context, conn shared.Connector, profile rdbms.ConnectionProfile, frame *stream.Frame, o WriteOptions, batchSize int) error {
	batch, err := conn.GetDmlGenerator().NewInsertGenerator(&shared.SqlStatementGeneratorConfig{
		Log:          e.Log,
		OutputSchema: helper.JoinDotted(o.Database, o.Schema),
		OutputTable:  o.DbTable,
		Columns:      frame.Columns,
	})
	if err != nil {
		return errs.NewConfigurationError("engine write", "%v", err)
	}
	flush := func() error {
		if batch.RowsInBatch() == 0 {
			return nil
		}
		if _, err := conn.ExecContext(ctx, batch.GetStatement(), batch.GetValues()...); err != nil {
			return errs.External(profile.Dialect, "insert", errors.Wrapf(err, "error inserting into %v", o.DbTable))
		}
		return nil
	}
	batch.InitBatch(batchSize)
	var n int64
	for _, row := range frame.Rows {
		full, err := batch.AddValuesToBatch(row)
		if err != nil {
			return errors.Wrap(err, "error adding row to INSERT batch")
		}
		if full {
			if err = flush(); err != nil {
				return err
			}
			n += int64(batch.RowsInBatch())
			batch.InitBatch(batchSize)
		}
	}
	n += int64(batch.RowsInBatch())
	if err = flush(); err != nil {
		return err
	}
	e.Log.Debug("inserted ", n, " rows into ", o.DbTable)
	return nil
}
