package tablesync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/relloyd/dpu/engine"
	"github.com/relloyd/dpu/logger"
	"github.com/relloyd/dpu/rdbms"
	"github.com/relloyd/dpu/stream"
)

type fakeEngine struct {
	frame     *stream.Frame
	readErr   error
	writeErr  error
	readOpts  []engine.ReadOptions
	writeOpts []engine.WriteOptions
	written   []*stream.Frame
	readFrom  []string
	writeTo   []string
}

func (e *fakeEngine) Read(_ context.Context, p rdbms.ConnectionProfile, o engine.ReadOptions) (*stream.Frame, error) {
	e.readOpts = append(e.readOpts, o)
	e.readFrom = append(e.readFrom, p.Name)
	if e.readErr != nil {
		return nil, e.readErr
	}
	return e.frame, nil
}

func (e *fakeEngine) Write(_ context.Context, f *stream.Frame, p rdbms.ConnectionProfile, o engine.WriteOptions) error {
	e.writeOpts = append(e.writeOpts, o)
	e.written = append(e.written, f)
	e.writeTo = append(e.writeTo, p.Name)
	return e.writeErr
}

func testFrame() *stream.Frame {
	f := stream.NewFrame([]string{"ID"})
	_ = f.AddRow([]interface{}{1})
	_ = f.AddRow([]interface{}{2})
	_ = f.AddRow([]interface{}{3})
	return f
}

func testSpec(loadType LoadType, key string) TableSpec {
	return TableSpec{
		SourceDb: "kwi", SourceSchema: "kwi_usa", SourceTable: "orders",
		TargetDb: "RAW", TargetSchema: "KWI", TargetTable: "ORDERS",
		CdcColumn: "updated_at", PrimaryKey: key, LoadType: loadType,
	}
}

func TestExecutor_Full(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	e := &fakeEngine{frame: testFrame()}
	x := NewExecutor(logger.NewLogger("dpu", "error", false), e, 500)
	x.Now = func() time.Time { return ts }
	src := rdbms.ConnectionProfile{Name: "kwi_usa_read", Dialect: "mysql"}
	tgt := rdbms.ConnectionProfile{Name: "snowflake_dwprod", Dialect: "snowflake"}
	spec := testSpec(LoadTypeFull, "")
	plan, err := BuildPlan(spec, src, "")
	if err != nil {
		t.Fatal(err)
	}
	n, err := x.Execute(context.Background(), src, tgt, spec, plan)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows; got %v", n)
	}
	if e.readOpts[0].Query != "SELECT * FROM kwi_usa.orders" || e.readFrom[0] != "kwi_usa_read" {
		t.Fatalf("unexpected read %+v from %v", e.readOpts[0], e.readFrom[0])
	}
	w := e.writeOpts[0]
	if w.DbTable != "ORDERS" || w.Database != "RAW" || w.Schema != "KWI" || w.BatchSize != 500 || e.writeTo[0] != "snowflake_dwprod" {
		t.Fatalf("unexpected write options %+v to %v", w, e.writeTo[0])
	}
	if len(w.PreActions) != 1 || w.PreActions[0] != "TRUNCATE TABLE RAW.KWI.ORDERS" {
		t.Fatalf("unexpected preactions %v", w.PreActions)
	}
	f := e.written[0]
	idx := f.ColumnIndex("_LOAD_TIMESTAMP")
	if idx < 0 || f.Rows[2][idx] != ts {
		t.Fatalf("expected load timestamp on every row; got %v", f.Rows)
	}
}

func TestExecutor_IncrementalMerge(t *testing.T) {
	e := &fakeEngine{frame: testFrame()}
	x := NewExecutor(logger.NewLogger("dpu", "error", false), e, 0)
	src := rdbms.ConnectionProfile{Name: "src", Dialect: "oracle"}
	spec := testSpec(LoadTypeIncremental, "id")
	plan, err := BuildPlan(spec, src, "2024-03-01 00:00:00")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = x.Execute(context.Background(), src, rdbms.ConnectionProfile{Name: "tgt"}, spec, plan); err != nil {
		t.Fatal(err)
	}
	w := e.writeOpts[0]
	if w.DbTable != "ORDERS_tmp" || len(w.PreActions) != 1 || len(w.PostActions) != 3 {
		t.Fatalf("unexpected write options %+v", w)
	}
	if e.readOpts[0].Query != plan.Query {
		t.Fatalf("expected predicate query; got %v", e.readOpts[0].Query)
	}
}

func TestExecutor_Errors(t *testing.T) {
	src := rdbms.ConnectionProfile{Name: "src", Dialect: "mysql"}
	spec := testSpec(LoadTypeFull, "")
	plan, _ := BuildPlan(spec, src, "")
	boom := errors.New("boom")

	// Test 1 - read failure stops before the write.
	e := &fakeEngine{readErr: boom}
	x := NewExecutor(logger.NewLogger("dpu", "error", false), e, 0)
	if _, err := x.Execute(context.Background(), src, src, spec, plan); !errors.Is(err, boom) {
		t.Fatalf("expected read error; got %v", err)
	}
	if len(e.writeOpts) != 0 {
		t.Fatal("expected no write after a failed read")
	}

	// Test 2 - write failure is returned.
	e = &fakeEngine{frame: testFrame(), writeErr: boom}
	x = NewExecutor(logger.NewLogger("dpu", "error", false), e, 0)
	if _, err := x.Execute(context.Background(), src, src, spec, plan); !errors.Is(err, boom) {
		t.Fatalf("expected write error; got %v", err)
	}
}
