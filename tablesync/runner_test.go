package tablesync

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/relloyd/dpu/aws/glue"
	"github.com/relloyd/dpu/aws/s3"
	"github.com/relloyd/dpu/aws/s3/mocks"
	"github.com/relloyd/dpu/config"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/logger"
	"github.com/relloyd/dpu/rdbms"
)

type fakeSecrets struct {
	calls map[string]int
}

func (f *fakeSecrets) GetCredentials(_ context.Context, secretId string) (rdbms.Credentials, error) {
	f.calls[secretId]++
	return rdbms.Credentials{Jdbc: "jdbc:mysql://h/db", Username: "u", Password: "p"}, nil
}

const runnerTables = `
tables:
  - {source_schema: kwi_usa, source_tname: orders, target_db: RAW, target_schema: KWI, target_tname: ORDERS, cdc_column: updated_at, primary_key: id, load_type: incremental}
  - {source_schema: kwi_usa, source_tname: stores, target_db: RAW, target_schema: KWI, target_tname: STORES, load_type: full}
`

func newTestRunner(t *testing.T, objects s3.Getter, e *fakeEngine, sec *fakeSecrets) *Runner {
	reg, err := config.NewRegistry([]config.Connection{
		{Name: "kwi_usa_read", Type: "mysql", Secret: "glue-kwi-us-jdbc"},
		{Name: "snowflake_dwprod", Type: "snowflake", Secret: "glue-dwprod01-jdbc"},
		{Name: "bosslogics_dy_data_v2", Type: "mysql"},
	})
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewLogger("dpu", "error", false)
	return &Runner{
		Log:      log,
		Objects:  func(bucket string) s3.Getter { return objects },
		History:  &fakeHistory{runs: []glue.JobRun{run("SUCCEEDED", "2024-04-01 06:00:00")}},
		Profiles: NewProfileCache(reg, sec),
		Executor: NewExecutor(log, e, 0),
	}
}

func TestRunner_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	objects := mocks.NewMockGetter(ctrl)
	objects.EXPECT().Get(gomock.Any(), "config/tables.yaml").Return([]byte(runnerTables), nil)

	e := &fakeEngine{frame: testFrame()}
	sec := &fakeSecrets{calls: map[string]int{}}
	r := newTestRunner(t, objects, e, sec)
	summary, err := r.Run(context.Background(), RunConfig{
		TableList:         s3.Location{Bucket: "bucket", Key: "config/tables.yaml"},
		JobName:           "stage-kwi-usa",
		WatermarkOverride: "N",
		SourceConnection:  "kwi_usa_read",
		TargetConnection:  "snowflake_dwprod",
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.RunId == "" || summary.Watermark != "2024-04-01 06:00:00" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Tables) != 2 || summary.Tables[0].RowCount != 3 {
		t.Fatalf("unexpected table results %+v", summary.Tables)
	}
	if e.readOpts[0].Query != "SELECT * FROM kwi_usa.orders a WHERE updated_at >= STR_TO_DATE('2024-04-01 06:00:00','%Y-%m-%d %H:%i:%s')" {
		t.Fatalf("unexpected query %v", e.readOpts[0].Query)
	}
	if e.writeOpts[0].DbTable != "ORDERS_tmp" || e.writeOpts[1].DbTable != "STORES" {
		t.Fatalf("unexpected write tables %+v", e.writeOpts)
	}
	if sec.calls["glue-kwi-us-jdbc"] != 1 || sec.calls["glue-dwprod01-jdbc"] != 1 {
		t.Fatalf("expected one secret fetch per connection; got %v", sec.calls)
	}
}

func TestRunner_RunErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Test 1 - connection without a secret.
	objects := mocks.NewMockGetter(ctrl)
	objects.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte(runnerTables), nil).AnyTimes()
	r := newTestRunner(t, objects, &fakeEngine{frame: testFrame()}, &fakeSecrets{calls: map[string]int{}})
	_, err := r.Run(context.Background(), RunConfig{
		TableList:        s3.Location{Bucket: "b", Key: "k"},
		JobName:          "j",
		SourceConnection: "bosslogics_dy_data_v2",
		TargetConnection: "snowflake_dwprod",
	})
	var ce errs.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError; got %v", err)
	}

	// Test 2 - the first table failure aborts the run.
	e := &fakeEngine{frame: testFrame(), writeErr: errors.New("boom")}
	r = newTestRunner(t, objects, e, &fakeSecrets{calls: map[string]int{}})
	summary, err := r.Run(context.Background(), RunConfig{
		TableList:        s3.Location{Bucket: "b", Key: "k"},
		JobName:          "j",
		SourceConnection: "kwi_usa_read",
		TargetConnection: "snowflake_dwprod",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(e.writeOpts) != 1 || len(summary.Tables) != 0 {
		t.Fatalf("expected the run to stop after the first table; got %v writes", len(e.writeOpts))
	}

	// Test 3 - missing table list.
	missing := mocks.NewMockGetter(ctrl)
	missing.EXPECT().Get(gomock.Any(), "k").Return(nil, s3.ErrKeyNotFound)
	r = newTestRunner(t, missing, &fakeEngine{}, &fakeSecrets{calls: map[string]int{}})
	_, err = r.Run(context.Background(), RunConfig{
		TableList:        s3.Location{Bucket: "b", Key: "k"},
		JobName:          "j",
		SourceConnection: "kwi_usa_read",
		TargetConnection: "snowflake_dwprod",
	})
	if !errors.Is(err, s3.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound; got %v", err)
	}
}
