package cmd

import (
	"context"
	"fmt"

	"github.com/relloyd/dpu/aws/glue"
	"github.com/relloyd/dpu/aws/s3"
	c "github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/engine"
	"github.com/relloyd/dpu/tablesync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   c.ActionFuncsCommandSync,
	Short: "Sync tables from operational databases into the warehouse",
}

type syncTablesConfig struct {
	LogLevel         string
	AwsRegion        string
	ConnectionsFile  string
	TableListUrl     string
	JobName          string
	Watermark        string
	SourceConnection string
	TargetConnection string
	BatchSize        int
}

var syncTablesCfg = syncTablesConfig{}

var syncTablesCmd = &cobra.Command{
	Use:   c.ActionFuncsSubCommandTables,
	Short: "Load every table in a table list, in full or from the job's watermark",
	Long: `Read the YAML table list from S3 and load each table from the source connection into
the target connection, in order, stopping at the first failure.

- FULL loads truncate the target table and reload it.
- INCREMENTAL loads copy rows changed since the watermark (or within the lookback window) into
  <table>_tmp and MERGE them into the target on the primary key.

The watermark is the start time of the job's last successful Glue run unless --watermark is
given. Rows are stamped with _LOAD_TIMESTAMP.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncTables()
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncTablesCmd)
	syncTablesCmd.Flags().SortFlags = false
	switches.addFlag(syncTablesCmd, &syncTablesCfg.TableListUrl, "table-list", "", true, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.JobName, "job-name", "", true, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.SourceConnection, "source-connection", "", true, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.TargetConnection, "target-connection", "", true, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.Watermark, "watermark", c.WatermarkNoOverride, false, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.BatchSize, "batch-size", fmt.Sprintf("%v", c.InsertBatchSizeDefault), false, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.ConnectionsFile, "connections-file", "", false, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.AwsRegion, "aws-region", "", false, "")
	switches.addFlag(syncTablesCmd, &syncTablesCfg.LogLevel, "log-level", "warn", false, "")
}

func runSyncTables() error {
	cfg := syncTablesCfg
	if err := requireFlags(map[string]string{
		"table-list":        cfg.TableListUrl,
		"job-name":          cfg.JobName,
		"source-connection": cfg.SourceConnection,
		"target-connection": cfg.TargetConnection,
	}); err != nil {
		return err
	}
	log := newLogger("dpu-sync", cfg.LogLevel)
	loc, err := s3.ParseUrl(cfg.TableListUrl)
	if err != nil {
		return err
	}
	sess, err := newAwsSession(cfg.AwsRegion)
	if err != nil {
		return err
	}
	profiles, err := newProfileCache(sess, cfg.ConnectionsFile)
	if err != nil {
		return err
	}
	r := &tablesync.Runner{
		Log:      log,
		Objects:  func(bucket string) s3.Getter { return s3.NewBasicClient(sess, bucket, "") },
		History:  glue.NewClient(sess),
		Profiles: profiles,
		Executor: tablesync.NewExecutor(log, engine.NewSqlEngine(log), cfg.BatchSize),
	}
	summary, err := r.Run(context.Background(), tablesync.RunConfig{
		TableList:         loc,
		JobName:           cfg.JobName,
		WatermarkOverride: cfg.Watermark,
		SourceConnection:  cfg.SourceConnection,
		TargetConnection:  cfg.TargetConnection,
	})
	if err != nil {
		return err
	}
	for _, t := range summary.Tables {
		fmt.Printf("%v\t%v\t%v rows\t%v\n", t.Spec.LoadType, t.Spec.TargetName(), t.RowCount, t.Elapsed)
	}
	return nil
}
