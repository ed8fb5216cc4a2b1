package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/relloyd/dpu/engine"
	"github.com/relloyd/dpu/stream"
	"github.com/spf13/cobra"
)

const queryArgsDefinitionTxt string = "<connection> <SQL-optionally-quoted>"

type queryConfig struct {
	LogLevel        string
	AwsRegion       string
	ConnectionsFile string
	Connection      string
	Query           string
	DryRun          bool
	PrintHeader     bool
}

var queryCfg = queryConfig{}

var queryCmd = &cobra.Command{
	Use:   "query " + queryArgsDefinitionTxt,
	Short: "Run a SQL query against a configured connection",
	Long: `Execute a query by supplying a connection name and the SQL as plain arguments.
It's only necessary to wrap the statement in quotes if it contains special characters
that will be interpreted by your shell. You can use a dry-run to check formatting.
Results are returned as CSV lines.`,
	Args: getQueryFromArgsFunc(&queryCfg.Connection, &queryCfg.Query, ""),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(queryCfg)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().SortFlags = false
	queryCmd.SilenceUsage = true // avoid dumping command help when a SQL syntax error occurs.
	switches.addFlag(queryCmd, &queryCfg.DryRun, "dry-run", "false", false, "")
	switches.addFlag(queryCmd, &queryCfg.PrintHeader, "print-header", "false", false, "")
	switches.addFlag(queryCmd, &queryCfg.ConnectionsFile, "connections-file", "", false, "")
	switches.addFlag(queryCmd, &queryCfg.AwsRegion, "aws-region", "", false, "")
	switches.addFlag(queryCmd, &queryCfg.LogLevel, "log-level", "error", false, "")
}

func runQuery(cfg queryConfig) error {
	if cfg.DryRun {
		fmt.Println(cfg.Query)
		return nil
	}
	log := newLogger("dpu-query", cfg.LogLevel)
	sess, err := newAwsSession(cfg.AwsRegion)
	if err != nil {
		return err
	}
	profiles, err := newProfileCache(sess, cfg.ConnectionsFile)
	if err != nil {
		return err
	}
	ctx := context.Background()
	p, err := profiles.Get(ctx, cfg.Connection)
	if err != nil {
		return err
	}
	frame, err := engine.NewSqlEngine(log).Read(ctx, p, engine.ReadOptions{Query: cfg.Query})
	if err != nil {
		return err
	}
	return writeFrameCsv(csv.NewWriter(os.Stdout), frame, cfg.PrintHeader)
}

func writeFrameCsv(w *csv.Writer, f *stream.Frame, header bool) error {
	if header {
		if err := w.Write(f.Columns); err != nil {
			return err
		}
	}
	rec := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for i, v := range row {
			if v == nil {
				rec[i] = ""
			} else {
				rec[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
