package rdbms

import (
	"context"
	"database/sql"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/logger"
	"github.com/relloyd/dpu/rdbms/shared"
	_ "github.com/sijms/go-ora/v2"
	_ "github.com/snowflakedb/gosnowflake"
)

// OpenDbConnection opens and pings a database connection for profile p.
// Database and schema override the values found in the profile JDBC string when not empty.
func OpenDbConnection(ctx context.Context, log logger.Logger, p ConnectionProfile, database string, schema string) (shared.Connector, error) {
	log.Debug("opening connection type ", p.Dialect, " with logicalName ", p.Name) // don't log password details!
	d, err := p.GetDialect()
	if err != nil {
		return nil, err
	}
	dsn, err := p.GetDsn(database, schema)
	if err != nil {
		return nil, err
	}
	log.Info("Opening database connection: ", dsn)
	conn := &shared.DbConnection{
		Dml:    &shared.DmlGeneratorTxtBatch{Placeholder: d.Placeholder},
		DbType: d.Name(),
	}
	conn.DbSql, err = sql.Open(dsn.Driver, dsn.Dsn)
	if err != nil {
		return nil, errs.External(d.Name(), "open", err)
	}
	if err = conn.DbSql.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errs.External(d.Name(), "ping", err)
	}
	log.Info("Successful connection to: ", dsn)
	return conn, nil
}
