package rdbms

import (
	"fmt"
	"strings"

	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/errs"
)

// Dialect captures the SQL differences between database families that matter to table syncs.
type Dialect interface {
	// Name is the connection type tag, e.g. mysql or oracle.
	Name() string
	// DriverName is the database/sql driver registered for the dialect.
	DriverName() string
	// LookbackBound returns SQL for "today minus days" used as an extraction lower bound.
	LookbackBound(days int) (string, error)
	// DateLiteral returns SQL that converts watermark ts (YYYY-MM-DD HH:MM:SS) into a date/time value.
	DateLiteral(ts string) (string, error)
	// Placeholder returns the positional bind variable for argument n, starting at 1.
	Placeholder(n int) string
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return constants.ConnectionTypeMySql }
func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) LookbackBound(days int) (string, error) {
	return fmt.Sprintf("CURDATE()-%d", days), nil
}

func (mysqlDialect) DateLiteral(ts string) (string, error) {
	return fmt.Sprintf("STR_TO_DATE('%v','%%Y-%%m-%%d %%H:%%i:%%s')", ts), nil
}

func (mysqlDialect) Placeholder(int) string { return "?" }

type oracleDialect struct{}

func (oracleDialect) Name() string       { return constants.ConnectionTypeOracle }
func (oracleDialect) DriverName() string { return "oracle" }

func (oracleDialect) LookbackBound(days int) (string, error) {
	return fmt.Sprintf("TRUNC(CURRENT_DATE)-%d", days), nil
}

// DateLiteral uses TO_TIMESTAMP. Convert time zones in the caller if the source is not in the job's time zone.
func (oracleDialect) DateLiteral(ts string) (string, error) {
	return fmt.Sprintf("TO_TIMESTAMP('%v','YYYY-MM-DD HH24:MI:SS')", ts), nil
}

func (oracleDialect) Placeholder(n int) string { return fmt.Sprintf(":%d", n) }

type sqlServerDialect struct{}

func (sqlServerDialect) Name() string       { return constants.ConnectionTypeSqlServer }
func (sqlServerDialect) DriverName() string { return "sqlserver" }

func (sqlServerDialect) LookbackBound(days int) (string, error) {
	return fmt.Sprintf("DATEADD(day, -%d, CAST(GETDATE() AS date))", days), nil
}

func (sqlServerDialect) DateLiteral(ts string) (string, error) {
	return fmt.Sprintf("CONVERT(datetime2, '%v', 120)", ts), nil
}

func (sqlServerDialect) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

type postgresDialect struct{}

func (postgresDialect) Name() string       { return constants.ConnectionTypePostgres }
func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) LookbackBound(days int) (string, error) {
	return fmt.Sprintf("CURRENT_DATE - %d", days), nil
}

func (postgresDialect) DateLiteral(ts string) (string, error) {
	return fmt.Sprintf("TO_TIMESTAMP('%v','YYYY-MM-DD HH24:MI:SS')", ts), nil
}

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// snowflakeDialect is the warehouse target. It is never used as an incremental source.
type snowflakeDialect struct{}

func (snowflakeDialect) Name() string       { return constants.ConnectionTypeSnowflake }
func (snowflakeDialect) DriverName() string { return "snowflake" }

func (snowflakeDialect) LookbackBound(int) (string, error) {
	return "", errs.UnsupportedDialectError{Dialect: constants.ConnectionTypeSnowflake, Op: "lookback predicate"}
}

func (snowflakeDialect) DateLiteral(string) (string, error) {
	return "", errs.UnsupportedDialectError{Dialect: constants.ConnectionTypeSnowflake, Op: "watermark predicate"}
}

func (snowflakeDialect) Placeholder(n int) string { return fmt.Sprintf(":%d", n) }

var dialects = map[string]Dialect{
	constants.ConnectionTypeMySql:     mysqlDialect{},
	constants.ConnectionTypeOracle:    oracleDialect{},
	constants.ConnectionTypeSqlServer: sqlServerDialect{},
	constants.ConnectionTypePostgres:  postgresDialect{},
	constants.ConnectionTypeSnowflake: snowflakeDialect{},
}

// GetDialect looks up the dialect for connection type t (case insensitive).
func GetDialect(t string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(t))]
	if !ok {
		return nil, errs.UnsupportedDialectError{Dialect: t, Op: "connection"}
	}
	return d, nil
}

// IsSupportedConnectionType returns true if t names a known dialect.
func IsSupportedConnectionType(t string) bool {
	_, err := GetDialect(t)
	return err == nil
}
