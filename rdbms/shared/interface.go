package shared

import (
	"context"
	"database/sql"
)

// Connector abstracts the parts of database/sql used by the table sync engine.
type Connector interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Close()
	GetType() string
	GetDmlGenerator() DmlGenerator
}

// Rows is satisfied by *sql.Rows.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close() error
}

type DmlGenerator interface {
	NewInsertGenerator(cfg *SqlStatementGeneratorConfig) (SqlStmtTxtBatcher, error)
}

// SqlStmtGenerator is used as part of SqlStmtTxtBatcher.
type SqlStmtGenerator interface {
	GetStatement() string
}

// SqlStmtTxtBatcher is used to combine DML statements that affect individual records into one statement, aiming
// to improve performance and reduce network round trips.
type SqlStmtTxtBatcher interface {
	SqlStmtGenerator
	InitBatch(batchSize int)                             // reset variables and preallocate slices for the given batch size.
	AddValuesToBatch(values []interface{}) (bool, error) // add values to SQL statement.
	GetValues() []interface{}                            // get all values added to the batch so they can be supplied as args to exec the SQL returned by getStatement().
	RowsInBatch() int
}
