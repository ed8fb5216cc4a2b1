package shared

import (
	"context"
	"database/sql"
	"errors"
)

// DbConnection is a wrapper around Go native sql.DB.
// It also adds the DmlGenerator interface for use by writers that output records to a database.
type DbConnection struct {
	DbSql  *sql.DB
	Dml    DmlGenerator
	DbType string
}

func (c *DbConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if c.DbSql == nil {
		return nil, errors.New("DbConnection was not configured correctly: DbSql is missing")
	}
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *DbConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	if c.DbSql == nil {
		return nil, errors.New("DbConnection was not configured correctly: DbSql is missing")
	}
	r, err := c.DbSql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *DbConnection) Close() {
	if c.DbSql != nil {
		_ = c.DbSql.Close()
	}
}

func (c *DbConnection) GetDmlGenerator() DmlGenerator {
	return c.Dml
}

func (c *DbConnection) GetType() string {
	return c.DbType
}
