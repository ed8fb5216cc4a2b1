package shared

import (
	"fmt"

	"github.com/relloyd/dpu/logger"
)

// DmlGeneratorTxtBatch generates multi-row DML using the bind variable style in Placeholder.
type DmlGeneratorTxtBatch struct {
	Placeholder func(n int) string // nil means Oracle style :1, :2, ...
}

type SqlStatementGeneratorConfig struct {
	Log             logger.Logger
	OutputSchema    string
	SchemaSeparator string
	OutputTable     string
	Columns         []string // target table column names in the order values are supplied.
}

type sqlCoreCfg struct {
	sqlStmt                string
	sqlStmtTemplate        string
	sqlValues              []interface{} // slice to hold data values for all rows in batch
	batchSize              int
	rowsInBatch            int
	previousNumRowsInBatch int
}

func colonPlaceholder(n int) string {
	return fmt.Sprintf(":%v", n)
}
