package shared

import (
	"strings"

	"github.com/pkg/errors"
)

// SqlInsertTxtBatch implements interface SqlStmtTxtBatcher.
// It is able to generate INSERT statements with batches of rows supplied.
type SqlInsertTxtBatch struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlCoreCfg
	placeholder func(n int) string
}

// NewInsertGenerator creates a new generator that implements interface SqlStmtTxtBatcher.
func (g *DmlGeneratorTxtBatch) NewInsertGenerator(cfg *SqlStatementGeneratorConfig) (SqlStmtTxtBatcher, error) {
	if err := FixSqlStatementGeneratorConfig(cfg); err != nil {
		return nil, err
	}
	o := &SqlInsertTxtBatch{SqlStatementGeneratorConfig: *cfg, placeholder: g.Placeholder}
	if o.placeholder == nil {
		o.placeholder = colonPlaceholder
	}
	o.setupSqlStatement()
	return o, nil
}

func (o *SqlInsertTxtBatch) setupSqlStatement() {
	o.sqlStmtTemplate = `insert into <SCHEMA><SEPARATOR><TABLE> (<TGT-COLS>) values <VALUES>`
	o.sqlStmtTemplate = strings.Replace(o.sqlStmtTemplate, "<SCHEMA>", o.OutputSchema, 1)
	o.sqlStmtTemplate = strings.Replace(o.sqlStmtTemplate, "<SEPARATOR>", o.SchemaSeparator, 1)
	o.sqlStmtTemplate = strings.Replace(o.sqlStmtTemplate, "<TABLE>", o.OutputTable, 1)
	o.sqlStmtTemplate = strings.Replace(o.sqlStmtTemplate, "<TGT-COLS>", strings.Join(o.Columns, ","), 1)
	o.sqlStmt = o.sqlStmtTemplate
	o.debug("setup INSERT generator with SQL (VALUES pending): ", o.sqlStmtTemplate)
}

func (o *SqlInsertTxtBatch) debug(args ...interface{}) {
	if o.Log != nil {
		o.Log.Debug(args...)
	}
}

func (o *SqlInsertTxtBatch) InitBatch(batchSize int) {
	if batchSize < 1 {
		batchSize = 1
	}
	o.batchSize = batchSize
	o.rowsInBatch = 0
	o.sqlValues = make([]interface{}, 0, o.batchSize*len(o.Columns)) // many values per row in a batch.
}

func (o *SqlInsertTxtBatch) AddValuesToBatch(values []interface{}) (batchIsFull bool, err error) {
	if o.rowsInBatch >= o.batchSize {
		err = errors.New("no more rows allowed in INSERT batch")
		batchIsFull = true
		return
	}
	if len(values) != len(o.Columns) {
		err = errors.Errorf("the number of values supplied (%v) does not match the number of table columns (%v)", len(values), len(o.Columns))
		return
	}
	o.sqlValues = append(o.sqlValues, values...)
	o.rowsInBatch++
	batchIsFull = o.rowsInBatch >= o.batchSize // caller should exec SQL when the batch is full.
	return
}

func (o *SqlInsertTxtBatch) GetValues() []interface{} {
	return o.sqlValues
}

func (o *SqlInsertTxtBatch) RowsInBatch() int {
	return o.rowsInBatch
}

// GetStatement returns the INSERT for the rows added so far.
// The SQL is cached while the number of rows per statement is unchanged.
func (o *SqlInsertTxtBatch) GetStatement() string {
	if o.previousNumRowsInBatch != o.rowsInBatch || o.sqlStmt == o.sqlStmtTemplate {
		allRows := strings.Builder{}
		valIdx := 1
		for rowIdx := 0; rowIdx < o.rowsInBatch; rowIdx++ {
			// ,( :1,:2,:n )  <<< trim left comma later.
			row := make([]string, len(o.Columns))
			for idy := range o.Columns {
				row[idy] = o.placeholder(valIdx)
				valIdx++
			}
			allRows.WriteString(",( " + strings.Join(row, ",") + " )")
		}
		o.sqlStmt = strings.Replace(o.sqlStmtTemplate, "<VALUES>", strings.TrimLeft(allRows.String(), ","), 1)
		o.previousNumRowsInBatch = o.rowsInBatch
	}
	o.debug("SQL batch INSERT generated statement: ", o.sqlStmt)
	return o.sqlStmt
}
