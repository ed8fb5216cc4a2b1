package tablesync

import (
	"fmt"

	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/rdbms"
)

// Plan is the SQL needed to load one table.
type Plan struct {
	Predicate   string   // empty for full loads.
	Query       string   // extraction query run against the source.
	PreActions  []string // run against the target before rows are written.
	PostActions []string // run against the target after rows are written.
	WriteTable  string   // table the rows are written to: the target or its temp table.
}

// BuildPlan turns spec into SQL for the source profile's dialect.
// Every identifier and the watermark are validated before any SQL is assembled.
func BuildPlan(spec TableSpec, source rdbms.ConnectionProfile, watermark Watermark) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.LoadType {
	case LoadTypeFull:
		return buildFullPlan(spec), nil
	case LoadTypeIncremental:
		return buildIncrementalPlan(spec, source, watermark)
	default:
		return nil, errs.NewConfigurationError("plan", "unsupported load type %q", spec.LoadType)
	}
}

func buildFullPlan(spec TableSpec) *Plan {
	return &Plan{
		Query:      fmt.Sprintf("SELECT * FROM %v", spec.SourceName().SchemaTable()),
		PreActions: []string{fmt.Sprintf("TRUNCATE TABLE %v", spec.TargetName())},
		WriteTable: spec.TargetTable,
	}
}

func buildIncrementalPlan(spec TableSpec, source rdbms.ConnectionProfile, watermark Watermark) (*Plan, error) {
	d, err := source.GetDialect()
	if err != nil {
		return nil, err
	}
	var bound string
	if spec.HasLookback() {
		bound, err = d.LookbackBound(int(*spec.LookbackDays))
	} else {
		if watermark == "" {
			return nil, errs.NewConfigurationError("plan", "a watermark is required for incremental load of %v without lookback_days", spec.SourceName())
		}
		if err = helper.ValidateWatermark(string(watermark)); err != nil {
			return nil, errs.NewConfigurationError("plan", "%v", err)
		}
		bound, err = d.DateLiteral(string(watermark))
	}
	if err != nil {
		return nil, err
	}
	p := &Plan{Predicate: fmt.Sprintf("%v >= %v", spec.CdcColumn, bound)}
	p.Query = fmt.Sprintf("SELECT * FROM %v a WHERE %v", spec.SourceName().SchemaTable(), p.Predicate)
	keys := spec.PrimaryKeyColumns()
	if len(keys) == 0 { // append...
		p.WriteTable = spec.TargetTable
		return p, nil
	}
	// Merge through a temp table.
	target := spec.TargetTable
	tmp := rdbms.NewTableName("", "", target).AppendSuffix(constants.TempTableSuffix).String()
	p.WriteTable = tmp
	p.PreActions = []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %v LIKE %v", tmp, target),
	}
	p.PostActions = []string{
		fmt.Sprintf("DELETE FROM %v a USING %v b WHERE %v", target, tmp, helper.GenerateStringOfColsEqualsCols(keys, "a", "b", " AND ")),
		fmt.Sprintf("INSERT INTO %v (SELECT * FROM %v)", target, tmp),
		fmt.Sprintf("DROP TABLE %v", tmp),
	}
	return p, nil
}
