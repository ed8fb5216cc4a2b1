package shared

import "errors"

func FixSqlStatementGeneratorConfig(cfg *SqlStatementGeneratorConfig) error {
	if cfg.OutputTable == "" {
		return errors.New("missing output table name")
	}
	if len(cfg.Columns) == 0 {
		return errors.New("missing output column names")
	}
	if cfg.OutputSchema == "" {
		cfg.SchemaSeparator = ""
		if cfg.Log != nil {
			cfg.Log.Debug("No output schema supplied; setting a blank separator.")
		}
	} else {
		cfg.SchemaSeparator = "."
	}
	return nil
}
