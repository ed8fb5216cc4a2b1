package tablesync

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/relloyd/dpu/constants"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/helper"
	"github.com/relloyd/dpu/rdbms"
)

type LoadType string

const (
	LoadTypeFull        LoadType = constants.LoadTypeFull
	LoadTypeIncremental LoadType = constants.LoadTypeIncremental
)

// ParseLoadType accepts full, truncate and incremental in any case.
func ParseLoadType(s string) (LoadType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "truncate":
		return LoadTypeFull, nil
	case "incremental":
		return LoadTypeIncremental, nil
	default:
		return "", errs.NewConfigurationError("load type", "unsupported load type %q", s)
	}
}

func (l *LoadType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errs.NewConfigurationError("load type", "expected a string: %v", err)
	}
	v, err := ParseLoadType(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Days is a whole number of days written either as a number or a quoted number.
type Days int

func (d *Days) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Days(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errs.NewConfigurationError("lookback days", "expected a whole number, got %s", b)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errs.NewConfigurationError("lookback days", "expected a whole number, got %q", s)
	}
	*d = Days(n)
	return nil
}

// TableSpec describes one table to copy from a source database to the warehouse.
type TableSpec struct {
	SourceDb     string   `json:"source_db"`
	SourceSchema string   `json:"source_schema" errorTxt:"source_schema" mandatory:"yes"`
	SourceTable  string   `json:"source_tname" errorTxt:"source_tname" mandatory:"yes"`
	TargetDb     string   `json:"target_db" errorTxt:"target_db" mandatory:"yes"`
	TargetSchema string   `json:"target_schema" errorTxt:"target_schema" mandatory:"yes"`
	TargetTable  string   `json:"target_tname" errorTxt:"target_tname" mandatory:"yes"`
	CdcColumn    string   `json:"cdc_column,omitempty"`
	LookbackDays *Days    `json:"lookback_days,omitempty"`
	PrimaryKey   string   `json:"primary_key,omitempty"` // comma separated
	LoadType     LoadType `json:"load_type" errorTxt:"load_type" mandatory:"yes"`
}

// SourceName is <source_db>.<source_schema>.<source_tname>.
func (s TableSpec) SourceName() rdbms.TableName {
	return rdbms.NewTableName(s.SourceDb, s.SourceSchema, s.SourceTable)
}

// TargetName is <target_db>.<target_schema>.<target_tname>.
func (s TableSpec) TargetName() rdbms.TableName {
	return rdbms.NewTableName(s.TargetDb, s.TargetSchema, s.TargetTable)
}

// HasLookback is true when a positive lookback window is configured.
func (s TableSpec) HasLookback() bool {
	return s.LookbackDays != nil && *s.LookbackDays > 0
}

// PrimaryKeyColumns splits the primary key list. It is empty when no key is configured.
func (s TableSpec) PrimaryKeyColumns() []string {
	return helper.CsvToStringSliceTrimSpaces(s.PrimaryKey)
}

// Validate checks mandatory fields and that every identifier is safe to interpolate into SQL.
func (s TableSpec) Validate() error {
	op := "table spec " + s.SourceName().String()
	if err := helper.ValidateStructIsPopulated(s); err != nil {
		return errs.NewConfigurationError(op, "%v", err)
	}
	if err := s.SourceName().Validate(); err != nil {
		return errs.NewConfigurationError(op, "%v", err)
	}
	if err := s.TargetName().Validate(); err != nil {
		return errs.NewConfigurationError(op, "%v", err)
	}
	if s.LookbackDays != nil && *s.LookbackDays < 0 {
		return errs.NewConfigurationError(op, "lookback_days must not be negative, got %v", *s.LookbackDays)
	}
	if s.LoadType == LoadTypeIncremental {
		if s.CdcColumn == "" {
			return errs.NewConfigurationError(op, "cdc_column is required for incremental loads")
		}
		if err := helper.ValidateIdentifier("cdc column", s.CdcColumn); err != nil {
			return errs.NewConfigurationError(op, "%v", err)
		}
		if err := helper.ValidateIdentifiers("primary key column", s.PrimaryKeyColumns()); err != nil {
			return errs.NewConfigurationError(op, "%v", err)
		}
	}
	return nil
}

type tableList struct {
	Tables []TableSpec `json:"tables"`
}

// ParseTableList reads a YAML document with a top level list of tables.
// Every table is validated.
func ParseTableList(b []byte) ([]TableSpec, error) {
	l := tableList{}
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, errs.NewConfigurationError("table list", "%v", err)
	}
	for _, t := range l.Tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return l.Tables, nil
}
