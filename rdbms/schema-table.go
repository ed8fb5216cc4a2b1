package rdbms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relloyd/dpu/helper"
)

var reQuoted = regexp.MustCompile(`^".+"$`)

// TableName is a [<database>.][<schema>.]<table> reference.
type TableName struct {
	Database string
	Schema   string
	Table    string `errorTxt:"table name" mandatory:"yes"`
}

func NewTableName(database string, schema string, table string) TableName {
	return TableName{Database: database, Schema: schema, Table: table}
}

// Validate checks every part of the name is a SQL identifier.
func (t TableName) Validate() error {
	if err := helper.ValidateStructIsPopulated(t); err != nil {
		return err
	}
	for _, p := range []struct{ kind, v string }{{"database", t.Database}, {"schema", t.Schema}, {"table", t.Table}} {
		if p.v == "" {
			continue
		}
		if err := helper.ValidateIdentifier(p.kind, p.v); err != nil {
			return err
		}
	}
	return nil
}

// SchemaTable returns <schema>.<table> without the database.
func (t TableName) SchemaTable() string {
	return helper.JoinDotted(t.Schema, t.Table)
}

// AppendSuffix returns a copy of t with suffix added to the table.
// Quoted tables keep their quotes, e.g. "table" becomes "table_tmp".
func (t TableName) AppendSuffix(suffix string) TableName {
	if reQuoted.MatchString(t.Table) {
		t.Table = fmt.Sprintf("%v%v\"", strings.TrimSuffix(t.Table, `"`), suffix)
	} else {
		t.Table = t.Table + suffix
	}
	return t
}

func (t TableName) String() string {
	return helper.JoinDotted(t.Database, t.Schema, t.Table)
}
