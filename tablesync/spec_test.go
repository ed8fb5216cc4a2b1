package tablesync

import (
	"errors"
	"testing"

	"github.com/relloyd/dpu/errs"
)

const tableListYaml = `
tables:
  - source_db: kwi
    source_schema: kwi_usa
    source_tname: orders
    target_db: RAW
    target_schema: KWI
    target_tname: ORDERS
    cdc_column: updated_at
    lookback_days: 7
    primary_key: order_id, line_id
    load_type: incremental
  - source_db: kwi
    source_schema: kwi_usa
    source_tname: stores
    target_db: RAW
    target_schema: KWI
    target_tname: STORES
    load_type: truncate
`

func TestParseTableList(t *testing.T) {
	tables, err := ParseTableList([]byte(tableListYaml))
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables; got %v", len(tables))
	}
	o := tables[0]
	if o.LoadType != LoadTypeIncremental || !o.HasLookback() || *o.LookbackDays != 7 {
		t.Fatalf("unexpected spec %+v", o)
	}
	if keys := o.PrimaryKeyColumns(); len(keys) != 2 || keys[1] != "line_id" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if o.TargetName().String() != "RAW.KWI.ORDERS" {
		t.Fatalf("unexpected target name %v", o.TargetName())
	}
	s := tables[1]
	if s.LoadType != LoadTypeFull || s.HasLookback() || len(s.PrimaryKeyColumns()) != 0 {
		t.Fatalf("unexpected spec %+v", s)
	}
}

func TestParseTableListQuotedLookback(t *testing.T) {
	doc := `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, target_tname: t, cdc_column: c, lookback_days: " 7", load_type: incremental}`
	tables, err := ParseTableList([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if !tables[0].HasLookback() || *tables[0].LookbackDays != 7 {
		t.Fatalf("expected a 7 day lookback; got %+v", tables[0])
	}
}

func TestParseLoadType(t *testing.T) {
	for in, expected := range map[string]LoadType{
		"full": LoadTypeFull, "FULL": LoadTypeFull, "Truncate": LoadTypeFull,
		"incremental": LoadTypeIncremental, " INCREMENTAL ": LoadTypeIncremental,
	} {
		got, err := ParseLoadType(in)
		if err != nil || got != expected {
			t.Fatalf("%q: expected %v; got %v (err %v)", in, expected, got, err)
		}
	}
	var ce errs.ConfigurationError
	if _, err := ParseLoadType("merge"); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError; got %v", err)
	}
}

func TestParseTableListErrors(t *testing.T) {
	cases := map[string]string{
		"bad load type": `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, target_tname: t, load_type: merge}`,
		"missing target": `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, load_type: full}`,
		"incremental without cdc column": `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, target_tname: t, load_type: incremental}`,
		"negative lookback": `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, target_tname: t, cdc_column: c, lookback_days: -1, load_type: incremental}`,
		"non-numeric lookback": `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, target_tname: t, cdc_column: c, lookback_days: seven, load_type: incremental}`,
		"unsafe identifier": `
tables:
  - {source_schema: s, source_tname: "t; drop table x", target_db: d, target_schema: s, target_tname: t, load_type: full}`,
		"unsafe key": `
tables:
  - {source_schema: s, source_tname: t, target_db: d, target_schema: s, target_tname: t, cdc_column: c, primary_key: "id,1=1", load_type: incremental}`,
	}
	for name, doc := range cases {
		_, err := ParseTableList([]byte(doc))
		var ce errs.ConfigurationError
		if !errors.As(err, &ce) {
			t.Fatalf("%v: expected ConfigurationError; got %v", name, err)
		}
	}
}
