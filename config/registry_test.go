package config

import (
	"errors"
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/relloyd/dpu/errs"
)

const testRegistry = `
connections:
  kwi_usa_read:
    type: mysql
    secret: glue-kwi-us-jdbc
  Oracle_dwprod01:
    type: Oracle
    secret: glue-dwprod01-jdbc
  bosslogics_dy_data_v2:
    type: mysql
    secret: ""
  snowflake_dwprod:
    type: snowflake
    secret: glue-dwprod01-jdbc
`

func TestParseRegistry(t *testing.T) {
	r, err := ParseRegistry([]byte(testRegistry))
	if err != nil {
		t.Fatal(err)
	}
	// Test 1 - known connection.
	c, err := r.Lookup("kwi_usa_read")
	if err != nil {
		t.Fatal(err)
	}
	if c.Type != "mysql" || c.Secret != "glue-kwi-us-jdbc" || c.Name != "kwi_usa_read" {
		t.Fatalf("unexpected connection %+v", c)
	}
	// Test 2 - types are normalised.
	c, _ = r.Lookup("Oracle_dwprod01")
	if c.Type != "oracle" {
		t.Fatalf("expected oracle; got %v", c.Type)
	}
	// Test 3 - unknown name.
	var ce errs.ConfigurationError
	if _, err = r.Lookup("nope"); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError; got %v", err)
	}
	// Test 4 - empty secret.
	if _, err = r.Lookup("bosslogics_dy_data_v2"); !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError for empty secret; got %v", err)
	}
	if _, ok := r.Get("bosslogics_dy_data_v2"); !ok {
		t.Fatal("expected Get to return an entry without a secret")
	}
	// Test 5 - names are sorted.
	names := r.Names()
	if len(names) != 4 || names[0] != "Oracle_dwprod01" || names[3] != "snowflake_dwprod" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestParseRegistryErrors(t *testing.T) {
	var ce errs.ConfigurationError
	// Test 1 - bad type.
	_, err := ParseRegistry([]byte("connections:\n  x:\n    type: db2\n    secret: s\n"))
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError; got %v", err)
	}
	// Test 2 - bad yaml.
	_, err = ParseRegistry([]byte("connections: [\n"))
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError; got %v", err)
	}
	// Test 3 - duplicates.
	_, err = NewRegistry([]Connection{{Name: "a", Type: "mysql"}, {Name: "a", Type: "mysql"}})
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError for duplicates; got %v", err)
	}
}

func TestLoadRegistry(t *testing.T) {
	dir, err := ioutil.TempDir("", "dpu-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	p := path.Join(dir, ConnectionsConfigFileFullName)
	if err = ioutil.WriteFile(p, []byte(testRegistry), 0600); err != nil {
		t.Fatal(err)
	}
	f := NewConfigFile(p)
	if f.FilePrefix != "connections" || f.FileExt != "yaml" {
		t.Fatalf("unexpected file parts %+v", f)
	}
	r, err := LoadRegistry(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Names()) != 4 {
		t.Fatalf("expected 4 connections; got %v", r.Names())
	}
	// Test - missing file.
	_, err = LoadRegistry(NewConfigFile(path.Join(dir, "missing.yaml")))
	var ce errs.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError; got %v", err)
	}
	// Test - env var override.
	os.Setenv("DPU_CONNECTIONS_FILE", p)
	defer os.Unsetenv("DPU_CONNECTIONS_FILE")
	df, err := DefaultConnectionsFile()
	if err != nil || df.FullPath != p {
		t.Fatalf("expected %v; got %+v (err %v)", p, df, err)
	}
}
