package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestGetCliFlag(t *testing.T) {
	defer func() { twelveFactorMode = false }()
	flagName := "mock"
	mockEnvVar := "DPU_MOCK"
	expected := "envTest"
	d := "myDefault"
	// Test 1 - test default value applied to mock CLI flag.
	got := switches.getCliFlag(flagName, d)
	if got.val != d {
		t.Fatalf("test 1 failed: expected default value %v to be applied to mock CLI flag; got %v", d, got.val)
	}
	// Test 2 - fetch flag value from environment when it is not set - expect default value to be applied.
	twelveFactorMode = true
	_ = os.Unsetenv(mockEnvVar)
	got = switches.getCliFlag(flagName, d)
	if got.val != d {
		t.Fatalf("test 2 failed: expected default value (%v) to be applied to mock CLI flag fetched via environment variable (%v)", d, mockEnvVar)
	}
	// Test 3 - fetch flag value from environment after setting it explicitly (requires twelveFactorMode).
	if err := os.Setenv(mockEnvVar, expected); err != nil {
		t.Fatalf("test 3 failed: unable to set environment variable %v", mockEnvVar)
	}
	defer os.Unsetenv(mockEnvVar)
	got = switches.getCliFlag(flagName, d)
	if got.val != expected {
		t.Fatalf("test 3 failed: expected value (%v) fetched from environment variable (%v); got: %v", expected, mockEnvVar, got.val)
	}
	// Test 4 - env vars are ignored outside of twelveFactorMode.
	twelveFactorMode = false
	got = switches.getCliFlag(flagName, d)
	if got.val != d {
		t.Fatalf("test 4 failed: expected default %v; got %v", d, got.val)
	}
}

func TestAddFlag(t *testing.T) {
	defer func() { twelveFactorMode = false }()
	var s string
	var b bool
	var i int
	// Test 1 - flags are registered with Cobra and defaults applied.
	c := &cobra.Command{Use: "test"}
	switches.addFlag(c, &s, "job-name", "daily", true, "")
	switches.addFlag(c, &b, "dry-run", "true", false, "")
	switches.addFlag(c, &i, "batch-size", "500", false, "")
	if c.Flags().Lookup("job-name") == nil || s != "daily" || !b || i != 500 {
		t.Fatalf("test 1 failed: got s=%q b=%v i=%v", s, b, i)
	}
	// Test 2 - 12 factor mode reads the environment and registers nothing.
	twelveFactorMode = true
	_ = os.Setenv("DPU_JOB_NAME", "from-env")
	_ = os.Setenv("DPU_DRY_RUN", "1")
	_ = os.Setenv("DPU_BATCH_SIZE", "42")
	defer func() {
		_ = os.Unsetenv("DPU_JOB_NAME")
		_ = os.Unsetenv("DPU_DRY_RUN")
		_ = os.Unsetenv("DPU_BATCH_SIZE")
	}()
	c = &cobra.Command{Use: "test"}
	s, b, i = "", false, 0
	switches.addFlag(c, &s, "job-name", "daily", true, "")
	switches.addFlag(c, &b, "dry-run", "false", false, "")
	switches.addFlag(c, &i, "batch-size", "500", false, "")
	if c.Flags().Lookup("job-name") != nil {
		t.Fatal("test 2 failed: expected no cobra flag in 12 factor mode")
	}
	if s != "from-env" || !b || i != 42 {
		t.Fatalf("test 2 failed: got s=%q b=%v i=%v", s, b, i)
	}
}

func TestRequireFlags(t *testing.T) {
	if err := requireFlags(map[string]string{"job-name": "x"}); err != nil {
		t.Fatal("Test 1 - unexpected error: ", err)
	}
	err := requireFlags(map[string]string{"job-name": "", "table-list": "", "status": "ok"})
	if err == nil || !strings.Contains(err.Error(), "DPU_JOB_NAME, DPU_TABLE_LIST") {
		t.Fatal("Test 2 - expected sorted missing env vars; got: ", err)
	}
}

func TestGetQueryFromArgsFunc(t *testing.T) {
	var conn, query string
	fn := getQueryFromArgsFunc(&conn, &query, "")
	if err := fn(nil, []string{"erp"}); err == nil {
		t.Fatal("Test 1 - expected an error for a missing query")
	}
	if err := fn(nil, []string{"erp", "select", "1", "from dual"}); err != nil {
		t.Fatal("Test 2 - unexpected error: ", err)
	}
	if conn != "erp" || query != "select 1 from dual" {
		t.Fatalf("Test 2 - got conn=%q query=%q", conn, query)
	}
}

func TestEnvVarsForFlags(t *testing.T) {
	got := envVarsForFlags(syncTablesCmd.Flags())
	want := "DPU_TABLE_LIST"
	found := false
	for _, v := range got {
		if v == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %v in %v", want, got)
	}
}
