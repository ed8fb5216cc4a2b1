package helper

import (
	"os"
	"testing"
)

func TestFlagNameToEnvVar(t *testing.T) {
	got := FlagNameToEnvVar("s3-bucket")
	expected := "DPU_S3_BUCKET"
	if got != expected {
		t.Fatalf("expected %q; got %q", expected, got)
	}
}

func TestReadValueFromEnvWithDefault(t *testing.T) {
	name := "DPU_TEST_READ_VALUE_FROM_ENV"
	_ = os.Unsetenv(name)
	// Test 1 - default applied.
	if got := ReadValueFromEnvWithDefault(name, "dflt"); got != "dflt" {
		t.Fatalf("test 1 failed: expected default; got %q", got)
	}
	// Test 2 - env value wins.
	_ = os.Setenv(name, "fromEnv")
	defer os.Unsetenv(name)
	if got := ReadValueFromEnvWithDefault(name, "dflt"); got != "fromEnv" {
		t.Fatalf("test 2 failed: expected fromEnv; got %q", got)
	}
	// Test 3 - missing variable is an error.
	var v string
	if err := ReadValueFromEnv(name+"_MISSING", &v); err == nil {
		t.Fatal("test 3 failed: expected error for missing variable")
	}
}
