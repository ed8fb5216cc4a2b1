package helper

import (
	"reflect"
	"testing"
)

func TestCsvToStringSliceTrimSpaces(t *testing.T) {
	// Test 1 - spaces are trimmed.
	got := CsvToStringSliceTrimSpaces(" id , line_no")
	expected := []string{"id", "line_no"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("test 1 failed: expected %v; got %v", expected, got)
	}
	// Test 2 - empty tokens are dropped.
	got = CsvToStringSliceTrimSpaces("a,,b,")
	expected = []string{"a", "b"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("test 2 failed: expected %v; got %v", expected, got)
	}
	// Test 3 - empty string produces an empty slice.
	if got = CsvToStringSliceTrimSpaces(""); len(got) != 0 {
		t.Fatalf("test 3 failed: expected empty slice; got %v", got)
	}
}

func TestGenerateStringOfColsEqualsCols(t *testing.T) {
	// Test 1 - first key has no leading separator.
	got := GenerateStringOfColsEqualsCols([]string{"a", "b"}, "a", "b", " AND ")
	expected := "a.a = b.a AND a.b = b.b"
	if got != expected {
		t.Fatalf("test 1 failed: expected %q; got %q", expected, got)
	}
	// Test 2 - single key.
	got = GenerateStringOfColsEqualsCols([]string{"id"}, "a", "b", " AND ")
	expected = "a.id = b.id"
	if got != expected {
		t.Fatalf("test 2 failed: expected %q; got %q", expected, got)
	}
}

func TestJoinDotted(t *testing.T) {
	if got := JoinDotted("db", "schema", "table"); got != "db.schema.table" {
		t.Fatalf("expected db.schema.table; got %q", got)
	}
	if got := JoinDotted("", "schema", "table"); got != "schema.table" {
		t.Fatalf("expected schema.table; got %q", got)
	}
}

func TestGetTrueFalseStringAsBool(t *testing.T) {
	for in, expected := range map[string]bool{"true": true, " TRUE ": true, "1": false, "": false, "untrue": false} {
		if got := GetTrueFalseStringAsBool(in); got != expected {
			t.Fatalf("input %q: expected %v; got %v", in, expected, got)
		}
	}
}
