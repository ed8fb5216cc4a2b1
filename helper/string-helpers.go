package helper

import (
	"fmt"
	"regexp"
	"strings"
)

// CsvToStringSliceTrimSpaces converts a string of the form, 'f1,f2,f3...' into a slice of string values.
// 1) Split on comma.
// 2) Remove leading and trailing spaces.
// 3) Drop empty tokens so "a,,b" and "a,b," give the same result.
func CsvToStringSliceTrimSpaces(s string) []string {
	tokens := strings.Split(s, ",")
	retval := make([]string, 0, len(tokens))
	for x := range tokens {
		t := strings.TrimSpace(tokens[x])
		if t != "" {
			retval = append(retval, t)
		}
	}
	return retval
}

// GenerateStringOfColsEqualsCols returns a string "src.col1 = tgt.col1 AND src.col2 = tgt.col2" using the colList
// supplied and where the separator can be whatever you pass in.
func GenerateStringOfColsEqualsCols(colList []string, srcAlias string, tgtAlias string, separator string) string {
	return strings.Join(GenerateSliceOfColsEqualCols(colList, srcAlias, tgtAlias), separator)
}

func GenerateSliceOfColsEqualCols(colList []string, srcAlias string, tgtAlias string) []string {
	retval := make([]string, len(colList))
	for idx, col := range colList {
		retval[idx] = fmt.Sprintf("%s.%s = %s.%s", srcAlias, col, tgtAlias, col)
	}
	return retval
}

// GetTrueFalseStringAsBool trims spaces from s and checks if it can regexp (case insensitive) match "true".
// It returns true if there's a match else false.
func GetTrueFalseStringAsBool(s string) bool {
	re := regexp.MustCompile("(?i)^true$")
	return re.MatchString(strings.TrimSpace(s))
}

// JoinDotted joins the non-empty parts with ".", e.g. db.schema.table.
func JoinDotted(parts ...string) string {
	s := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			s = append(s, p)
		}
	}
	return strings.Join(s, ".")
}
