package helper

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/relloyd/dpu/constants"
)

var (
	reIdentifier       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$#]*$`)
	reQuotedIdentifier = regexp.MustCompile(`^"[^"]+"$`)
	reWatermark        = regexp.MustCompile(constants.TimeFormatWatermarkRegex)
)

// ValidateStructIsPopulated will check if any mandatory fields in cfg are missing.
// It uses struct tags to determine which fields are mandatory and the error text to fetch.
// The error text returned is just a list of the struct tags with key "errorTxt".
func ValidateStructIsPopulated(cfg interface{}) (err error) {
	errs := make([]string, 0)
	GetStructErrorTxt4UnsetFields(cfg, &errs)
	if len(errs) > 0 {
		err = fmt.Errorf("please supply values for %v", strings.Join(errs, ", "))
	}
	return
}

// GetStructErrorTxt4UnsetFields will reflect over interface i and build a slice containing error text strings for any
// struct fields that are unset i.e. are the zero value for the given field type.
// The error text strings are fetched from the errorTxt tags values found in the supplied interface (struct)
// where tag mandatory:"yes" is set.
func GetStructErrorTxt4UnsetFields(i interface{}, errTags *[]string) {
	val := reflect.ValueOf(i)
	if reflect.TypeOf(i).Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()
	for idx := 0; idx < val.NumField(); idx++ { // for each field in the value/struct...
		f := val.Field(idx)
		if !typ.Field(idx).IsExported() {
			continue
		}
		switch f.Type().Kind() {
		case reflect.Struct: // if we are looking at a nested struct and need to go down another level...
			GetStructErrorTxt4UnsetFields(f.Interface(), errTags)
		case reflect.Slice:
			if f.Len() == 0 && typ.Field(idx).Tag.Get("mandatory") == "yes" {
				*errTags = append(*errTags, typ.Field(idx).Tag.Get("errorTxt"))
			}
		case reflect.Map, reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan:
		default: // extract tags from this struct field...
			if f.IsZero() && typ.Field(idx).Tag.Get("mandatory") == "yes" { // if the field is its zero value and it is mandatory...
				*errTags = append(*errTags, typ.Field(idx).Tag.Get("errorTxt"))
			}
		}
	}
}

// ValidateIdentifier returns an error unless s is a plain SQL identifier or a double-quoted one.
// The SQL generated for table syncs is assembled from strings so everything interpolated must pass this first.
func ValidateIdentifier(kind string, s string) error {
	if reIdentifier.MatchString(s) || reQuotedIdentifier.MatchString(s) {
		return nil
	}
	return fmt.Errorf("invalid %v %q: expected a SQL identifier", kind, s)
}

// ValidateIdentifiers calls ValidateIdentifier for each value in s.
func ValidateIdentifiers(kind string, s []string) error {
	for _, v := range s {
		if err := ValidateIdentifier(kind, v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWatermark returns an error unless s is of the form YYYY-MM-DD HH:MM:SS.
func ValidateWatermark(s string) error {
	if !reWatermark.MatchString(s) {
		return fmt.Errorf("invalid watermark %q: expected format YYYY-MM-DD HH:MM:SS", s)
	}
	return nil
}
