package utils

import (
	"errors"
	"io/fs"
	"strings"
	"unicode"
)

// ParseStrictBool accepts only the literals "true" and "false".
// Anything else reports ok=false so the caller can ignore the value.
func ParseStrictBool(value string) (result bool, ok bool) {
	switch strings.TrimSpace(value) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// StringPtr returns nil for empty strings
func StringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// SplitList reads a comma or whitespace separated setting such as
// "https://a.com, https://b.com". Empty items are dropped.
func SplitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
