// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// NormalizePhone strips spaces, dashes and brackets.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

// StringOrNil maps blank strings to nil so optional text columns stay NULL.
func StringOrNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

// NonEmpty reports whether s is set and not blank.
func NonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
