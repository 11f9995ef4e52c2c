// Package phone normalizes user supplied phone numbers into the form used as
// the storage key.
package phone

import "strings"

const (
	minDigits = 10
	maxDigits = 15
)

var separators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// Normalize strips common separators and checks the E.164-ish shape:
// an optional leading '+' followed by 10 to 15 digits.
func Normalize(raw string) (string, bool) {
	s := separators.Replace(strings.TrimSpace(raw))
	digits := strings.TrimPrefix(s, "+")
	if len(digits) < minDigits || len(digits) > maxDigits {
		return "", false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", false
		}
	}
	return s, true
}

// Valid reports whether raw normalizes successfully.
func Valid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}
