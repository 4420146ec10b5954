package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidCountyFIPS reports whether raw is a valid 5-digit county FIPS code
// after trimming surrounding whitespace: exactly 5 characters, all decimal
// digits. Shorter, longer, or non-numeric values are invalid; callers drop
// the owning record rather than guessing.
func ValidCountyFIPS(raw string) bool {
	code := strings.TrimSpace(raw)
	if len(code) != 5 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeCountyFIPS trims and validates a raw county FIPS value. The second
// return is false when the value fails validation.
func NormalizeCountyFIPS(raw string) (string, bool) {
	code := strings.TrimSpace(raw)
	if !ValidCountyFIPS(code) {
		return "", false
	}
	return code, true
}

// StateFromCountyFIPS extracts the state code from a validated 5-digit county
// FIPS code (the first two digits).
func StateFromCountyFIPS(code string) (int, bool) {
	if !ValidCountyFIPS(code) {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(code)[:2])
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatFIPS formats a numeric FIPS code with proper zero-padding.
func FormatFIPS(code int, digits int) string {
	return fmt.Sprintf("%0*d", digits, code)
}
