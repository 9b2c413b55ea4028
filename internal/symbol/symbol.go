// Package symbol parses full instrument symbols and validates ISINs.
package symbol

import (
	"regexp"
	"strings"
)

// Parts is a full symbol split into its listing venue and short form.
type Parts struct {
	MarketCode  string
	ShortSymbol string
}

// Parse splits a full symbol of the form "MARKET:SHORT". A symbol without
// a market prefix yields an empty MarketCode.
func Parse(fullSymbol string) Parts {
	s := strings.TrimSpace(fullSymbol)
	if i := strings.Index(s, ":"); i >= 0 {
		return Parts{MarketCode: s[:i], ShortSymbol: s[i+1:]}
	}
	return Parts{ShortSymbol: s}
}

// isinPattern matches the ISIN layout: a two-letter country prefix, a
// nine-character alphanumeric body and a numeric check digit.
var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// IsValidISIN reports whether s is a syntactically valid ISIN with a
// correct Luhn check digit over its digit expansion.
func IsValidISIN(s string) bool {
	if !isinPattern.MatchString(s) {
		return false
	}
	// Expand letters to two digits each (A=10 .. Z=35).
	digits := make([]int, 0, 2*len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			v := int(r-'A') + 10
			digits = append(digits, v/10, v%10)
		} else {
			digits = append(digits, int(r-'0'))
		}
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
