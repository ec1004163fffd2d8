package phone

import "strings"

// Mask formats a Brazilian phone number progressively as the user types.
// Non-digits are stripped and input is capped at 11 digits (DDD + 9-digit
// mobile number):
//
//	""            -> ""
//	"82"          -> "82"
//	"8299999"     -> "(82) 99999"
//	"82999998888" -> "(82) 99999-8888"
//
// The function is idempotent: Mask(Mask(s)) == Mask(s).
func Mask(s string) string {
	d := Digits(s)
	if len(d) > 11 {
		d = d[:11]
	}

	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
