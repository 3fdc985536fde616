package amount

import (
	"math/big"
	"strings"
)

// ToBaseUnit parses a human-entered decimal string into an integer amount
// scaled by 10^decimals. Extra fractional digits are truncated, never
// rounded. Empty or non-numeric input yields zero: the quoting path has to
// degrade gracefully while the user is still typing.
func ToBaseUnit(display string, decimals uint8) *big.Int {
	display = strings.TrimSpace(display)
	if display == "" {
		return new(big.Int)
	}

	whole, frac, _ := strings.Cut(display, ".")
	if !isDigits(whole) || !isDigits(frac) {
		return new(big.Int)
	}
	if whole == "" && frac == "" {
		return new(big.Int)
	}

	d := int(decimals)
	if len(frac) > d {
		frac = frac[:d]
	}
	frac += strings.Repeat("0", d-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// FromBaseUnit renders an integer base-unit amount as a decimal string,
// stripping trailing zeros from the fraction. Inverse of ToBaseUnit for any
// value that survived its truncation.
func FromBaseUnit(v *big.Int, decimals uint8) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}
	s := v.String()
	if decimals == 0 {
		return s
	}

	d := int(decimals)
	if len(s) < d+1 {
		s = strings.Repeat("0", d+1-len(s)) + s
	}
	whole := s[:len(s)-d]
	frac := strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// isDigits allows the empty string so that ".5" and "5." both parse; any
// non-digit rune (including a second dot) rejects the whole input.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
