package amount

import (
	"math/big"
	"testing"
)

func TestToBaseUnit(t *testing.T) {
	tests := []struct {
		display  string
		decimals uint8
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 18, "1500000000000000000"},
		{"1.23456", 2, "123"}, // truncation, not rounding
		{"0.000001", 6, "1"},
		{"0.0000001", 6, "0"},
		{"42", 0, "42"},
		{"42.9", 0, "42"},
		{".5", 1, "5"},
		{"5.", 1, "50"},
		{"", 18, "0"},
		{"   ", 18, "0"},
		{"abc", 6, "0"},
		{"1.2.3", 18, "0"},
		{"-1", 18, "0"},
		{"1e18", 18, "0"},
	}

	for _, tc := range tests {
		got := ToBaseUnit(tc.display, tc.decimals)
		if got.String() != tc.want {
			t.Errorf("ToBaseUnit(%q, %d) = %s, want %s", tc.display, tc.decimals, got, tc.want)
		}
	}
}

func TestFromBaseUnit(t *testing.T) {
	tests := []struct {
		value    string
		decimals uint8
		want     string
	}{
		{"1000000000000000000", 18, "1"},
		{"1500000000000000000", 18, "1.5"},
		{"1", 18, "0.000000000000000001"},
		{"123", 2, "1.23"},
		{"120", 2, "1.2"},
		{"100", 2, "1"},
		{"42", 0, "42"},
		{"0", 18, "0"},
	}

	for _, tc := range tests {
		v, ok := new(big.Int).SetString(tc.value, 10)
		if !ok {
			t.Fatalf("bad test value %q", tc.value)
		}
		got := FromBaseUnit(v, tc.decimals)
		if got != tc.want {
			t.Errorf("FromBaseUnit(%s, %d) = %q, want %q", tc.value, tc.decimals, got, tc.want)
		}
	}

	if got := FromBaseUnit(nil, 18); got != "0" {
		t.Errorf("FromBaseUnit(nil, 18) = %q, want \"0\"", got)
	}
}

// Display -> base -> display must be lossless whenever the input fits the
// token's precision.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		display  string
		decimals uint8
	}{
		{"1", 18},
		{"1.5", 18},
		{"0.000001", 6},
		{"123456.789", 8},
		{"7", 0},
	}

	for _, tc := range tests {
		base := ToBaseUnit(tc.display, tc.decimals)
		if got := FromBaseUnit(base, tc.decimals); got != tc.display {
			t.Errorf("round trip %q (%d decimals): got %q", tc.display, tc.decimals, got)
		}
	}
}

// Base -> display -> base is exact for all values: truncation only happens
// on the display side.
func TestRoundTripBase(t *testing.T) {
	values := []string{"1", "999", "1000000000000000000", "123456789123456789123456789"}
	for _, s := range values {
		for _, d := range []uint8{0, 2, 6, 18} {
			v, _ := new(big.Int).SetString(s, 10)
			back := ToBaseUnit(FromBaseUnit(v, d), d)
			if back.Cmp(v) != 0 {
				t.Errorf("base round trip %s (%d decimals): got %s", s, d, back)
			}
		}
	}
}
