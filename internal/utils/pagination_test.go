package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 20, 20},
		// valid ints (page sizes, limits)
		{"50", 0, 50},
		{"-1", 1, -1},
		{"007", 99, 7},
		// invalid -> default (no trim)
		{"abc", 20, 20},
		{" 50", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	cases := []struct {
		v, min, max int
		want        int
	}{
		{0, 1, 100, 1},     // below floor
		{-3, 1, 100, 1},    // negative limit
		{20, 1, 100, 20},   // in range untouched
		{100, 1, 100, 100}, // at ceiling
		{5000, 1, 100, 100},
		{1, 1, 1, 1}, // degenerate range
	}

	for _, tc := range cases {
		if got := ClampInt(tc.v, tc.min, tc.max); got != tc.want {
			t.Fatalf("ClampInt(%d, %d, %d) = %d; want %d", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}
