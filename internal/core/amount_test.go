package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1500", 1500, true},
		{"12.5", 12.5, true},
		{"12,5", 12.5, true},
		{"0.01", 0.01, true},
		{" 2.50 ", 2.5, true},
		{"0", 0, true},     // permissive: zero is recorded as-is
		{"-5", -5, true},   // permissive: no sign check
		{"abc", 0, false},
		{"12.3.4", 0, false},
		{"", 0, false},
		{"  ", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q: expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParseAmountSeparatorEquivalence(t *testing.T) {
	pairs := [][2]string{{"12,5", "12.5"}, {"0,01", "0.01"}, {"1500,00", "1500.00"}}
	for _, p := range pairs {
		a, err := ParseAmount(p[0])
		if err != nil {
			t.Fatalf("%q: %v", p[0], err)
		}
		b, err := ParseAmount(p[1])
		if err != nil {
			t.Fatalf("%q: %v", p[1], err)
		}
		if a != b {
			t.Fatalf("%q and %q parsed to different values: %v vs %v", p[0], p[1], a, b)
		}
	}
}
