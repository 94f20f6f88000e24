package core

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5000", 5000, true},
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{"5,000.50", 5000.5, true},
		{"5.000,50", 5000.5, true},
		{"1,000,000", 1000000, true},
		{"0", 0, true},
		{"  250 ", 250, true},
		{"", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParsePrice(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParsePrice(%q): expected error", tc.in)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	if q, err := ParseQuantity("3"); err != nil || q != 3 {
		t.Fatalf("got %d, %v", q, err)
	}
	for _, in := range []string{"0", "-1", "", "x", "1.5"} {
		if _, err := ParseQuantity(in); err == nil {
			t.Fatalf("ParseQuantity(%q): expected error", in)
		}
	}
}
