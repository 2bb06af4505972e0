package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"3.50", 350, true},
		{"10", 1000, true},
		{"0", 0, true},
		{".5", 50, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: expected ok, got %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMoneyDollars(t *testing.T) {
	if d := (Money{Cents: 1234}).Dollars(); d != 12.34 {
		t.Fatalf("got %v", d)
	}
}
