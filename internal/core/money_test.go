package core

import "testing"

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"1234,56", 123456, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"0,00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseTargetToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"", 0, true}, // empty target means "no target"
		{"0", 0, true},
		{"0,00", 0, true},
		{"3000", 300000, true},
		{"99,90", 9990, true},
		{"-5", 0, false},
		{"x", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTargetToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatReais(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 0,01"},
		{12345, "R$ 123,45"},
		{-9990, "-R$ 99,90"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).FormatReais(); got != tc.out {
			t.Fatalf("%d expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}
