package core

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in  string
		out Month
		ok  bool
	}{
		{"2026-08", Month{2026, 8}, true},
		{"2025-01", Month{2025, 1}, true},
		{"2025-1", Month{}, false}, // month must be zero-padded
		{"2025-13", Month{}, false},
		{"2025", Month{}, false},
		{"", Month{}, false},
	}
	for _, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMonthString(t *testing.T) {
	if got := (Month{2026, 8}).String(); got != "2026-08" {
		t.Fatalf("expected 2026-08, got %q", got)
	}
	if got := (Month{2025, 12}).String(); got != "2025-12" {
		t.Fatalf("expected 2025-12, got %q", got)
	}
}

func TestMonthRangeInclusive(t *testing.T) {
	m := Month{2024, 2} // leap February
	start := m.Start()
	end := m.End()

	if start != time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected start %v", start)
	}
	if !m.Contains(start) || !m.Contains(end) {
		t.Fatalf("range must be inclusive on both ends")
	}
	if m.Contains(start.Add(-time.Nanosecond)) {
		t.Fatalf("instant before the month must be excluded")
	}
	if m.Contains(end.Add(time.Nanosecond)) {
		t.Fatalf("instant after the month must be excluded")
	}
	if end.Day() != 29 {
		t.Fatalf("leap February must end on the 29th, got day %d", end.Day())
	}
}

func TestMonthNextPrev(t *testing.T) {
	if got := (Month{2025, 12}).Next(); got != (Month{2026, 1}) {
		t.Fatalf("expected 2026-01, got %v", got)
	}
	if got := (Month{2026, 1}).Prev(); got != (Month{2025, 12}) {
		t.Fatalf("expected 2025-12, got %v", got)
	}
}
