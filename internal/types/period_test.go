// README: Period bounds and billable-hour ceiling tests.
package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMonthOfBounds(t *testing.T) {
	p := MonthOf(2026, time.February)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"first instant", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid month", time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC), true},
		{"last instant", time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), true},
		{"end is exclusive", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"before start", time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := p.Contains(tc.at); got != tc.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	p, err := ParseMonth("2026-08")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if p.Month() != "2026-08" {
		t.Errorf("Month() = %q, want 2026-08", p.Month())
	}
	if !p.End.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v, want 2026-09-01", p.End)
	}

	if _, err := ParseMonth("August 2026"); err == nil {
		t.Error("expected error for non ISO month")
	}
}

func TestBillableHours(t *testing.T) {
	cases := []struct {
		minutes int64
		want    int64
	}{
		{0, 0},
		{-30, 0},
		{1, 1},
		{59, 1},
		{60, 1}, // exactly one hour is one unit, not two
		{61, 2},
		{130, 3},
	}
	for _, tc := range cases {
		got := BillableHours(decimal.NewFromInt(tc.minutes))
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Errorf("BillableHours(%d) = %s, want %d", tc.minutes, got, tc.want)
		}
	}
}
