package core

import (
	"testing"
	"time"
)

func TestDateTime(t *testing.T) {
	cases := []struct {
		in Date
		ok bool
	}{
		{"15/03/2025", true},
		{"01/01/2000", true},
		{"31/12/1999", true},
		{"2025-03-15", false},
		{"32/01/2025", false},
		{"15/13/2025", false},
		{"", false},
		{"pas une date", false},
	}
	for _, tc := range cases {
		_, ok := tc.in.Time()
		if ok != tc.ok {
			t.Errorf("%q: expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
	}
}

func TestDateBetween(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		in    Date
		match bool
	}{
		{"01/03/2025", true},  // month start is inclusive
		{"31/03/2025", true},  // month end is inclusive
		{"15/03/2025", true},
		{"28/02/2025", false},
		{"01/04/2025", false},
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := tc.in.Between(start, end); got != tc.match {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.match, got)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC))
	if start.Day() != 1 || start.Month() != 2 {
		t.Errorf("unexpected start %v", start)
	}
	if end.Day() != 28 || end.Month() != 2 {
		t.Errorf("unexpected end %v", end)
	}
}

func TestMonthShortName(t *testing.T) {
	if MonthShortName(time.January) != "Jan" {
		t.Errorf("January label mismatch")
	}
	if MonthShortName(time.December) != "Déc" {
		t.Errorf("December label mismatch")
	}
	if MonthShortName(time.August) != "Août" {
		t.Errorf("August label mismatch")
	}
}
