// Package week holds the date arithmetic for award weeks. A week is
// identified by its Monday, stored as YYYY-MM-DD and shown as
// "Week of DD/MM/YYYY".
package week

import (
	"fmt"
	"time"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// MostRecentMonday returns the Monday on or before ref, at midnight UTC of
// that calendar date. Sunday steps back six days.
func MostRecentMonday(ref time.Time) time.Time {
	y, m, d := ref.Date()
	diff := int(ref.Weekday()) - 1
	if ref.Weekday() == time.Sunday {
		diff = 6
	}
	return time.Date(y, m, d-diff, 0, 0, 0, 0, time.UTC)
}

// Shift moves a week by n whole weeks; no bounds apply.
func Shift(monday time.Time, n int) time.Time {
	return monday.AddDate(0, 0, 7*n)
}

func Format(t time.Time) string {
	return t.Format(isoLayout)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week date %q: %w", s, err)
	}
	return t, nil
}

// Display renders a canonical YYYY-MM-DD date as "Week of DD/MM/YYYY".
// Unparseable input is returned unchanged.
func Display(iso string) string {
	t, err := Parse(iso)
	if err != nil {
		return iso
	}
	return "Week of " + t.Format(displayLayout)
}
