// Package core holds the record types shared by every collection and the
// date handling for the DD/MM/YYYY strings they carry.
package core

import "time"

// DateLayout is the storage format of every date field (French convention).
const DateLayout = "02/01/2006"

// Date is a stored date string in DD/MM/YYYY form. Records written by older
// versions of the app may carry arbitrary strings here, so parsing is lazy
// and a failed parse is reported as "no date" rather than an error.
type Date string

// NewDate formats a calendar day as a storage date.
func NewDate(year, month, day int) Date {
	return Date(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(DateLayout))
}

// Today returns the storage date for the given instant.
func Today(now time.Time) Date {
	return Date(now.Format(DateLayout))
}

// Time parses the date. ok is false for empty or malformed values.
func (d Date) Time() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Between reports whether the date parses and falls within [start, end]
// inclusive. Malformed dates never match.
func (d Date) Between(start, end time.Time) bool {
	t, ok := d.Time()
	if !ok {
		return false
	}
	return !t.Before(start) && !t.After(end)
}

// SameMonth reports whether the date parses and falls in the given calendar
// month.
func (d Date) SameMonth(year int, month time.Month) bool {
	t, ok := d.Time()
	if !ok {
		return false
	}
	return t.Year() == year && t.Month() == month
}

func (d Date) String() string {
	return string(d)
}

// monthShortNames are the fixed-locale chart labels, January first.
var monthShortNames = [12]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Juin",
	"Juil", "Août", "Sep", "Oct", "Nov", "Déc",
}

// MonthShortName returns the abbreviated French label for a month.
func MonthShortName(m time.Month) string {
	return monthShortNames[int(m)-1]
}

// MonthBounds returns the first and last day of the month containing t,
// truncated to midnight UTC so Between comparisons are inclusive on both ends.
func MonthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}
