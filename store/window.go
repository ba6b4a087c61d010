package store

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Clock anchors calendar windows to a time zone. Now is overridable for tests.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

func (c Clock) location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

// Daily returns the window of one calendar day.
func (c Clock) Daily(year, month, day int) (Window, error) {
	if !validYear(year) || month < 1 || month > 12 || day < 1 || day > 31 {
		return Window{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	start := time.Date(year, time.Month(month), day, 0, 0, 0, 0, c.location())
	if start.Year() != year || int(start.Month()) != month || start.Day() != day {
		return Window{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	if start.After(startOfDay(c.now())) {
		return Window{}, ErrFutureDate
	}
	return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil
}

// Weekly returns the window of an ISO-8601 week (Monday to Monday).
func (c Clock) Weekly(isoYear, week int) (Window, error) {
	if !validYear(isoYear) || week < 1 || week > 53 {
		return Window{}, fmt.Errorf("%w: %d-W%02d", ErrInvalidDate, isoYear, week)
	}
	// January 4th always falls in ISO week 1
	first := startOfWeek(time.Date(isoYear, time.January, 4, 0, 0, 0, 0, c.location()))
	start := first.AddDate(0, 0, (week-1)*7)
	if y, w := start.ISOWeek(); y != isoYear || w != week {
		return Window{}, fmt.Errorf("%w: %d-W%02d", ErrInvalidDate, isoYear, week)
	}
	if start.After(startOfWeek(c.now())) {
		return Window{}, ErrFutureDate
	}
	return Window{Start: start, End: start.AddDate(0, 0, 7)}, nil
}

// Monthly returns the window of one calendar month.
func (c Clock) Monthly(year, month int) (Window, error) {
	if !validYear(year) || month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidDate, year, month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.location())
	if start.After(startOfMonth(c.now())) {
		return Window{}, ErrFutureDate
	}
	return Window{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// Yearly returns the window of one calendar year.
func (c Clock) Yearly(year int) (Window, error) {
	if !validYear(year) {
		return Window{}, fmt.Errorf("%w: %d", ErrInvalidDate, year)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, c.location())
	if year > c.now().Year() {
		return Window{}, ErrFutureDate
	}
	return Window{Start: start, End: start.AddDate(1, 0, 0)}, nil
}

// Today returns the window of the current day.
func (c Clock) Today() Window {
	start := startOfDay(c.now())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// ThisWeek returns the window of the current ISO week.
func (c Clock) ThisWeek() Window {
	start := startOfWeek(c.now())
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// ThisMonth returns the window of the current month.
func (c Clock) ThisMonth() Window {
	start := startOfMonth(c.now())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// ThisYear returns the window of the current year.
func (c Clock) ThisYear() Window {
	now := c.now()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: start.AddDate(1, 0, 0)}
}

func validYear(y int) bool {
	return y >= 1970 && y <= 9999
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
