package availability

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
	shortTime  = "15:04"
)

// Clock is a time of day expressed as seconds since midnight.
type Clock int

func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ParseClock accepts "HH:mm:ss" and "HH:mm".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		t, err = time.Parse(shortTime, s)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q, use HH:mm:ss", s)
		}
	}
	return NewClock(t.Hour(), t.Minute(), t.Second()), nil
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Second)
}

func (c Clock) Sub(other Clock) time.Duration {
	return time.Duration(c-other) * time.Second
}

// On places the clock on the calendar day of date, in date's location.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, int(c), 0, date.Location())
}

func (c Clock) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// ISOWeekday maps a date to 1=Monday..7=Sunday.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ParseDate parses a yyyy-MM-dd calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use yyyy-MM-dd", s)
	}
	return d, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
