package dataset

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar date, it is always held at midnight UTC and serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t, keeping the calendar date t has in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// DaysBetween returns the absolute number of days between the two dates.
func DaysBetween(a, b Date) int {
	diff := a.Time.Sub(b.Time)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	err := json.Unmarshal(b, &raw)
	if err != nil {
		return err
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			*d = DateOf(parsed)
			return nil
		}
	}
	return fmt.Errorf("invalid date: %q", raw)
}
