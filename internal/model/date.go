package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day form accepted from the operator and sent
// to the store.
const DateLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string as a local calendar day.
func ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}
