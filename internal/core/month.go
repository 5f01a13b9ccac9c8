package core

import (
	"fmt"
	"time"
)

// Month identifies one calendar month of one year. Its canonical string
// form is "YYYY-MM", the key under which budget documents are stored.
type Month struct {
	Year  int
	Month int // 1-12
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month())}
}

// CurrentMonth returns the Month containing the current instant.
func CurrentMonth() Month {
	return MonthOf(time.Now())
}

// ParseMonth parses the canonical "YYYY-MM" form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: int(t.Month())}, nil
}

func (m Month) Validate() error {
	if m.Year < 1 || m.Month < 1 || m.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the month, so that monthly queries cover
// the inclusive range [Start, End].
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return !t.Before(m.Start()) && !t.After(m.End())
}

func (m Month) Next() Month {
	if m.Month == 12 {
		return Month{Year: m.Year + 1, Month: 1}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) Prev() Month {
	if m.Month == 1 {
		return Month{Year: m.Year - 1, Month: 12}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}
