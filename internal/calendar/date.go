package calendar

import (
	"fmt"
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate      = apperror.New(http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "invalid date range")
)

// ParseDate parses a civil date and returns it as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOf drops the clock part of t, keeping the calendar day as seen in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Matches reports whether date is enabled by either mask. A schedule only ever
// uses one of the two, the other being zero.
func Matches(weekMask, monthMask int, date time.Time) bool {
	return WeekMaskHas(weekMask, int(date.Weekday())) || MonthMaskHas(monthMask, date.Day())
}

// Occurrences lists the dates in [from, to] enabled by the masks.
// to is inclusive and both bounds are reduced to calendar days.
func Occurrences(weekMask, monthMask int, from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if Matches(weekMask, monthMask, d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// DaysBetween counts calendar days from a to b, inclusive of both ends.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours()/24) + 1
}
