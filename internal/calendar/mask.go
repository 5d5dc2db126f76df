// Package calendar encodes recurring availability days as bitmasks and handles
// the civil dates and times of day that schedules are expressed in.
package calendar

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

const (
	// WeekDays is the number of bits used by a week mask; bit 0 is Sunday.
	WeekDays = 7
	// MonthDays is the number of bits used by a month mask; bit 0 is day 1.
	MonthDays = 31

	FullWeekMask = 1<<WeekDays - 1
)

var ErrInvalidDay = apperror.New(http.StatusBadRequest, "day is out of range")

// EncodeWeekMask sets bit d for every weekday d (0 = Sunday ... 6 = Saturday).
// Duplicates are harmless.
func EncodeWeekMask(days []int) (int, error) {
	mask := 0
	for _, d := range days {
		if d < 0 || d >= WeekDays {
			return 0, fmt.Errorf("%w: weekday %d not in [0,6]", ErrInvalidDay, d)
		}
		mask |= 1 << d
	}
	return mask, nil
}

// DecodeWeekMask returns the weekdays set in mask in ascending order.
// Bits above Saturday are ignored.
func DecodeWeekMask(mask int) []int {
	days := make([]int, 0, WeekDays)
	for d := 0; d < WeekDays; d++ {
		if mask&(1<<d) != 0 {
			days = append(days, d)
		}
	}
	return days
}

// EncodeMonthMask sets bit d-1 for every day of month d in [1,31].
func EncodeMonthMask(days []int) (int, error) {
	mask := 0
	for _, d := range days {
		if d < 1 || d > MonthDays {
			return 0, fmt.Errorf("%w: day of month %d not in [1,31]", ErrInvalidDay, d)
		}
		mask |= 1 << (d - 1)
	}
	return mask, nil
}

// DecodeMonthMask returns the days of month set in mask in ascending order.
func DecodeMonthMask(mask int) []int {
	days := make([]int, 0, MonthDays)
	for d := 1; d <= MonthDays; d++ {
		if mask&(1<<(d-1)) != 0 {
			days = append(days, d)
		}
	}
	return days
}

func WeekMaskHas(mask, weekday int) bool {
	if weekday < 0 || weekday >= WeekDays {
		return false
	}
	return mask&(1<<weekday) != 0
}

func MonthMaskHas(mask, day int) bool {
	if day < 1 || day > MonthDays {
		return false
	}
	return mask&(1<<(day-1)) != 0
}

// UniqueSorted returns days without duplicates, ascending. Used to normalize
// client-supplied selections before they are stored or compared.
func UniqueSorted(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
