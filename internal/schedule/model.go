package schedule

import (
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "Schedule not found")
	ErrSlotNotFound       = apperror.New(http.StatusNotFound, "Time slot not found")
	ErrNotAuthorized      = apperror.New(http.StatusForbidden, "Doctor not found or does not belong to the healthcare provider")
	ErrInvalidType        = apperror.New(http.StatusBadRequest, "Schedule type must be daily, weekly or monthly")
	ErrNoDaysSelected     = apperror.New(http.StatusBadRequest, "At least one day must be selected")
	ErrSlotDayNotSelected = apperror.New(http.StatusBadRequest, "Time slot references a day not in the selected set")
	ErrInvalidTimeRange   = apperror.New(http.StatusBadRequest, "Time slot start time must be before end time")
	ErrInvalidMaxBookings = apperror.New(http.StatusBadRequest, "Time slot maxBookings must be at least 1")
	ErrScheduleNotActive  = apperror.New(http.StatusConflict, "Schedule is not active")
	ErrDateRangeTooLong   = apperror.New(http.StatusBadRequest, "Date range must not exceed 62 days")
)

// MaxDateRangeDays bounds ListOpenDates windows.
const MaxDateRangeDays = 62

type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeMonthly:
		return true
	}
	return false
}

// SlotKind is the table a slot lives in. Daily and weekly schedules both use
// weekly slots.
func (t Type) SlotKind() SlotKind {
	if t == TypeMonthly {
		return SlotMonthly
	}
	return SlotWeekly
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusDeleted   Status = "deleted"
)

type SlotKind string

const (
	SlotWeekly  SlotKind = "weekly"
	SlotMonthly SlotKind = "monthly"
)

type Schedule struct {
	ID            string
	HPID          string
	DoctorID      string
	Type          Type
	WeekDaysMask  int
	MonthDaysMask int
	Status        Status
	Slots         []Slot
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Matches reports whether date falls on a day enabled by the schedule's masks.
func (s *Schedule) Matches(date time.Time) bool {
	return calendar.Matches(s.WeekDaysMask, s.MonthDaysMask, date)
}

// SlotsOn returns the slots that recur on date, without looking at the masks.
func (s *Schedule) SlotsOn(date time.Time) []Slot {
	var out []Slot
	for _, sl := range s.Slots {
		if sl.RecursOn(date) {
			out = append(out, sl)
		}
	}
	return out
}

// Slot is a recurring time window on one weekday (weekly kind, 0 = Sunday) or
// one day of the month (monthly kind, 1-31).
type Slot struct {
	ID          string
	ScheduleID  string
	Kind        SlotKind
	Day         int
	StartTime   calendar.TimeOfDay
	EndTime     calendar.TimeOfDay
	MaxBookings int
}

func (s Slot) RecursOn(date time.Time) bool {
	if s.Kind == SlotMonthly {
		return date.Day() == s.Day
	}
	return int(date.Weekday()) == s.Day
}

// SlotInput is one requested slot. Day may be omitted for daily schedules, in
// which case the slot repeats on every weekday.
type SlotInput struct {
	Day         *int
	StartTime   calendar.TimeOfDay
	EndTime     calendar.TimeOfDay
	MaxBookings int
}

type CreateRequest struct {
	ProviderID   string
	DoctorID     string
	Type         Type
	SelectedDays []int
	TimeSlots    []SlotInput
}

// SlotAvailability is a slot on a concrete date with its remaining capacity.
// Full slots are still reported, with Available false.
type SlotAvailability struct {
	Slot      Slot
	Date      time.Time
	Booked    int
	Remaining int
	Available bool
}

// Filter defines filter options for listing schedules.
type Filter struct {
	HPID     string
	DoctorID string
	Status   Status
	Page     int
	PageSize int
}
