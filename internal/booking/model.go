package booking

import (
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/pkg/apperror"
	"github.com/medislot/appointment-backend/internal/schedule"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "Booking not found")
	ErrSlotNotFound      = apperror.New(http.StatusNotFound, "Time slot not found")
	ErrSlotFull          = apperror.New(http.StatusConflict, "Time slot is fully booked for this date")
	ErrScheduleNotActive = apperror.New(http.StatusConflict, "Schedule is not accepting bookings")
	ErrDateInPast        = apperror.New(http.StatusBadRequest, "Cannot book a date in the past")
	ErrDateNotInSchedule = apperror.New(http.StatusBadRequest, "The time slot does not occur on this date")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "Invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "Booking status cannot be changed this way")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// transitions lists the statuses a booking may move to from each status.
// Cancelled, completed and no_show are final.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

func (s Status) CanMoveTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID         string
	ScheduleID string
	SlotID     string
	SlotKind   schedule.SlotKind
	UserID     string
	Date       time.Time

	// Denormalized from the schedule and slot for listings.
	HPID      string
	DoctorID  string
	StartTime calendar.TimeOfDay
	EndTime   calendar.TimeOfDay

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReserveRequest struct {
	TimeSlotID string
	Date       time.Time
	UserID     string
}

// Filter defines filter options for listing bookings.
type Filter struct {
	UserID     string
	HPID       string
	ScheduleID string
	DoctorID   string
	Date       *time.Time
	Status     Status
	Page       int
	PageSize   int
}
