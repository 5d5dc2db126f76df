package http

import (
	"time"

	"github.com/medislot/appointment-backend/internal/booking"
	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ScheduleID string `form:"scheduleId" binding:"omitempty,uuid"`
	DoctorID   string `form:"doctorId" binding:"omitempty,uuid"`
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed no_show"`
}

func (r *ListBookingsRequest) ToFilter() (booking.Filter, error) {
	f := booking.Filter{
		ScheduleID: r.ScheduleID,
		DoctorID:   r.DoctorID,
		Status:     booking.Status(r.Status),
		Page:       r.Page,
		PageSize:   r.PageSize,
	}
	if r.Date != "" {
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			return booking.Filter{}, err
		}
		f.Date = &d
	}
	return f, nil
}

type CreateBookingRequest struct {
	TimeSlotID string `json:"timeSlotId" binding:"required,uuid"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled completed no_show"`
}

type BookingResponse struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"scheduleId"`
	TimeSlotID string    `json:"timeSlotId"`
	UserID     string    `json:"userId"`
	HPID       string    `json:"hpId"`
	DoctorID   string    `json:"doctorId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		ScheduleID: b.ScheduleID,
		TimeSlotID: b.SlotID,
		UserID:     b.UserID,
		HPID:       b.HPID,
		DoctorID:   b.DoctorID,
		Date:       calendar.FormatDate(b.Date),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func NewBookingResponses(items []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(items))
	for i, b := range items {
		out[i] = NewBookingResponse(b)
	}
	return out
}
