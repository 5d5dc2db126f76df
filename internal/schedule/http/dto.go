package http

import (
	"time"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/pkg/request"
	"github.com/medislot/appointment-backend/internal/schedule"
)

// SlotRequest carries dayOfWeek for daily/weekly schedules and dayOfMonth for
// monthly ones. Daily slots may omit the day to repeat every day.
type SlotRequest struct {
	DayOfWeek   *int   `json:"dayOfWeek"`
	DayOfMonth  *int   `json:"dayOfMonth"`
	StartTime   string `json:"startTime" binding:"required,hhmm"`
	EndTime     string `json:"endTime" binding:"required,hhmm"`
	MaxBookings *int   `json:"maxBookings"`
}

type CreateScheduleRequest struct {
	ScheduleType string        `json:"scheduleType" binding:"required,oneof=daily weekly monthly"`
	WeekDays     []int         `json:"weekDays"`
	MonthDays    []int         `json:"monthDays"`
	TimeSlots    []SlotRequest `json:"timeSlots" binding:"required,min=1,dive"`
}

func (r *CreateScheduleRequest) ToDomain(hpID, doctorID string) (schedule.CreateRequest, error) {
	typ := schedule.Type(r.ScheduleType)
	req := schedule.CreateRequest{
		ProviderID:   hpID,
		DoctorID:     doctorID,
		Type:         typ,
		SelectedDays: r.WeekDays,
	}
	if typ == schedule.TypeMonthly {
		req.SelectedDays = r.MonthDays
	}

	for _, s := range r.TimeSlots {
		start, err := calendar.ParseTimeOfDay(s.StartTime)
		if err != nil {
			return schedule.CreateRequest{}, err
		}
		end, err := calendar.ParseTimeOfDay(s.EndTime)
		if err != nil {
			return schedule.CreateRequest{}, err
		}

		in := schedule.SlotInput{
			Day:         s.DayOfWeek,
			StartTime:   start,
			EndTime:     end,
			MaxBookings: 1,
		}
		if typ == schedule.TypeMonthly {
			in.Day = s.DayOfMonth
		}
		if s.MaxBookings != nil {
			in.MaxBookings = *s.MaxBookings
		}
		req.TimeSlots = append(req.TimeSlots, in)
	}
	return req, nil
}

// ListSchedulesRequest defines query parameters for listing a provider's schedules.
type ListSchedulesRequest struct {
	request.ListParams
	DoctorID string `form:"doctorId" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=active cancelled deleted"`
}

type AvailabilityRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type OpenDatesRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

type SlotResponse struct {
	ID          string `json:"id"`
	DayOfWeek   *int   `json:"dayOfWeek,omitempty"`
	DayOfMonth  *int   `json:"dayOfMonth,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	MaxBookings int    `json:"maxBookings"`
}

func NewSlotResponse(s schedule.Slot) SlotResponse {
	day := s.Day
	resp := SlotResponse{
		ID:          s.ID,
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		MaxBookings: s.MaxBookings,
	}
	if s.Kind == schedule.SlotMonthly {
		resp.DayOfMonth = &day
	} else {
		resp.DayOfWeek = &day
	}
	return resp
}

type ScheduleResponse struct {
	ID            string         `json:"id"`
	HPID          string         `json:"hpId"`
	DoctorID      string         `json:"doctorId"`
	ScheduleType  string         `json:"scheduleType"`
	WeekDaysMask  int            `json:"weekDaysMask"`
	MonthDaysMask int            `json:"monthDaysMask"`
	WeekDays      []int          `json:"weekDays"`
	MonthDays     []int          `json:"monthDays"`
	Status        string         `json:"status"`
	TimeSlots     []SlotResponse `json:"timeSlots"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func NewScheduleResponse(s *schedule.Schedule) ScheduleResponse {
	slots := make([]SlotResponse, len(s.Slots))
	for i, sl := range s.Slots {
		slots[i] = NewSlotResponse(sl)
	}
	return ScheduleResponse{
		ID:            s.ID,
		HPID:          s.HPID,
		DoctorID:      s.DoctorID,
		ScheduleType:  string(s.Type),
		WeekDaysMask:  s.WeekDaysMask,
		MonthDaysMask: s.MonthDaysMask,
		WeekDays:      calendar.DecodeWeekMask(s.WeekDaysMask),
		MonthDays:     calendar.DecodeMonthMask(s.MonthDaysMask),
		Status:        string(s.Status),
		TimeSlots:     slots,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func NewScheduleResponses(items []*schedule.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, len(items))
	for i, s := range items {
		out[i] = NewScheduleResponse(s)
	}
	return out
}

type AvailabilityResponse struct {
	SlotID      string `json:"slotId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	MaxBookings int    `json:"maxBookings"`
	Booked      int    `json:"booked"`
	Remaining   int    `json:"remaining"`
	Available   bool   `json:"available"`
}

func NewAvailabilityResponses(items []schedule.SlotAvailability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, len(items))
	for i, a := range items {
		remaining := a.Remaining
		if remaining < 0 {
			remaining = 0
		}
		out[i] = AvailabilityResponse{
			SlotID:      a.Slot.ID,
			StartTime:   a.Slot.StartTime.String(),
			EndTime:     a.Slot.EndTime.String(),
			MaxBookings: a.Slot.MaxBookings,
			Booked:      a.Booked,
			Remaining:   remaining,
			Available:   a.Available,
		}
	}
	return out
}
