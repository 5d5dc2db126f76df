package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/doctor"
)

// DoctorFinder resolves a doctor only when it belongs to the given provider.
type DoctorFinder interface {
	GetOwned(ctx context.Context, id, hpID string) (*doctor.Doctor, error)
}

// BookingCounter counts non-cancelled bookings per slot on a date.
type BookingCounter interface {
	CountActiveBySlots(ctx context.Context, slotIDs []string, date time.Time) (map[string]int, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Schedule, error)
	GetByID(ctx context.Context, id string) (*Schedule, error)
	GetForProvider(ctx context.Context, hpID, id string) (*Schedule, error)
	// ListByDoctor lists the active schedules of a doctor.
	ListByDoctor(ctx context.Context, doctorID string, page, pageSize int) ([]*Schedule, int, error)
	ListForProvider(ctx context.Context, hpID string, filter Filter) ([]*Schedule, int, error)
	Cancel(ctx context.Context, hpID, id string) error
	Delete(ctx context.Context, hpID, id string) error

	GetAvailability(ctx context.Context, id string, date time.Time) ([]SlotAvailability, error)
	ListOpenDates(ctx context.Context, id string, from, to time.Time) ([]time.Time, error)
	// GetSlot returns a slot together with its schedule.
	GetSlot(ctx context.Context, slotID string) (*Slot, *Schedule, error)
}

type service struct {
	repo     Repository
	doctors  DoctorFinder
	bookings BookingCounter
}

func NewService(repo Repository, doctors DoctorFinder, bookings BookingCounter) Service {
	return &service{
		repo:     repo,
		doctors:  doctors,
		bookings: bookings,
	}
}

func (s *service) ensureDoctorOwned(ctx context.Context, hpID, doctorID string) error {
	if _, err := s.doctors.GetOwned(ctx, doctorID, hpID); err != nil {
		if errors.Is(err, doctor.ErrNotOwned) || errors.Is(err, doctor.ErrNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Schedule, error) {
	if err := s.ensureDoctorOwned(ctx, req.ProviderID, req.DoctorID); err != nil {
		return nil, err
	}

	sched, err := Build(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Build validates req and produces the schedule and its slot rows. It checks,
// in order: the day selection, slot days against the selection, slot time
// ranges and slot capacities. The first failing check wins.
func Build(req CreateRequest) (*Schedule, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	sched := &Schedule{
		HPID:     req.ProviderID,
		DoctorID: req.DoctorID,
		Type:     req.Type,
		Status:   StatusActive,
	}

	var err error
	switch req.Type {
	case TypeDaily:
		sched.WeekDaysMask = calendar.FullWeekMask
	case TypeWeekly:
		if len(req.SelectedDays) == 0 {
			return nil, ErrNoDaysSelected
		}
		if sched.WeekDaysMask, err = calendar.EncodeWeekMask(req.SelectedDays); err != nil {
			return nil, err
		}
	case TypeMonthly:
		if len(req.SelectedDays) == 0 {
			return nil, ErrNoDaysSelected
		}
		if sched.MonthDaysMask, err = calendar.EncodeMonthMask(req.SelectedDays); err != nil {
			return nil, err
		}
	}

	for i, in := range req.TimeSlots {
		if in.Day == nil {
			if req.Type != TypeDaily {
				return nil, fmt.Errorf("%w: timeSlots[%d] has no day", ErrSlotDayNotSelected, i)
			}
			continue
		}
		if !sched.hasDay(*in.Day) {
			return nil, fmt.Errorf("%w: timeSlots[%d] day %d", ErrSlotDayNotSelected, i, *in.Day)
		}
	}
	for i, in := range req.TimeSlots {
		if !in.StartTime.Before(in.EndTime) {
			return nil, fmt.Errorf("%w: timeSlots[%d] %s-%s", ErrInvalidTimeRange, i, in.StartTime, in.EndTime)
		}
	}
	for i, in := range req.TimeSlots {
		if in.MaxBookings < 1 {
			return nil, fmt.Errorf("%w: timeSlots[%d]", ErrInvalidMaxBookings, i)
		}
	}

	kind := req.Type.SlotKind()
	for _, in := range req.TimeSlots {
		days := []int{}
		if in.Day != nil {
			days = append(days, *in.Day)
		} else {
			days = calendar.DecodeWeekMask(calendar.FullWeekMask)
		}
		for _, d := range days {
			sched.Slots = append(sched.Slots, Slot{
				Kind:        kind,
				Day:         d,
				StartTime:   in.StartTime,
				EndTime:     in.EndTime,
				MaxBookings: in.MaxBookings,
			})
		}
	}

	return sched, nil
}

func (s *Schedule) hasDay(day int) bool {
	if s.Type == TypeMonthly {
		return calendar.MonthMaskHas(s.MonthDaysMask, day)
	}
	return calendar.WeekMaskHas(s.WeekDaysMask, day)
}

func (s *service) GetByID(ctx context.Context, id string) (*Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetForProvider(ctx context.Context, hpID, id string) (*Schedule, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sched.HPID != hpID {
		return nil, ErrNotAuthorized
	}
	return sched, nil
}

func (s *service) ListByDoctor(ctx context.Context, doctorID string, page, pageSize int) ([]*Schedule, int, error) {
	return s.repo.List(ctx, Filter{
		DoctorID: doctorID,
		Status:   StatusActive,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *service) ListForProvider(ctx context.Context, hpID string, filter Filter) ([]*Schedule, int, error) {
	if filter.DoctorID != "" {
		if err := s.ensureDoctorOwned(ctx, hpID, filter.DoctorID); err != nil {
			return nil, 0, err
		}
	}
	filter.HPID = hpID
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, hpID, id string) error {
	if _, err := s.GetForProvider(ctx, hpID, id); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, []Status{StatusActive}, StatusCancelled)
}

// Delete soft-deletes a schedule. It happens at most once; rows stay for the
// bookings that reference them.
func (s *service) Delete(ctx context.Context, hpID, id string) error {
	if _, err := s.GetForProvider(ctx, hpID, id); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, []Status{StatusActive, StatusCancelled}, StatusDeleted)
}

func (s *service) GetAvailability(ctx context.Context, id string, date time.Time) ([]SlotAvailability, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date = calendar.DateOf(date)
	if sched.Status != StatusActive || !sched.Matches(date) {
		return []SlotAvailability{}, nil
	}

	slots := sched.SlotsOn(date)
	if len(slots) == 0 {
		return []SlotAvailability{}, nil
	}

	ids := make([]string, len(slots))
	for i, sl := range slots {
		ids[i] = sl.ID
	}
	counts, err := s.bookings.CountActiveBySlots(ctx, ids, date)
	if err != nil {
		return nil, err
	}

	out := make([]SlotAvailability, len(slots))
	for i, sl := range slots {
		booked := counts[sl.ID]
		remaining := sl.MaxBookings - booked
		out[i] = SlotAvailability{
			Slot:      sl,
			Date:      date,
			Booked:    booked,
			Remaining: remaining,
			Available: remaining > 0,
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.StartTime < out[j].Slot.StartTime })
	return out, nil
}

func (s *service) ListOpenDates(ctx context.Context, id string, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, calendar.ErrInvalidDateRange
	}
	if calendar.DaysBetween(from, to) > MaxDateRangeDays {
		return nil, ErrDateRangeTooLong
	}

	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sched.Status != StatusActive {
		return []time.Time{}, nil
	}

	dates := []time.Time{}
	for _, d := range calendar.Occurrences(sched.WeekDaysMask, sched.MonthDaysMask, from, to) {
		if len(sched.SlotsOn(d)) > 0 {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

func (s *service) GetSlot(ctx context.Context, slotID string) (*Slot, *Schedule, error) {
	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, nil, err
	}
	sched, err := s.repo.GetByID(ctx, slot.ScheduleID)
	if err != nil {
		return nil, nil, err
	}
	return slot, sched, nil
}
