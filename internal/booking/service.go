package booking

import (
	"context"
	"errors"
	"time"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/schedule"
)

// SlotFinder resolves a time slot and the schedule it belongs to.
type SlotFinder interface {
	GetSlot(ctx context.Context, slotID string) (*schedule.Slot, *schedule.Schedule, error)
}

type Service interface {
	// Reserve books a slot on a date for a user, failing with ErrSlotFull
	// once the slot's capacity for that date is used up.
	Reserve(ctx context.Context, req ReserveRequest) (*Booking, error)
	GetForUser(ctx context.Context, userID, id string) (*Booking, error)
	ListForUser(ctx context.Context, userID string, filter Filter) ([]*Booking, int, error)
	Cancel(ctx context.Context, userID, id string) (*Booking, error)

	ListForProvider(ctx context.Context, hpID string, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, hpID, id string, status Status) (*Booking, error)
}

type service struct {
	repo  Repository
	slots SlotFinder
	now   func() time.Time
}

func NewService(repo Repository, slots SlotFinder) Service {
	return &service{
		repo:  repo,
		slots: slots,
		now:   time.Now,
	}
}

func (s *service) Reserve(ctx context.Context, req ReserveRequest) (*Booking, error) {
	slot, sched, err := s.slots.GetSlot(ctx, req.TimeSlotID)
	if err != nil {
		if errors.Is(err, schedule.ErrSlotNotFound) || errors.Is(err, schedule.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	date := calendar.DateOf(req.Date)
	if date.Before(calendar.DateOf(s.now().UTC())) {
		return nil, ErrDateInPast
	}
	if !sched.Matches(date) || !slot.RecursOn(date) {
		return nil, ErrDateNotInSchedule
	}
	if sched.Status != schedule.StatusActive {
		return nil, ErrScheduleNotActive
	}

	b := &Booking{
		ScheduleID: sched.ID,
		SlotID:     slot.ID,
		SlotKind:   slot.Kind,
		UserID:     req.UserID,
		Date:       date,
		HPID:       sched.HPID,
		DoctorID:   sched.DoctorID,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		Status:     StatusPending,
	}
	if err := s.repo.Reserve(ctx, b, slot.MaxBookings); err != nil {
		return nil, err
	}
	return b, nil
}

// GetForUser hides bookings of other users behind ErrNotFound.
func (s *service) GetForUser(ctx context.Context, userID, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListForUser(ctx context.Context, userID string, filter Filter) ([]*Booking, int, error) {
	filter.UserID = userID
	filter.HPID = ""
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, userID, id string) (*Booking, error) {
	b, err := s.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, StatusCancelled)
}

func (s *service) ListForProvider(ctx context.Context, hpID string, filter Filter) ([]*Booking, int, error) {
	filter.HPID = hpID
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, hpID, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.HPID != hpID {
		return nil, ErrNotFound
	}
	return s.transition(ctx, b, status)
}

func (s *service) transition(ctx context.Context, b *Booking, to Status) (*Booking, error) {
	if !b.Status.CanMoveTo(to) {
		return nil, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, b.ID)
}
