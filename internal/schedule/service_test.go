package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/doctor"
)

type mockRepo struct {
	schedules map[string]*Schedule
	failSlots bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{schedules: map[string]*Schedule{}}
}

func (m *mockRepo) Create(_ context.Context, s *Schedule) error {
	if m.failSlots {
		return fmt.Errorf("create slot failed: boom")
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	for i := range s.Slots {
		s.Slots[i].ID = uuid.NewString()
		s.Slots[i].ScheduleID = s.ID
	}
	cp := *s
	m.schedules[s.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, f Filter) ([]*Schedule, int, error) {
	var out []*Schedule
	for _, s := range m.schedules {
		if f.HPID != "" && s.HPID != f.HPID {
			continue
		}
		if f.DoctorID != "" && s.DoctorID != f.DoctorID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) SetStatus(_ context.Context, id string, from []Status, to Status) error {
	s, ok := m.schedules[id]
	if !ok {
		return ErrNotFound
	}
	for _, st := range from {
		if s.Status == st {
			s.Status = to
			return nil
		}
	}
	return ErrScheduleNotActive
}

func (m *mockRepo) GetSlot(_ context.Context, slotID string) (*Slot, error) {
	for _, s := range m.schedules {
		for _, sl := range s.Slots {
			if sl.ID == slotID {
				cp := sl
				return &cp, nil
			}
		}
	}
	return nil, ErrSlotNotFound
}

// ownedDoctors maps doctor id to provider id.
type ownedDoctors map[string]string

func (o ownedDoctors) GetOwned(_ context.Context, id, hpID string) (*doctor.Doctor, error) {
	if owner, ok := o[id]; ok && owner == hpID {
		return &doctor.Doctor{ID: id, HPID: &owner}, nil
	}
	return nil, doctor.ErrNotOwned
}

type fixedCounter map[string]int

func (f fixedCounter) CountActiveBySlots(_ context.Context, slotIDs []string, _ time.Time) (map[string]int, error) {
	out := map[string]int{}
	for _, id := range slotIDs {
		out[id] = f[id]
	}
	return out, nil
}

const (
	hpA     = "aaaaaaaa-0000-0000-0000-000000000001"
	hpB     = "bbbbbbbb-0000-0000-0000-000000000002"
	doctorA = "dddddddd-0000-0000-0000-000000000001"
)

func day(d int) *int { return &d }

func hhmm(s string) calendar.TimeOfDay {
	t, err := calendar.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func weeklyRequest() CreateRequest {
	return CreateRequest{
		ProviderID:   hpA,
		DoctorID:     doctorA,
		Type:         TypeWeekly,
		SelectedDays: []int{1, 3},
		TimeSlots: []SlotInput{
			{Day: day(1), StartTime: hhmm("09:00"), EndTime: hhmm("10:00"), MaxBookings: 2},
			{Day: day(3), StartTime: hhmm("14:00"), EndTime: hhmm("15:00"), MaxBookings: 1},
		},
	}
}

func newTestService(counts fixedCounter) (Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, ownedDoctors{doctorA: hpA}, counts), repo
}

func TestCreateWeeklySchedule(t *testing.T) {
	svc, repo := newTestService(fixedCounter{})

	s, err := svc.Create(context.Background(), weeklyRequest())
	require.NoError(t, err)

	assert.Equal(t, 0b0001010, s.WeekDaysMask)
	assert.Zero(t, s.MonthDaysMask)
	assert.Equal(t, StatusActive, s.Status)
	require.Len(t, s.Slots, 2)
	for _, sl := range s.Slots {
		assert.Equal(t, SlotWeekly, sl.Kind)
		assert.Equal(t, s.ID, sl.ScheduleID)
	}
	assert.Contains(t, repo.schedules, s.ID)
}

func TestCreateChecksPreconditionsInOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateRequest)
		want   error
	}{
		{
			name:   "doctor of another provider",
			mutate: func(r *CreateRequest) { r.ProviderID = hpB; r.SelectedDays = nil },
			want:   ErrNotAuthorized,
		},
		{
			name:   "unknown doctor",
			mutate: func(r *CreateRequest) { r.DoctorID = uuid.NewString() },
			want:   ErrNotAuthorized,
		},
		{
			name:   "no days selected",
			mutate: func(r *CreateRequest) { r.SelectedDays = nil; r.TimeSlots[0].MaxBookings = 0 },
			want:   ErrNoDaysSelected,
		},
		{
			name:   "day out of range",
			mutate: func(r *CreateRequest) { r.SelectedDays = []int{1, 7} },
			want:   calendar.ErrInvalidDay,
		},
		{
			name: "slot on a day not selected",
			mutate: func(r *CreateRequest) {
				r.TimeSlots[0].Day = day(2)
				r.TimeSlots[1].EndTime = r.TimeSlots[1].StartTime
			},
			want: ErrSlotDayNotSelected,
		},
		{
			name:   "weekly slot without a day",
			mutate: func(r *CreateRequest) { r.TimeSlots[1].Day = nil },
			want:   ErrSlotDayNotSelected,
		},
		{
			name: "end before start",
			mutate: func(r *CreateRequest) {
				r.TimeSlots[1].StartTime, r.TimeSlots[1].EndTime = r.TimeSlots[1].EndTime, r.TimeSlots[1].StartTime
				r.TimeSlots[0].MaxBookings = 0
			},
			want: ErrInvalidTimeRange,
		},
		{
			name:   "zero capacity",
			mutate: func(r *CreateRequest) { r.TimeSlots[1].MaxBookings = 0 },
			want:   ErrInvalidMaxBookings,
		},
		{
			name:   "unknown type",
			mutate: func(r *CreateRequest) { r.Type = "yearly" },
			want:   ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(fixedCounter{})
			req := weeklyRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.Empty(t, repo.schedules)
		})
	}
}

func TestCreateMonthlySchedule(t *testing.T) {
	svc, _ := newTestService(fixedCounter{})

	s, err := svc.Create(context.Background(), CreateRequest{
		ProviderID:   hpA,
		DoctorID:     doctorA,
		Type:         TypeMonthly,
		SelectedDays: []int{1, 15, 31},
		TimeSlots: []SlotInput{
			{Day: day(15), StartTime: hhmm("08:30"), EndTime: hhmm("12:00"), MaxBookings: 10},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, s.WeekDaysMask)
	assert.Equal(t, 1|1<<14|1<<30, s.MonthDaysMask)
	require.Len(t, s.Slots, 1)
	assert.Equal(t, SlotMonthly, s.Slots[0].Kind)
}

func TestCreateDailyExpandsSlots(t *testing.T) {
	svc, _ := newTestService(fixedCounter{})

	s, err := svc.Create(context.Background(), CreateRequest{
		ProviderID: hpA,
		DoctorID:   doctorA,
		Type:       TypeDaily,
		TimeSlots: []SlotInput{
			{StartTime: hhmm("09:00"), EndTime: hhmm("09:30"), MaxBookings: 3},
			{Day: day(6), StartTime: hhmm("18:00"), EndTime: hhmm("19:00"), MaxBookings: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, calendar.FullWeekMask, s.WeekDaysMask)
	require.Len(t, s.Slots, 8)
	for d := 0; d < 7; d++ {
		assert.Equal(t, d, s.Slots[d].Day)
	}
	assert.Equal(t, 6, s.Slots[7].Day)
}

func TestCreatePropagatesRepositoryFailure(t *testing.T) {
	svc, repo := newTestService(fixedCounter{})
	repo.failSlots = true

	_, err := svc.Create(context.Background(), weeklyRequest())
	require.Error(t, err)
	assert.Empty(t, repo.schedules)
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(fixedCounter{})
	s, err := svc.Create(ctx, weeklyRequest())
	require.NoError(t, err)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	mondaySlot := s.Slots[0].ID

	svc = NewService(repo, ownedDoctors{doctorA: hpA}, fixedCounter{mondaySlot: 2})

	got, err := svc.GetAvailability(ctx, s.ID, monday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mondaySlot, got[0].Slot.ID)
	assert.Equal(t, 2, got[0].Booked)
	assert.Equal(t, 0, got[0].Remaining)
	assert.False(t, got[0].Available)

	got, err = svc.GetAvailability(ctx, s.ID, tuesday)
	require.NoError(t, err)
	assert.Empty(t, got)

	wednesday := monday.AddDate(0, 0, 2)
	got, err = svc.GetAvailability(ctx, s.ID, wednesday)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Remaining)
	assert.True(t, got[0].Available)
}

func TestAvailabilityEmptyForInactiveSchedules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(fixedCounter{})
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cancelled, err := svc.Create(ctx, weeklyRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, hpA, cancelled.ID))

	deleted, err := svc.Create(ctx, weeklyRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, hpA, deleted.ID))

	for _, id := range []string{cancelled.ID, deleted.ID} {
		for i := 0; i < 7; i++ {
			got, err := svc.GetAvailability(ctx, id, monday.AddDate(0, 0, i))
			require.NoError(t, err)
			assert.Empty(t, got)
		}
		dates, err := svc.ListOpenDates(ctx, id, monday, monday.AddDate(0, 0, 30))
		require.NoError(t, err)
		assert.Empty(t, dates)
	}
}

func TestScheduleLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(fixedCounter{})
	s, err := svc.Create(ctx, weeklyRequest())
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.Cancel(ctx, hpB, s.ID), ErrNotAuthorized))
	assert.True(t, errors.Is(svc.Delete(ctx, hpB, s.ID), ErrNotAuthorized))

	require.NoError(t, svc.Cancel(ctx, hpA, s.ID))
	assert.True(t, errors.Is(svc.Cancel(ctx, hpA, s.ID), ErrScheduleNotActive))

	require.NoError(t, svc.Delete(ctx, hpA, s.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, hpA, s.ID), ErrScheduleNotActive))

	active, _, err := svc.ListByDoctor(ctx, doctorA, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestListOpenDates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(fixedCounter{})
	s, err := svc.Create(ctx, weeklyRequest())
	require.NoError(t, err)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // Sunday
	dates, err := svc.ListOpenDates(ctx, s.ID, from, from.AddDate(0, 0, 13))
	require.NoError(t, err)

	var got []string
	for _, d := range dates {
		got = append(got, calendar.FormatDate(d))
	}
	assert.Equal(t, []string{"2026-03-02", "2026-03-04", "2026-03-09", "2026-03-11"}, got)

	_, err = svc.ListOpenDates(ctx, s.ID, from, from.AddDate(0, 0, MaxDateRangeDays))
	assert.True(t, errors.Is(err, ErrDateRangeTooLong))

	_, err = svc.ListOpenDates(ctx, s.ID, from, from.AddDate(0, 0, -1))
	assert.True(t, errors.Is(err, calendar.ErrInvalidDateRange))
}

func TestListForProviderChecksDoctorOwnership(t *testing.T) {
	svc, _ := newTestService(fixedCounter{})

	_, _, err := svc.ListForProvider(context.Background(), hpB, Filter{DoctorID: doctorA})
	assert.True(t, errors.Is(err, ErrNotAuthorized))
}

func TestGetSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(fixedCounter{})
	s, err := svc.Create(ctx, weeklyRequest())
	require.NoError(t, err)

	slot, sched, err := svc.GetSlot(ctx, s.Slots[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, slot.Day)
	assert.Equal(t, s.ID, sched.ID)

	_, _, err = svc.GetSlot(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, ErrSlotNotFound))
}
