package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/db"
)

type Repository interface {
	// Create inserts the schedule and its slots in one transaction, filling in
	// the generated ids.
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id string) (*Schedule, error)
	List(ctx context.Context, filter Filter) ([]*Schedule, int, error)
	// SetStatus moves the schedule to status `to` if its current status is one
	// of `from`; otherwise it fails with ErrScheduleNotActive.
	SetStatus(ctx context.Context, id string, from []Status, to Status) error
	GetSlot(ctx context.Context, slotID string) (*Slot, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var scheduleColumns = []string{
	"id", "hp_id", "doctor_id", "schedule_type", "week_days_mask", "month_days_mask",
	"schedule_status", "created_at", "updated_at",
}

const slotUnion = `
SELECT id, schedule_id, 'weekly' AS kind, day_of_week AS day, start_time, end_time, max_bookings
FROM public.weekly_schedule_days WHERE %[1]s
UNION ALL
SELECT id, schedule_id, 'monthly' AS kind, day_of_month AS day, start_time, end_time, max_bookings
FROM public.monthly_schedule_days WHERE %[1]s
ORDER BY day, start_time`

func toPgTime(t calendar.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) calendar.TimeOfDay {
	return calendar.TimeOfDay(t.Microseconds / 1_000_000)
}

func scanSchedule(row pgx.Row, extra ...any) (*Schedule, error) {
	var s Schedule
	var typ, status string
	dest := []any{
		&s.ID, &s.HPID, &s.DoctorID, &typ, &s.WeekDaysMask, &s.MonthDaysMask,
		&status, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	s.Type = Type(typ)
	s.Status = Status(status)
	return &s, nil
}

func scanSlots(rows pgx.Rows) ([]Slot, error) {
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var kind string
		var start, end pgtype.Time
		if err := rows.Scan(&sl.ID, &sl.ScheduleID, &kind, &sl.Day, &start, &end, &sl.MaxBookings); err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		sl.Kind = SlotKind(kind)
		sl.StartTime = fromPgTime(start)
		sl.EndTime = fromPgTime(end)
		slots = append(slots, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots failed: %w", err)
	}
	return slots, nil
}

func (r *pgxRepository) Create(ctx context.Context, s *Schedule) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Insert("public.doctor_schedules").
			Columns("hp_id", "doctor_id", "schedule_type", "week_days_mask", "month_days_mask", "schedule_status").
			Values(s.HPID, s.DoctorID, string(s.Type), s.WeekDaysMask, s.MonthDaysMask, string(s.Status)).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create schedule query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("create schedule failed: %w", err)
		}

		for i := range s.Slots {
			sl := &s.Slots[i]
			sl.ScheduleID = s.ID

			table, dayColumn := "public.weekly_schedule_days", "day_of_week"
			if sl.Kind == SlotMonthly {
				table, dayColumn = "public.monthly_schedule_days", "day_of_month"
			}

			query, args, err := psql.Insert(table).
				Columns("schedule_id", dayColumn, "start_time", "end_time", "max_bookings").
				Values(s.ID, sl.Day, toPgTime(sl.StartTime), toPgTime(sl.EndTime), sl.MaxBookings).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return fmt.Errorf("build create slot query failed: %w", err)
			}
			if err := tx.QueryRow(ctx, query, args...).Scan(&sl.ID); err != nil {
				return fmt.Errorf("create slot failed: %w", err)
			}
		}
		return nil
	})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Schedule, error) {
	query, args, err := psql.Select(scheduleColumns...).
		From("public.doctor_schedules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get schedule query failed: %w", err)
	}

	s, err := scanSchedule(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get schedule failed: %w", err)
	}

	if err := r.attachSlots(ctx, []*Schedule{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Schedule, int, error) {
	query := psql.Select(append(scheduleColumns, "count(*) OVER() AS total_count")...).
		From("public.doctor_schedules")

	if filter.HPID != "" {
		query = query.Where(squirrel.Eq{"hp_id": filter.HPID})
	}
	if filter.DoctorID != "" {
		query = query.Where(squirrel.Eq{"doctor_id": filter.DoctorID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"schedule_status": string(filter.Status)})
	} else {
		// Deleted schedules only remain for booking history.
		query = query.Where(squirrel.NotEq{"schedule_status": string(StatusDeleted)})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list schedules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list schedules failed: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	var total int
	for rows.Next() {
		s, err := scanSchedule(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan schedule failed: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate schedules failed: %w", err)
	}
	rows.Close()

	if err := r.attachSlots(ctx, schedules); err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

// attachSlots loads the slots of every schedule in one round trip.
func (r *pgxRepository) attachSlots(ctx context.Context, schedules []*Schedule) error {
	if len(schedules) == 0 {
		return nil
	}

	ids := make([]string, len(schedules))
	byID := make(map[string]*Schedule, len(schedules))
	for i, s := range schedules {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(slotUnion, "schedule_id = ANY($1::uuid[])"), ids)
	if err != nil {
		return fmt.Errorf("list slots failed: %w", err)
	}
	slots, err := scanSlots(rows)
	if err != nil {
		return err
	}

	for _, sl := range slots {
		s := byID[sl.ScheduleID]
		s.Slots = append(s.Slots, sl)
	}
	return nil
}

func (r *pgxRepository) SetStatus(ctx context.Context, id string, from []Status, to Status) error {
	fromValues := make([]string, len(from))
	for i, st := range from {
		fromValues[i] = string(st)
	}

	query, args, err := psql.Update("public.doctor_schedules").
		Set("schedule_status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "schedule_status": fromValues}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update schedule status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update schedule status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrScheduleNotActive
	}
	return nil
}

func (r *pgxRepository) GetSlot(ctx context.Context, slotID string) (*Slot, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(slotUnion, "id = $1"), slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot failed: %w", err)
	}
	slots, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrSlotNotFound
	}
	return &slots[0], nil
}
