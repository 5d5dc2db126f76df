package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medislot/appointment-backend/internal/calendar"
	"github.com/medislot/appointment-backend/internal/db"
	"github.com/medislot/appointment-backend/internal/schedule"
)

type Repository interface {
	// Reserve inserts b if its schedule is active and fewer than maxBookings
	// non-cancelled bookings exist for the same slot and date. Concurrent
	// reservations of one slot and date are serialized.
	Reserve(ctx context.Context, b *Booking, maxBookings int) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// UpdateStatus changes the status only if it still equals from; otherwise
	// it fails with ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	CountActiveBySlots(ctx context.Context, slotIDs []string, date time.Time) (map[string]int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.schedule_id",
	"COALESCE(b.weekly_slot_id, b.monthly_slot_id)",
	"CASE WHEN b.weekly_slot_id IS NULL THEN 'monthly' ELSE 'weekly' END",
	"b.user_id", "b.booking_for_date", "s.hp_id", "s.doctor_id",
	"COALESCE(w.start_time, m.start_time)", "COALESCE(w.end_time, m.end_time)",
	"b.booking_status", "b.created_at", "b.updated_at",
}

func selectBookings(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("public.bookings b").
		Join("public.doctor_schedules s ON s.id = b.schedule_id").
		LeftJoin("public.weekly_schedule_days w ON w.id = b.weekly_slot_id").
		LeftJoin("public.monthly_schedule_days m ON m.id = b.monthly_slot_id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	var kind, status string
	var start, end pgtype.Time
	dest := []any{
		&b.ID, &b.ScheduleID, &b.SlotID, &kind, &b.UserID, &b.Date, &b.HPID, &b.DoctorID,
		&start, &end, &status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	b.SlotKind = schedule.SlotKind(kind)
	b.StartTime = calendar.TimeOfDay(start.Microseconds / 1_000_000)
	b.EndTime = calendar.TimeOfDay(end.Microseconds / 1_000_000)
	b.Status = Status(status)
	return &b, nil
}

func slotColumn(kind schedule.SlotKind) string {
	if kind == schedule.SlotMonthly {
		return "monthly_slot_id"
	}
	return "weekly_slot_id"
}

// lockKey identifies the (slot, date) pair guarded by the advisory lock.
func lockKey(slotID string, date time.Time) string {
	return slotID + ":" + calendar.FormatDate(date)
}

func (r *pgxRepository) Reserve(ctx context.Context, b *Booking, maxBookings int) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Held until commit or rollback.
		if _, err := tx.Exec(ctx,
			"SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", lockKey(b.SlotID, b.Date),
		); err != nil {
			return fmt.Errorf("lock slot failed: %w", err)
		}

		var status string
		err := tx.QueryRow(ctx,
			"SELECT schedule_status FROM public.doctor_schedules WHERE id = $1 FOR SHARE", b.ScheduleID,
		).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("check schedule status failed: %w", err)
		}
		if schedule.Status(status) != schedule.StatusActive {
			return ErrScheduleNotActive
		}

		column := slotColumn(b.SlotKind)
		countSQL, countArgs, err := psql.Select("count(*)").
			From("public.bookings").
			Where(squirrel.Eq{column: b.SlotID, "booking_for_date": b.Date}).
			Where(squirrel.NotEq{"booking_status": string(StatusCancelled)}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build count bookings query failed: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&count); err != nil {
			return fmt.Errorf("count bookings failed: %w", err)
		}
		if count >= maxBookings {
			return ErrSlotFull
		}

		insertSQL, insertArgs, err := psql.Insert("public.bookings").
			Columns("schedule_id", column, "user_id", "booking_for_date", "booking_status").
			Values(b.ScheduleID, b.SlotID, b.UserID, b.Date, string(b.Status)).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return fmt.Errorf("create booking failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings(bookingColumns...).
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings(append(bookingColumns, "count(*) OVER() AS total_count")...)

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.HPID != "" {
		query = query.Where(squirrel.Eq{"s.hp_id": filter.HPID})
	}
	if filter.ScheduleID != "" {
		query = query.Where(squirrel.Eq{"b.schedule_id": filter.ScheduleID})
	}
	if filter.DoctorID != "" {
		query = query.Where(squirrel.Eq{"s.doctor_id": filter.DoctorID})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"b.booking_for_date": *filter.Date})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.booking_status": string(filter.Status)})
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
		OrderBy("b.booking_for_date DESC", "COALESCE(w.start_time, m.start_time) ASC", "b.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("booking_status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "booking_status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *pgxRepository) CountActiveBySlots(ctx context.Context, slotIDs []string, date time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(weekly_slot_id, monthly_slot_id)::text, count(*)
		FROM public.bookings
		WHERE (weekly_slot_id = ANY($1::uuid[]) OR monthly_slot_id = ANY($1::uuid[]))
		  AND booking_for_date = $2
		  AND booking_status <> 'cancelled'
		GROUP BY 1`, slotIDs, calendar.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("count bookings failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID string
		var n int
		if err := rows.Scan(&slotID, &n); err != nil {
			return nil, fmt.Errorf("scan booking count failed: %w", err)
		}
		counts[slotID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking counts failed: %w", err)
	}
	return counts, nil
}
