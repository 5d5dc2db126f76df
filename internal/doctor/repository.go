package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Doctor, error)
	// GetOwned returns the doctor only when it belongs to hpID; otherwise ErrNotOwned.
	GetOwned(ctx context.Context, id, hpID string) (*Doctor, error)
	GetByPhone(ctx context.Context, phone string) (*Doctor, error)
	List(ctx context.Context, filter Filter) ([]*Doctor, int, error)
	Create(ctx context.Context, d *Doctor) error
	// Update applies f. A non-empty hpID restricts the update to that provider's doctors.
	Update(ctx context.Context, id, hpID string, f Fields) (*Doctor, error)
	Delete(ctx context.Context, id, hpID string) error
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var doctorColumns = []string{
	"id", "hp_id", "name", "email", "phone", "about", "gender", "qualifications",
	"specialty", "profile_picture", "created_at", "updated_at",
}

func scanDoctor(row pgx.Row, extra ...any) (*Doctor, error) {
	var d Doctor
	dest := []any{
		&d.ID, &d.HPID, &d.Name, &d.Email, &d.Phone, &d.About, &d.Gender, &d.Qualifications,
		&d.Specialty, &d.ProfilePicture, &d.CreatedAt, &d.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &d, nil
}

func mapWriteError(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		switch e.Code {
		case pgerrcode.UniqueViolation:
			return ErrPhoneAlreadyUsed
		case pgerrcode.ForeignKeyViolation:
			return ErrHasSchedules
		}
	}
	return err
}

func (r *pgxRepository) get(ctx context.Context, where squirrel.Sqlizer, notFound error) (*Doctor, error) {
	query, args, err := psql.Select(doctorColumns...).
		From("public.doctors").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get doctor query failed: %w", err)
	}

	d, err := scanDoctor(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("get doctor failed: %w", err)
	}
	return d, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return r.get(ctx, squirrel.Eq{"id": id}, ErrNotFound)
}

func (r *pgxRepository) GetOwned(ctx context.Context, id, hpID string) (*Doctor, error) {
	return r.get(ctx, squirrel.Eq{"id": id, "hp_id": hpID}, ErrNotOwned)
}

func (r *pgxRepository) GetByPhone(ctx context.Context, phone string) (*Doctor, error) {
	return r.get(ctx, squirrel.Eq{"phone": phone}, ErrNotFound)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Doctor, int, error) {
	query := psql.Select(append(doctorColumns, "count(*) OVER() AS total_count")...).
		From("public.doctors")

	if filter.HPID != "" {
		query = query.Where(squirrel.Eq{"hp_id": filter.HPID})
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
		OrderBy("name ASC", "created_at ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list doctors query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors failed: %w", err)
	}
	defer rows.Close()

	var doctors []*Doctor
	var total int
	for rows.Next() {
		d, err := scanDoctor(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan doctor failed: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate doctors failed: %w", err)
	}

	return doctors, total, nil
}

func (r *pgxRepository) Create(ctx context.Context, d *Doctor) error {
	query, args, err := psql.Insert("public.doctors").
		Columns("hp_id", "name", "email", "phone", "about", "gender", "qualifications", "specialty", "profile_picture").
		Values(d.HPID, d.Name, d.Email, d.Phone, d.About, d.Gender, d.Qualifications, d.Specialty, d.ProfilePicture).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create doctor query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create doctor failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, id, hpID string, f Fields) (*Doctor, error) {
	b := psql.Update("public.doctors").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})

	notFound := ErrNotFound
	if hpID != "" {
		b = b.Where(squirrel.Eq{"hp_id": hpID})
		notFound = ErrNotOwned
	}

	set := map[string]any{}
	if f.Name != nil {
		set["name"] = *f.Name
	}
	if f.Email != nil {
		set["email"] = *f.Email
	}
	if f.Phone != nil {
		set["phone"] = *f.Phone
	}
	if f.About != nil {
		set["about"] = *f.About
	}
	if f.Gender != nil {
		set["gender"] = *f.Gender
	}
	if f.Qualifications != nil {
		set["qualifications"] = *f.Qualifications
	}
	if f.Specialty != nil {
		set["specialty"] = *f.Specialty
	}
	if f.ProfilePicture != nil {
		set["profile_picture"] = *f.ProfilePicture
	}
	b = b.SetMap(set)

	query, args, err := b.Suffix("RETURNING " + strings.Join(doctorColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update doctor query failed: %w", err)
	}

	d, err := scanDoctor(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("update doctor failed: %w", err)
	}
	return d, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id, hpID string) error {
	query, args, err := psql.Delete("public.doctors").
		Where(squirrel.Eq{"id": id, "hp_id": hpID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete doctor query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("delete doctor failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotOwned
	}
	return nil
}

func (r *pgxRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM public.doctors WHERE phone = $1)`, phone,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check doctor phone failed: %w", err)
	}
	return exists, nil
}
