package provider

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
	GetByID(ctx context.Context, id string) (*Provider, error)
	GetByEmail(ctx context.Context, email string) (*Provider, error)
	Create(ctx context.Context, p *Provider) error
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*Provider, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var providerColumns = []string{
	"id", "name", "email", "type", "address", "contact_number", "password_hash", "created_at", "updated_at",
}

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	if err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Type, &p.Address, &p.ContactNumber,
		&p.PasswordHash, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan healthcare provider failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) get(ctx context.Context, where squirrel.Eq) (*Provider, error) {
	query, args, err := psql.Select(providerColumns...).
		From("public.healthcare_providers").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get healthcare provider query failed: %w", err)
	}
	return scanProvider(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Provider, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Provider, error) {
	return r.get(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) Create(ctx context.Context, p *Provider) error {
	query, args, err := psql.Insert("public.healthcare_providers").
		Columns("name", "email", "type", "address", "contact_number", "password_hash").
		Values(p.Name, p.Email, p.Type, p.Address, p.ContactNumber, p.PasswordHash).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create healthcare provider query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create healthcare provider failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*Provider, error) {
	b := psql.Update("public.healthcare_providers").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})

	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Type != nil {
		b = b.Set("type", *upd.Type)
	}
	if upd.Address != nil {
		b = b.Set("address", *upd.Address)
	}
	if upd.ContactNumber != nil {
		b = b.Set("contact_number", *upd.ContactNumber)
	}

	query, args, err := b.Suffix("RETURNING " + strings.Join(providerColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update healthcare provider query failed: %w", err)
	}
	return scanProvider(r.pool.QueryRow(ctx, query, args...))
}
