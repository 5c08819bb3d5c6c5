package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, co *Coach) error
	GetByID(ctx context.Context, id string) (*Coach, error)
	List(ctx context.Context, filter Filter) ([]*Coach, int, error)
	Update(ctx context.Context, co *Coach) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const coachColumns = "id, name, email, phone, specialization, experience_years, hourly_rate, bio, image_id, is_active, availability, created_at, updated_at"

func (r *pgxRepository) Create(ctx context.Context, co *Coach) error {
	availabilityJSON, err := json.Marshal(co.Availability)
	if err != nil {
		return fmt.Errorf("marshal coach availability failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.coaches").
		Columns("name", "email", "phone", "specialization", "experience_years", "hourly_rate", "bio", "image_id", "is_active", "availability").
		Values(co.Name, co.Email, co.Phone, co.Specialization, co.ExperienceYrs, co.HourlyRate, co.Bio, co.ImageID, co.IsActive, availabilityJSON).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create coach query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&co.ID, &co.CreatedAt, &co.UpdatedAt)
}

func scanCoach(row pgx.Row) (*Coach, error) {
	var co Coach
	var availabilityJSON []byte

	if err := row.Scan(
		&co.ID, &co.Name, &co.Email, &co.Phone, &co.Specialization, &co.ExperienceYrs,
		&co.HourlyRate, &co.Bio, &co.ImageID, &co.IsActive, &availabilityJSON,
		&co.CreatedAt, &co.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(availabilityJSON) > 0 {
		if err := json.Unmarshal(availabilityJSON, &co.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal coach availability failed: %w", err)
		}
	}
	return &co, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Coach, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(coachColumns).
		From("public.coaches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get coach query failed: %w", err)
	}

	co, err := scanCoach(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get coach failed: %w", err)
	}
	return co, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Coach, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(coachColumns + ", count(*) OVER() as total_count").
		From("public.coaches")

	if filter.Specialization != "" {
		query = query.Where(squirrel.Eq{"specialization": filter.Specialization})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	query = query.OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list coaches query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list coaches failed: %w", err)
	}
	defer rows.Close()

	var coaches []*Coach
	var total int

	for rows.Next() {
		var co Coach
		var availabilityJSON []byte
		if err := rows.Scan(
			&co.ID, &co.Name, &co.Email, &co.Phone, &co.Specialization, &co.ExperienceYrs,
			&co.HourlyRate, &co.Bio, &co.ImageID, &co.IsActive, &availabilityJSON,
			&co.CreatedAt, &co.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan coach failed: %w", err)
		}
		if len(availabilityJSON) > 0 {
			if err := json.Unmarshal(availabilityJSON, &co.Availability); err != nil {
				return nil, 0, fmt.Errorf("unmarshal coach availability failed: %w", err)
			}
		}
		coaches = append(coaches, &co)
	}

	return coaches, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, co *Coach) error {
	availabilityJSON, err := json.Marshal(co.Availability)
	if err != nil {
		return fmt.Errorf("marshal coach availability failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.coaches").
		Set("name", co.Name).
		Set("email", co.Email).
		Set("phone", co.Phone).
		Set("specialization", co.Specialization).
		Set("experience_years", co.ExperienceYrs).
		Set("hourly_rate", co.HourlyRate).
		Set("bio", co.Bio).
		Set("image_id", co.ImageID).
		Set("is_active", co.IsActive).
		Set("availability", availabilityJSON).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": co.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update coach query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update coach failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.coaches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete coach query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete coach failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
