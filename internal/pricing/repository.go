package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	RuleSource

	Create(ctx context.Context, rule *Rule) error
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context, filter Filter) ([]*Rule, int, error)
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const ruleColumns = "id, name, description, type, start_time, end_time, applicable_days, specific_dates, modifier_type, modifier_value, applies_to, priority, is_active, created_at, updated_at"

func (r *pgxRepository) Create(ctx context.Context, rule *Rule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.pricing_rules").
		Columns("name", "description", "type", "start_time", "end_time", "applicable_days",
			"specific_dates", "modifier_type", "modifier_value", "applies_to", "priority", "is_active").
		Values(rule.Name, rule.Description, rule.Type, rule.StartTime, rule.EndTime, rule.ApplicableDays,
			rule.SpecificDates, rule.ModifierType, rule.ModifierValue, rule.AppliesTo, rule.Priority, rule.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create pricing rule query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ruleColumns).
		From("public.pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get pricing rule query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var rule Rule
	if err := row.Scan(
		&rule.ID, &rule.Name, &rule.Description, &rule.Type, &rule.StartTime, &rule.EndTime,
		&rule.ApplicableDays, &rule.SpecificDates, &rule.ModifierType, &rule.ModifierValue,
		&rule.AppliesTo, &rule.Priority, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pricing rule failed: %w", err)
	}
	return &rule, nil
}

// FindActive returns every active rule ordered for the engine's fold:
// priority descending, insertion order on ties.
func (r *pgxRepository) FindActive(ctx context.Context) ([]*Rule, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(ruleColumns).
		From("public.pricing_rules").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("priority DESC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find active rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find active rules failed: %w", err)
	}
	defer rows.Close()

	return scanRules(rows, nil)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(ruleColumns + ", count(*) OVER() as total_count").
		From("public.pricing_rules")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	query = query.OrderBy("priority DESC", "created_at ASC")

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
		return nil, 0, fmt.Errorf("build list pricing rules query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pricing rules failed: %w", err)
	}
	defer rows.Close()

	var total int
	rules, err := scanRules(rows, &total)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// scanRules scans rule rows; when total is non-nil the query is expected to
// carry a trailing total_count column.
func scanRules(rows pgx.Rows, total *int) ([]*Rule, error) {
	var rules []*Rule
	for rows.Next() {
		var rule Rule
		dest := []any{
			&rule.ID, &rule.Name, &rule.Description, &rule.Type, &rule.StartTime, &rule.EndTime,
			&rule.ApplicableDays, &rule.SpecificDates, &rule.ModifierType, &rule.ModifierValue,
			&rule.AppliesTo, &rule.Priority, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
		}
		if total != nil {
			dest = append(dest, total)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan pricing rule failed: %w", err)
		}
		rules = append(rules, &rule)
	}
	return rules, nil
}

func (r *pgxRepository) Update(ctx context.Context, rule *Rule) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pricing_rules").
		Set("name", rule.Name).
		Set("description", rule.Description).
		Set("type", rule.Type).
		Set("start_time", rule.StartTime).
		Set("end_time", rule.EndTime).
		Set("applicable_days", rule.ApplicableDays).
		Set("specific_dates", rule.SpecificDates).
		Set("modifier_type", rule.ModifierType).
		Set("modifier_value", rule.ModifierValue).
		Set("applies_to", rule.AppliesTo).
		Set("priority", rule.Priority).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rule.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pricing rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pricing rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete pricing rule query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete pricing rule failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
