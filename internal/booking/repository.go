package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every
// repository method works unchanged inside the booking transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	ReservationReader

	Create(ctx context.Context, res *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// CountWaitlistSlot counts waitlist entries for one exact
	// court/date/start/end slot, for 1-based position assignment.
	CountWaitlistSlot(ctx context.Context, courtID string, date time.Time, start, end string) (int, error)

	// NextWaitlistEntry returns the lowest-position waitlist entry for the
	// court and day, or nil when the waitlist is empty.
	NextWaitlistEntry(ctx context.Context, courtID string, date time.Time) (*Reservation, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error

	// InTransaction runs fn with a repository bound to a single database
	// transaction. Returning an error rolls everything back.
	InTransaction(ctx context.Context, fn func(Repository) error) error
}

type pgxRepository struct {
	db   querier
	pool *pgxpool.Pool // nil when already bound to a transaction
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{db: pool, pool: pool}
}

func (r *pgxRepository) InTransaction(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		// Already inside a transaction; just run in the same one.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgxRepository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking transaction failed: %w", err)
	}
	return nil
}

const reservationColumns = "id, user_id, court_id, coach_id, equipment, date, start_time, end_time, status, breakdown, waitlist_position, notified_at, notes, created_at, updated_at"

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	equipmentJSON, err := json.Marshal(res.Equipment)
	if err != nil {
		return fmt.Errorf("marshal reservation equipment failed: %w", err)
	}
	breakdownJSON, err := json.Marshal(res.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal price breakdown failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("user_id", "court_id", "coach_id", "equipment", "date", "start_time", "end_time", "status", "breakdown", "waitlist_position", "notes").
		Values(res.UserID, res.CourtID, res.CoachID, equipmentJSON, res.Date, res.StartTime, res.EndTime, res.Status, breakdownJSON, res.WaitlistPosition, res.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return mapCreateError(err)
	}
	return nil
}

// mapCreateError turns foreign-key violations into the matching domain
// not-found error, so a row deleted between validation and insert still
// surfaces cleanly.
func mapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "court"):
			return ErrCourtNotFound
		case strings.Contains(pgErr.ConstraintName, "coach"):
			return ErrCoachNotFound
		}
	}
	return fmt.Errorf("create reservation failed: %w", err)
}

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	var equipmentJSON, breakdownJSON []byte

	if err := row.Scan(
		&res.ID, &res.UserID, &res.CourtID, &res.CoachID, &equipmentJSON,
		&res.Date, &res.StartTime, &res.EndTime, &res.Status, &breakdownJSON,
		&res.WaitlistPosition, &res.NotifiedAt, &res.Notes,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(equipmentJSON) > 0 {
		if err := json.Unmarshal(equipmentJSON, &res.Equipment); err != nil {
			return nil, fmt.Errorf("unmarshal reservation equipment failed: %w", err)
		}
	}
	if len(breakdownJSON) > 0 && string(breakdownJSON) != "null" {
		if err := json.Unmarshal(breakdownJSON, &res.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal price breakdown failed: %w", err)
		}
	}
	return &res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns).
		From("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(reservationColumns + ", count(*) OVER() as total_count").
		From("public.reservations")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.CourtID != "" {
		query = query.Where(squirrel.Eq{"court_id": filter.CourtID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	query = query.OrderBy("date DESC", "start_time DESC")

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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		var equipmentJSON, breakdownJSON []byte
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.CourtID, &res.CoachID, &equipmentJSON,
			&res.Date, &res.StartTime, &res.EndTime, &res.Status, &breakdownJSON,
			&res.WaitlistPosition, &res.NotifiedAt, &res.Notes,
			&res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		if len(equipmentJSON) > 0 {
			if err := json.Unmarshal(equipmentJSON, &res.Equipment); err != nil {
				return nil, 0, fmt.Errorf("unmarshal reservation equipment failed: %w", err)
			}
		}
		if len(breakdownJSON) > 0 && string(breakdownJSON) != "null" {
			if err := json.Unmarshal(breakdownJSON, &res.Breakdown); err != nil {
				return nil, 0, fmt.Errorf("unmarshal price breakdown failed: %w", err)
			}
		}
		reservations = append(reservations, &res)
	}

	return reservations, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation status query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// listDay fetches one day's blocking reservations matching extra conditions,
// ordered by start time so overlap scans report a deterministic first hit.
func (r *pgxRepository) listDay(ctx context.Context, dayStart, dayEnd time.Time, excludeID string, conds ...squirrel.Sqlizer) ([]*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(reservationColumns).
		From("public.reservations").
		Where(squirrel.GtOrEq{"date": dayStart}).
		Where(squirrel.Lt{"date": dayEnd}).
		Where(squirrel.Eq{"status": blockingStatuses})

	for _, cond := range conds {
		query = query.Where(cond)
	}
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}
	query = query.OrderBy("start_time ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build day reservations query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query day reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}

func (r *pgxRepository) ListByCourtDay(ctx context.Context, courtID string, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error) {
	return r.listDay(ctx, dayStart, dayEnd, excludeID, squirrel.Eq{"court_id": courtID})
}

func (r *pgxRepository) ListByCoachDay(ctx context.Context, coachID string, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error) {
	return r.listDay(ctx, dayStart, dayEnd, excludeID, squirrel.Eq{"coach_id": coachID})
}

func (r *pgxRepository) ListEquipmentDay(ctx context.Context, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error) {
	return r.listDay(ctx, dayStart, dayEnd, excludeID, squirrel.Expr("jsonb_array_length(equipment) > 0"))
}

func (r *pgxRepository) CountWaitlistSlot(ctx context.Context, courtID string, date time.Time, start, end string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.reservations").
		Where(squirrel.Eq{
			"court_id":   courtID,
			"date":       date,
			"start_time": start,
			"end_time":   end,
			"status":     StatusWaitlist,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count waitlist query failed: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count waitlist entries failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) NextWaitlistEntry(ctx context.Context, courtID string, date time.Time) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(reservationColumns).
		From("public.reservations").
		Where(squirrel.Eq{
			"court_id": courtID,
			"date":     date,
			"status":   StatusWaitlist,
		}).
		OrderBy("waitlist_position ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build next waitlist query failed: %w", err)
	}

	res, err := scanReservation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get next waitlist entry failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) MarkNotified(ctx context.Context, id string, at time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("notified_at", at).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark notified query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark waitlist entry notified failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
