package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStatusConflict is returned by UpdateStatus when the stored status no
// longer matches the expected one, i.e. a concurrent caller won the write.
var ErrStatusConflict = errors.New("booking status changed concurrently")

// Query narrows a booking listing. Results are always ordered by start
// descending; Page is a zero-based page index over windows of Size rows.
// At most one of ActiveAt/EndBefore/StartAfter/Status is set per query.
type Query struct {
	BookerID   string
	ItemIDs    []string
	Status     Status
	ActiveAt   *time.Time // start <= t AND end >= t
	EndBefore  *time.Time
	StartAfter *time.Time
	Page       int
	Size       int
}

// Repository is the booking store contract. All list operations are read-only.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)

	// UpdateStatus performs a compare-and-set status write: the row is updated
	// only if its current status equals from. Returns ErrStatusConflict when
	// the row exists but the status has moved on, ErrNotFound when it doesn't.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Booking, error)

	List(ctx context.Context, q Query) ([]*Booking, error)

	// ListAllByItemIDs returns every booking of the given items ordered by
	// start descending, without pagination. Used for the last/next projection.
	ListAllByItemIDs(ctx context.Context, itemIDs []string) ([]*Booking, error)

	// FindLastFinished returns an APPROVED booking of the item by the booker
	// that ended before the given time, or ErrNotFound.
	FindLastFinished(ctx context.Context, bookerID, itemID string, before time.Time) (*Booking, error)
}

const bookingColumns = "id, item_id, booker_id, start_date, end_date, status, created_at, updated_at"

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_date", "end_date", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "item_id", "booker_id", "start_date", "end_date", "status", "created_at", "updated_at",
	).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + bookingColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update booking status query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update booking status failed: %w", err)
		}
		// Zero rows: either the booking is gone or the guard status mismatched.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, q Query) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "item_id", "booker_id", "start_date", "end_date", "status", "created_at", "updated_at",
	).
		From("public.bookings")

	if q.BookerID != "" {
		query = query.Where(squirrel.Eq{"booker_id": q.BookerID})
	}
	if len(q.ItemIDs) > 0 {
		query = query.Where(squirrel.Eq{"item_id": q.ItemIDs})
	}
	if q.Status != "" {
		query = query.Where(squirrel.Eq{"status": q.Status})
	}
	if q.ActiveAt != nil {
		query = query.Where(squirrel.LtOrEq{"start_date": q.ActiveAt}).
			Where(squirrel.GtOrEq{"end_date": q.ActiveAt})
	}
	if q.EndBefore != nil {
		query = query.Where(squirrel.Lt{"end_date": q.EndBefore})
	}
	if q.StartAfter != nil {
		query = query.Where(squirrel.Gt{"start_date": q.StartAfter})
	}

	query = query.OrderBy("start_date DESC")

	if q.Size > 0 {
		query = query.Limit(uint64(q.Size)).Offset(uint64(q.Page * q.Size))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *pgxRepository) ListAllByItemIDs(ctx context.Context, itemIDs []string) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"id", "item_id", "booker_id", "start_date", "end_date", "status", "created_at", "updated_at",
	).
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemIDs}).
		OrderBy("start_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list item bookings failed: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *pgxRepository) FindLastFinished(ctx context.Context, bookerID, itemID string, before time.Time) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"id", "item_id", "booker_id", "start_date", "end_date", "status", "created_at", "updated_at",
	).
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_date": before}).
		OrderBy("end_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find finished booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, sql, args...)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find finished booking failed: %w", err)
	}
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]*Booking, error) {
	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, nil
}
