package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/bay-booking/internal/domain/booking"
	"github.com/example/bay-booking/internal/internaltypes"
)

// SQLSTATE raised when the bookings_no_overlap exclusion constraint
// rejects an insert.
const exclusionViolation = "23P01"

type BookingRepo struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo { return &BookingRepo{pool: pool} }

func (r *BookingRepo) OverlappingBays(ctx context.Context, date time.Time, start, end booking.ClockTime) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT bay_id FROM bookings
		WHERE date = $1::date AND status = $2 AND start_time < $4 AND end_time > $3
	`, date, string(booking.StatusBooked), clockParam(start), clockParam(end))
	if err != nil {
		return nil, fmt.Errorf("query overlapping bays: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookingRepo) AvailableBays(ctx context.Context, exclude []int) ([]int, error) {
	excluded := make([]int32, 0, len(exclude))
	for _, id := range exclude {
		excluded = append(excluded, int32(id))
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM bays WHERE status = $1 AND id <> ALL($2) ORDER BY id
	`, string(booking.BayAvailable), excluded)
	if err != nil {
		return nil, fmt.Errorf("query available bays: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookingRepo) InsertReservation(ctx context.Context, b booking.Reservation) (booking.Reservation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (email, bay_id, date, start_time, end_time, duration, status)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING id, created_at
	`, b.Email, b.BayID, b.Date, clockParam(b.Start), clockParam(b.End), b.DurationHours, string(b.Status))
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return booking.Reservation{}, internaltypes.ErrConflict
		}
		return booking.Reservation{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepo) CancelReservation(ctx context.Context, id int64, email string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $3 WHERE id = $1 AND email = $2 AND status = $4
	`, id, email, string(booking.StatusCancelled), string(booking.StatusBooked))
	if err != nil {
		return 0, fmt.Errorf("cancel booking %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// CreateBay provisions a bay. Used by the admin CLI only; the booking
// flows never write to bays.
func (r *BookingRepo) CreateBay(ctx context.Context, b booking.Bay) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bays (id, status) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
	`, b.ID, string(b.Status))
	return err
}

func (r *BookingRepo) ListBays(ctx context.Context) ([]booking.Bay, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, status FROM bays ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bays: %w", err)
	}
	defer rows.Close()

	var bays []booking.Bay
	for rows.Next() {
		var b booking.Bay
		var status string
		if err := rows.Scan(&b.ID, &status); err != nil {
			return nil, err
		}
		b.Status = booking.BayStatus(status)
		bays = append(bays, b)
	}
	return bays, rows.Err()
}

func clockParam(c booking.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * 1_000_000, Valid: true}
}
