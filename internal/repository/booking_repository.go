package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studio622/booking-api/internal/models"
)

// BookingRepository persists booking rows. The core engine never manages
// the schema; it only consumes rows from the bookings table.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = "id, band_name, studio, start_time, end_time, leader, created_at"

// Insert stores a new booking and fills in the generated id and creation
// timestamp.
func (r *BookingRepository) Insert(ctx context.Context, b *models.Booking) error {
	const query = `INSERT INTO bookings (band_name, studio, start_time, end_time, leader)
VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, b.Title, b.Resource, b.StartTime, b.EndTime, b.Owner).
		Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Delete removes a booking by id. It returns sql.ErrNoRows when no row
// was deleted.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID fetches a single booking.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1", bookingColumns)
	var b models.Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// ListUpcoming returns the bookings for a studio whose end is at or after
// the given instant, ordered by start time.
func (r *BookingRepository) ListUpcoming(ctx context.Context, studio string, from time.Time) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings
WHERE studio = $1 AND end_time >= $2 ORDER BY start_time ASC, id ASC`, bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, studio, from); err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	return bookings, nil
}

// ListOverlapping returns the bookings whose interval overlaps
// [start, end) under the open-interval test. Announcement rows satisfy
// the range too; the conflict detector classifies and skips them.
func (r *BookingRepository) ListOverlapping(ctx context.Context, studio string, start, end time.Time) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings
WHERE studio = $1 AND start_time < $3 AND end_time > $2 ORDER BY start_time ASC, id ASC`, bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, studio, start, end); err != nil {
		return nil, fmt.Errorf("list overlapping bookings: %w", err)
	}
	return bookings, nil
}

// ListStartingBetween returns the bookings starting within [from, to),
// used by the day and month views.
func (r *BookingRepository) ListStartingBetween(ctx context.Context, studio string, from, to time.Time) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings
WHERE studio = $1 AND start_time >= $2 AND start_time < $3 ORDER BY start_time ASC, id ASC`, bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, studio, from, to); err != nil {
		return nil, fmt.Errorf("list bookings between: %w", err)
	}
	return bookings, nil
}
