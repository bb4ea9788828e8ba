package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `id, item_id, booker_id, start_ts, end_ts, status`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_ts, end_ts, status)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.ItemID, &booking.BookerID,
		&booking.Start, &booking.End, &booking.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("booking %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.Status) error {
	query := `UPDATE bookings SET status = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

func (db *DB) HasBookingsByBooker(ctx context.Context, bookerID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE booker_id = ?`
	if err := db.QueryRowContext(ctx, query, bookerID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count bookings by booker: %w", err)
	}
	return count > 0, nil
}

// BookingEndForUserAndItem returns the earliest end of the user's bookings
// on the item; the first ended booking unlocks commenting.
func (db *DB) BookingEndForUserAndItem(ctx context.Context, userID, itemID int64) (time.Time, error) {
	var end time.Time
	query := `SELECT end_ts FROM bookings WHERE booker_id = ? AND item_id = ?
              ORDER BY datetime(end_ts) ASC LIMIT 1`
	err := db.QueryRowContext(ctx, query, userID, itemID).Scan(&end)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, models.NotFound("user %d has no bookings on item %d", userID, itemID)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get booking end: %w", err)
	}
	return end, nil
}

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booker_id = ?
              ORDER BY datetime(start_ts) DESC`
	return db.queryBookings(ctx, query, bookerID)
}

func (db *DB) ListPastByBooker(ctx context.Context, bookerID int64, now time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? AND datetime(end_ts) < datetime(?)
              ORDER BY datetime(start_ts) DESC`
	return db.queryBookings(ctx, query, bookerID, now.UTC())
}

func (db *DB) ListCurrentByBooker(ctx context.Context, bookerID int64, now time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? AND datetime(start_ts) <= datetime(?) AND datetime(end_ts) >= datetime(?)
              ORDER BY datetime(start_ts) DESC`
	return db.queryBookings(ctx, query, bookerID, now.UTC(), now.UTC())
}

func (db *DB) ListFutureByBooker(ctx context.Context, bookerID int64, now time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? AND datetime(start_ts) > datetime(?)
              ORDER BY datetime(start_ts) DESC`
	return db.queryBookings(ctx, query, bookerID, now.UTC())
}

func (db *DB) ListByStatusAndBooker(ctx context.Context, status models.Status, bookerID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE status = ? AND booker_id = ?
              ORDER BY datetime(start_ts) DESC`
	return db.queryBookings(ctx, query, status, bookerID)
}

func (db *DB) ListBookingsByItems(ctx context.Context, itemIDs []int64) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE item_id IN (%s)
              ORDER BY datetime(start_ts) DESC`, bookingColumns, placeholders(len(itemIDs)))
	return db.queryBookings(ctx, query, int64Args(itemIDs)...)
}

func (db *DB) ListPastByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings
              WHERE item_id IN (%s) AND datetime(end_ts) < datetime(?)
              ORDER BY datetime(start_ts) DESC`, bookingColumns, placeholders(len(itemIDs)))
	args := append(int64Args(itemIDs), now.UTC())
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) ListCurrentByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings
              WHERE item_id IN (%s) AND datetime(start_ts) <= datetime(?) AND datetime(end_ts) >= datetime(?)
              ORDER BY datetime(start_ts) DESC`, bookingColumns, placeholders(len(itemIDs)))
	args := append(int64Args(itemIDs), now.UTC(), now.UTC())
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) ListFutureByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings
              WHERE item_id IN (%s) AND datetime(start_ts) > datetime(?)
              ORDER BY datetime(start_ts) DESC`, bookingColumns, placeholders(len(itemIDs)))
	args := append(int64Args(itemIDs), now.UTC())
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) ListByStatusAndItems(ctx context.Context, status models.Status, itemIDs []int64) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings
              WHERE status = ? AND item_id IN (%s)
              ORDER BY datetime(start_ts) DESC`, bookingColumns, placeholders(len(itemIDs)))
	args := append([]any{status}, int64Args(itemIDs)...)
	return db.queryBookings(ctx, query, args...)
}

// LastBookingsByItems returns ended bookings for the item set ordered by end
// descending, so the first row per item is its chronologically last booking.
func (db *DB) LastBookingsByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings
              WHERE item_id IN (%s) AND datetime(end_ts) < datetime(?)
              ORDER BY datetime(end_ts) DESC`, bookingColumns, placeholders(len(itemIDs)))
	args := append(int64Args(itemIDs), now.UTC())
	return db.queryBookings(ctx, query, args...)
}

// NextBookingsByItems returns upcoming bookings ordered by start ascending,
// so the first row per item is its nearest upcoming booking.
func (db *DB) NextBookingsByItems(ctx context.Context, itemIDs []int64, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings
              WHERE item_id IN (%s) AND datetime(start_ts) > datetime(?)
              ORDER BY datetime(start_ts) ASC`, bookingColumns, placeholders(len(itemIDs)))
	args := append(int64Args(itemIDs), now.UTC())
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
