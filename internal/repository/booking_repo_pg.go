package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/shareit/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error)
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error)
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// bookingColumns joins the item and the booker so listings and single reads
// come back with the denormalized info the service returns to callers.
const bookingColumns = `b.id, b.start_date, b.end_date, b.item_id, b.booker_id, b.status,
	i.id, i.name, i.description, i.available, i.owner_id, i.request_id,
	u.id, u.name, u.email`

const bookingJoin = `FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var item domain.Item
	var booker domain.User
	if err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status,
		&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &item.RequestID,
		&booker.ID, &booker.Name, &booker.Email,
	); err != nil {
		return nil, err
	}
	b.Item = &item
	b.Booker = &booker
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		booking.Start, booking.End, booking.ItemID, booking.BookerID, booking.Status).
		Scan(&booking.ID)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` `+bookingJoin+` WHERE b.id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

// UpdateStatus is the only mutation after creation: a single conditional
// update keyed by id, atomic under postgres without any extra locking.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`, status, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepository) ListByBooker(ctx context.Context, bookerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` `+bookingJoin+`
		WHERE b.booker_id=$1 ORDER BY b.start_date DESC`, bookerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` `+bookingJoin+`
		WHERE i.owner_id=$1 ORDER BY b.start_date DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// LastForItem returns the most recent booking of the item that already ended,
// or nil if there is none. Status is intentionally not a filter.
func (r *PGBookingRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, start_date, end_date, item_id, booker_id, status
		FROM bookings WHERE item_id=$1 AND end_date < $2
		ORDER BY start_date DESC LIMIT 1`, itemID, now)
	return scanBookingRow(row)
}

// NextForItem returns the nearest upcoming booking of the item, or nil.
func (r *PGBookingRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, start_date, end_date, item_id, booker_id, status
		FROM bookings WHERE item_id=$1 AND start_date > $2
		ORDER BY start_date ASC LIMIT 1`, itemID, now)
	return scanBookingRow(row)
}

func scanBookingRow(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE item_id=$1 AND booker_id=$2 AND status=$3 AND end_date < $4)`,
		itemID, bookerID, domain.BookingStatusApproved, now).Scan(&exists)
	return exists, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
