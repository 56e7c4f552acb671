package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salonsuite-backend/internal/domains/booking/model"
)

// PostgresRepository implements BookingRepository on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) BookingRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

const bookingColumns = `
	id, store_id, customer_id, staff_id, scheduled_at, status,
	advance_amount, notes, created_by, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.StoreID,
		&b.CustomerID,
		&b.StaffID,
		&b.ScheduledAt,
		&b.Status,
		&b.AdvanceAmount,
		&b.Notes,
		&b.CreatedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// -------------------------------------------------------------------
// TRANSACTIONAL WRITES
// -------------------------------------------------------------------

func (r *PostgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			store_id, customer_id, staff_id, scheduled_at, status,
			advance_amount, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		booking.StoreID,
		booking.CustomerID,
		booking.StaffID,
		booking.ScheduledAt,
		booking.Status,
		booking.AdvanceAmount,
		booking.Notes,
		booking.CreatedBy,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateItemsWithTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, items []model.BookingItem) error {
	batch := &pgx.Batch{}

	for i := range items {
		item := &items[i]
		item.BookingID = bookingID
		batch.Queue(`
			INSERT INTO booking_items (booking_id, service_id, name, price, duration_minutes)
			VALUES ($1, $2, $3, $4, $5)
		`, bookingID, item.ServiceID, item.Name, item.Price, item.DurationMinutes)
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert booking items: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteItemsWithTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID) error {
	if _, err := tx.Exec(ctx, "DELETE FROM booking_items WHERE booking_id = $1", bookingID); err != nil {
		return fmt.Errorf("delete booking items: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	result, err := tx.Exec(ctx, `
		UPDATE bookings
		SET staff_id = $3, scheduled_at = $4, advance_amount = $5, notes = $6, updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`,
		booking.StoreID,
		booking.ID,
		booking.StaffID,
		booking.ScheduledAt,
		booking.AdvanceAmount,
		booking.Notes,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID) (*model.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE store_id = $1 AND id = $2 FOR UPDATE`, bookingColumns)

	b, err := scanBooking(tx.QueryRow(ctx, query, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking for update: %w", err)
	}
	return b, nil
}

// -------------------------------------------------------------------
// READS
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE store_id = $1 AND id = $2`, bookingColumns)

	b, err := scanBooking(r.db.QueryRow(ctx, query, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking by id: %w", err)
	}

	if err := r.loadItems(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, b *model.Booking) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, booking_id, service_id, name, price, duration_minutes
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("load booking items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.BookingItem
		if err := rows.Scan(&item.ID, &item.BookingID, &item.ServiceID, &item.Name, &item.Price, &item.DurationMinutes); err != nil {
			return err
		}
		b.Items = append(b.Items, item)
	}
	return rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, storeID uuid.UUID, filter *model.ListBookingsFilter) ([]model.Booking, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	whereClauses := []string{"store_id = $1"}
	args := []interface{}{storeID}
	argIndex := 2

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("scheduled_at >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		// End date is inclusive.
		whereClauses = append(whereClauses, fmt.Sprintf("scheduled_at < $%d", argIndex))
		args = append(args, filter.To.Add(24*time.Hour))
		argIndex++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		%s
		ORDER BY scheduled_at
		LIMIT $%d OFFSET $%d
	`, bookingColumns, whereSQL, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status model.BookingStatus) error {
	result, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`, storeID, id, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}
