package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"salonsuite-backend/internal/domains/booking/model"
)

// BookingRepository persists bookings and their service lines.
type BookingRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CreateWithTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error
	CreateItemsWithTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, items []model.BookingItem) error
	DeleteItemsWithTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID) error
	UpdateWithTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error
	FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID) (*model.Booking, error)

	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, storeID uuid.UUID, filter *model.ListBookingsFilter) ([]model.Booking, int, error)
	UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status model.BookingStatus) error
}
