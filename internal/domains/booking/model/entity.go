package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusRequested  BookingStatus = "requested"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// allowedTransitions is the booking status machine. Completed,
// cancelled and no_show are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Booking is a scheduled visit. Advance payments land on the customer
// wallet and later offset the bill.
type Booking struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	StoreID     uuid.UUID     `json:"store_id" db:"store_id"`
	CustomerID  uuid.UUID     `json:"customer_id" db:"customer_id"`
	StaffID     *uuid.UUID    `json:"staff_id,omitempty" db:"staff_id"`
	ScheduledAt time.Time     `json:"scheduled_at" db:"scheduled_at"`
	Status      BookingStatus `json:"status" db:"status"`

	AdvanceAmount decimal.Decimal `json:"advance_amount" db:"advance_amount"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`

	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Items []BookingItem `json:"items,omitempty"`
}

// BookingItem is one requested service on a booking.
type BookingItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	BookingID       uuid.UUID       `json:"booking_id" db:"booking_id"`
	ServiceID       uuid.UUID       `json:"service_id" db:"service_id"`
	Name            string          `json:"name" db:"name"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DurationMinutes *int            `json:"duration_minutes,omitempty" db:"duration_minutes"`
}
