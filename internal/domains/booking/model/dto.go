package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type BookingItemRequest struct {
	ServiceID       uuid.UUID `json:"service_id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
}

func (r BookingItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceID, validation.Required.Error("service_id is required")),
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.Price, validation.Min(0.0).Error("price cannot be negative")),
	)
}

type CreateBookingRequest struct {
	CustomerID    uuid.UUID            `json:"customer_id"`
	StaffID       *uuid.UUID           `json:"staff_id,omitempty"`
	ScheduledAt   time.Time            `json:"scheduled_at"`
	Items         []BookingItemRequest `json:"items"`
	AdvanceAmount float64              `json:"advance_amount"`
	Notes         *string              `json:"notes,omitempty"`
}

func (r CreateBookingRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.CustomerID, validation.Required.Error("customer_id is required")),
		validation.Field(&r.ScheduledAt, validation.Required.Error("scheduled_at is required")),
		validation.Field(&r.Items,
			validation.Required.Error("at least one service is required"),
			validation.Length(1, 50).Error("a booking carries 1-50 services"),
		),
		validation.Field(&r.AdvanceAmount, validation.Min(0.0).Error("advance_amount cannot be negative")),
	); err != nil {
		return err
	}

	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateBookingRequest reschedules or reshapes a pending booking.
// Items, when present, replace the existing set wholesale; a new
// advance_amount moves the customer wallet by the difference.
type UpdateBookingRequest struct {
	StaffID       *uuid.UUID           `json:"staff_id,omitempty"`
	ScheduledAt   *time.Time           `json:"scheduled_at,omitempty"`
	Items         []BookingItemRequest `json:"items,omitempty"`
	AdvanceAmount *float64             `json:"advance_amount,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

func (r UpdateBookingRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Length(0, 50).Error("a booking carries at most 50 services")),
		validation.Field(&r.AdvanceAmount, validation.Min(0.0).Error("advance_amount cannot be negative")),
	); err != nil {
		return err
	}

	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(
				string(StatusConfirmed),
				string(StatusInProgress),
				string(StatusCompleted),
				string(StatusCancelled),
				string(StatusNoShow),
			).Error("status must be confirmed, in_progress, completed, cancelled or no_show"),
		),
	)
}

type ListBookingsFilter struct {
	Status string     `form:"status"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Page   int        `form:"page,default=1"`
	Limit  int        `form:"limit,default=20"`
}

func (f *ListBookingsFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}
