package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/booking/model"
	"salonsuite-backend/internal/domains/booking/repository"
	"salonsuite-backend/internal/infrastructure/queue"
	"salonsuite-backend/internal/shared"
	"salonsuite-backend/pkg/logger"
)

// Reminders fire this long before the scheduled slot.
const reminderLead = time.Hour

// ServiceInterface is the booking domain's business contract.
type ServiceInterface interface {
	CreateBooking(ctx context.Context, storeID, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error)
	UpdateBooking(ctx context.Context, storeID, bookingID uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error)
	UpdateStatus(ctx context.Context, storeID, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error)
	GetBooking(ctx context.Context, storeID, bookingID uuid.UUID) (*model.Booking, error)
	ListBookings(ctx context.Context, storeID uuid.UUID, filter *model.ListBookingsFilter) ([]model.Booking, int, error)
}

// AdvanceCreditor moves booking advances through the customer wallet
// inside the booking's transaction. Adjust takes a signed delta so a
// rescheduled booking can lower its advance as well as raise it.
type AdvanceCreditor interface {
	AddAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, amount decimal.Decimal, note *string) error
	AdjustAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, delta decimal.Decimal, note *string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	customers AdvanceCreditor
	enqueuer  queue.Enqueuer
}

func NewBookingService(repo repository.BookingRepository, customers AdvanceCreditor, enqueuer queue.Enqueuer) ServiceInterface {
	return &bookingService{
		repo:      repo,
		customers: customers,
		enqueuer:  enqueuer,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, storeID, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, model.ErrPastSchedule
	}

	booking := &model.Booking{
		StoreID:       storeID,
		CustomerID:    req.CustomerID,
		StaffID:       req.StaffID,
		ScheduledAt:   req.ScheduledAt,
		Status:        model.StatusRequested,
		AdvanceAmount: decimal.NewFromFloat(req.AdvanceAmount),
		Notes:         req.Notes,
		CreatedBy:     userID,
	}

	items := make([]model.BookingItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, model.BookingItem{
			ServiceID:       line.ServiceID,
			Name:            line.Name,
			Price:           decimal.NewFromFloat(line.Price),
			DurationMinutes: line.DurationMinutes,
		})
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.CreateWithTx(ctx, tx, booking); err != nil {
		return nil, err
	}
	if err := s.repo.CreateItemsWithTx(ctx, tx, booking.ID, items); err != nil {
		return nil, err
	}

	if booking.AdvanceAmount.GreaterThan(decimal.Zero) {
		note := "booking advance"
		if err := s.customers.AddAdvanceWithTx(ctx, tx, storeID, req.CustomerID, booking.AdvanceAmount, &note); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	booking.Items = items
	return booking, nil
}

// UpdateBooking reschedules or reshapes a booking still in requested or
// confirmed. Items, when present, replace the existing set; a changed
// advance moves the customer wallet by the difference from the amount
// recorded so far.
func (s *bookingService) UpdateBooking(ctx context.Context, storeID, bookingID uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.FindByIDForUpdateWithTx(ctx, tx, storeID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusRequested && booking.Status != model.StatusConfirmed {
		return nil, model.ErrBookingFinal(booking.Status)
	}

	if req.StaffID != nil {
		booking.StaffID = req.StaffID
	}
	if req.ScheduledAt != nil {
		if req.ScheduledAt.Before(time.Now()) {
			return nil, model.ErrPastSchedule
		}
		booking.ScheduledAt = *req.ScheduledAt
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	advanceDelta := decimal.Zero
	if req.AdvanceAmount != nil {
		newAdvance := decimal.NewFromFloat(*req.AdvanceAmount)
		advanceDelta = newAdvance.Sub(booking.AdvanceAmount)
		booking.AdvanceAmount = newAdvance
	}

	if err := s.repo.UpdateWithTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	if !advanceDelta.IsZero() {
		note := "booking advance update"
		if err := s.customers.AdjustAdvanceWithTx(ctx, tx, storeID, booking.CustomerID, advanceDelta, &note); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		if err := s.repo.DeleteItemsWithTx(ctx, tx, bookingID); err != nil {
			return nil, err
		}
		items := make([]model.BookingItem, 0, len(req.Items))
		for _, line := range req.Items {
			items = append(items, model.BookingItem{
				ServiceID:       line.ServiceID,
				Name:            line.Name,
				Price:           decimal.NewFromFloat(line.Price),
				DurationMinutes: line.DurationMinutes,
			})
		}
		if err := s.repo.CreateItemsWithTx(ctx, tx, bookingID, items); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, storeID, bookingID)
}

// UpdateStatus moves the booking through the status machine under a
// row lock. Confirming schedules the reminder task.
func (s *bookingService) UpdateStatus(ctx context.Context, storeID, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.repo.FindByIDForUpdateWithTx(ctx, tx, storeID, bookingID)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(booking.Status, status) {
		return nil, model.ErrInvalidTransition(booking.Status, status)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $3, updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`, storeID, bookingID, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if status == model.StatusConfirmed {
		s.enqueueReminder(ctx, storeID, booking)
	}

	return s.repo.FindByID(ctx, storeID, bookingID)
}

// enqueueReminder is best effort: a failed enqueue never fails the
// confirmation.
func (s *bookingService) enqueueReminder(ctx context.Context, storeID uuid.UUID, booking *model.Booking) {
	remindAt := booking.ScheduledAt.Add(-reminderLead)
	if remindAt.Before(time.Now()) {
		return
	}

	payload, err := json.Marshal(shared.BookingReminderPayload{
		StoreID:   storeID,
		BookingID: booking.ID,
	})
	if err != nil {
		logger.Error("marshal reminder payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeBookingReminder, payload)
	if _, err := s.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.ProcessAt(remindAt),
		asynq.MaxRetry(3),
	); err != nil {
		logger.ErrorWithFields("enqueue booking reminder", err, map[string]interface{}{
			"bookingId": booking.ID.String(),
		})
	}
}

func (s *bookingService) GetBooking(ctx context.Context, storeID, bookingID uuid.UUID) (*model.Booking, error) {
	return s.repo.FindByID(ctx, storeID, bookingID)
}

func (s *bookingService) ListBookings(ctx context.Context, storeID uuid.UUID, filter *model.ListBookingsFilter) ([]model.Booking, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, storeID, filter)
}
