package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	bookingmodel "salonsuite-backend/internal/domains/booking/model"
	"salonsuite-backend/internal/shared"
	"salonsuite-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	c   *container.Container
	cfg *Config
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	return &HandlerRegistry{c: c, cfg: cfg}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Billing tasks
	mux.HandleFunc(shared.TypeIssueReceipt, h.handleIssueReceipt)
	mux.HandleFunc(shared.TypePurgeStaleHeldBill, h.handlePurgeStaleHeldBills)

	// Coupon tasks
	mux.HandleFunc(shared.TypeExpireCoupons, h.handleExpireCoupons)

	// Booking tasks
	mux.HandleFunc(shared.TypeBookingReminder, h.handleBookingReminder)
}

// handleIssueReceipt stamps the receipt timestamp on a committed bill.
// The update is conditional on the timestamp being unset, so redelivery
// is safe.
func (h *HandlerRegistry) handleIssueReceipt(ctx context.Context, t *asynq.Task) error {
	var p shared.IssueReceiptPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("issue receipt payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.c.BillingService.MarkReceiptIssued(ctx, p.BillID); err != nil {
		return fmt.Errorf("mark receipt issued: %w", err)
	}

	log.Printf("[Receipt] ✓ Issued for bill %s", p.BillID)
	return nil
}

func (h *HandlerRegistry) handleExpireCoupons(ctx context.Context, t *asynq.Task) error {
	expired, err := h.c.CouponService.ExpireStaleCoupons(ctx)
	if err != nil {
		return fmt.Errorf("expire stale coupons: %w", err)
	}

	if expired > 0 {
		log.Printf("[Coupons] ✓ Expired %d stale coupons", expired)
	}
	return nil
}

func (h *HandlerRegistry) handlePurgeStaleHeldBills(ctx context.Context, t *asynq.Task) error {
	var p shared.PurgeStaleHeldBillsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("purge held payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.RetentionDays == 0 {
		p.RetentionDays = h.cfg.HeldRetentionDays
	}

	purged, err := h.c.BillingService.PurgeStaleHeldBills(ctx, p.RetentionDays)
	if err != nil {
		return fmt.Errorf("purge stale held bills: %w", err)
	}

	if purged > 0 {
		log.Printf("[HeldBills] ✓ Purged %d stale drafts", purged)
	}
	return nil
}

// handleBookingReminder logs the upcoming visit. Actual delivery (SMS,
// push) sits behind a gateway outside this service.
func (h *HandlerRegistry) handleBookingReminder(ctx context.Context, t *asynq.Task) error {
	var p shared.BookingReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("booking reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	booking, err := h.c.BookingService.GetBooking(ctx, p.StoreID, p.BookingID)
	if err != nil {
		return fmt.Errorf("load booking for reminder: %w", err)
	}

	// A cancelled or finished booking needs no reminder.
	if booking.Status != bookingmodel.StatusConfirmed {
		log.Printf("[Reminder] Skipping booking %s (status %s)", p.BookingID, booking.Status)
		return nil
	}

	log.Printf("[Reminder] 📅 Booking %s for customer %s at %s",
		booking.ID, booking.CustomerID, booking.ScheduledAt.Format("2006-01-02 15:04"))
	return nil
}
