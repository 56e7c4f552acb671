package shared

import "github.com/google/uuid"

// Queue names by priority. The worker weights these in its config.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Asynq task type names. Enqueued by services after commit, handled in cmd/worker.
const (
	TypeIssueReceipt       = "billing:issue_receipt"
	TypeExpireCoupons      = "coupon:expire_stale"
	TypeBookingReminder    = "booking:send_reminder"
	TypePurgeStaleHeldBill = "billing:purge_stale_held"
)

// IssueReceiptPayload is queued after a bill commits.
type IssueReceiptPayload struct {
	StoreID uuid.UUID `json:"storeId"`
	BillID  uuid.UUID `json:"billId"`
}

// BookingReminderPayload is queued when a booking is confirmed.
type BookingReminderPayload struct {
	StoreID   uuid.UUID `json:"storeId"`
	BookingID uuid.UUID `json:"bookingId"`
}

// ExpireCouponsPayload drives the periodic coupon expiry sweep.
type ExpireCouponsPayload struct{}

// PurgeStaleHeldBillsPayload drives held-bill cleanup; held bills older
// than RetentionDays are removed.
type PurgeStaleHeldBillsPayload struct {
	RetentionDays int `json:"olderThanDays"`
}
