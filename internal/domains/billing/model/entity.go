package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusUnpaid    BillStatus = "unpaid"
	BillStatusPartial   BillStatus = "partial"
	BillStatusPaid      BillStatus = "paid"
	BillStatusCancelled BillStatus = "cancelled"
)

// DeriveBillStatus computes the stored payment status from the totals.
// Status is written at bill/payment time, never recomputed on read.
func DeriveBillStatus(grandTotal, paidAmount decimal.Decimal) BillStatus {
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		if grandTotal.IsZero() {
			return BillStatusPaid
		}
		return BillStatusUnpaid
	}
	if paidAmount.GreaterThanOrEqual(grandTotal) {
		return BillStatusPaid
	}
	return BillStatusPartial
}

// Bill is the committed invoice header. All monetary fields are persisted
// as computed at write time.
type Bill struct {
	ID            uuid.UUID `json:"id" db:"id"`
	StoreID       uuid.UUID `json:"store_id" db:"store_id"`
	CustomerID    uuid.UUID `json:"customer_id" db:"customer_id"`
	InvoiceNumber int64     `json:"invoice_number" db:"invoice_number"`

	// Totals
	SubTotal       decimal.Decimal `json:"sub_total" db:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount" db:"sgst_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total" db:"grand_total"`
	PaidAmount     decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Dues           decimal.Decimal `json:"dues" db:"dues"`

	Status       BillStatus `json:"status" db:"status"`
	CouponCodes  []string   `json:"coupon_codes,omitempty" db:"coupon_codes"`
	ReferralCode *string    `json:"referral_code,omitempty" db:"referral_code"`

	// Conflict detection for client retries
	IdempotencyKey *string `json:"idempotency_key,omitempty" db:"idempotency_key"`

	Notes           *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy       uuid.UUID  `json:"created_by" db:"created_by"`
	ReceiptIssuedAt *time.Time `json:"receipt_issued_at,omitempty" db:"receipt_issued_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	Items    []BillItem    `json:"items,omitempty"`
	Payments []BillPayment `json:"payments,omitempty"`
}

// BillItem is one line of a bill with its computed amounts persisted.
type BillItem struct {
	ID     uuid.UUID `json:"id" db:"id"`
	BillID uuid.UUID `json:"bill_id" db:"bill_id"`
	LineNo int       `json:"line_no" db:"line_no"`

	ItemID   uuid.UUID  `json:"item_id" db:"item_id"`
	ItemKind string     `json:"item_kind" db:"item_kind"` // service | product | membership
	Name     string     `json:"name" db:"name"`
	StaffID  *uuid.UUID `json:"staff_id,omitempty" db:"staff_id"`

	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity      int             `json:"quantity" db:"quantity"`
	DiscountType  *string         `json:"discount_type,omitempty" db:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	CGSTRate      decimal.Decimal `json:"cgst_rate" db:"cgst_rate"`
	SGSTRate      decimal.Decimal `json:"sgst_rate" db:"sgst_rate"`

	// Computed amounts
	BaseAmount     decimal.Decimal `json:"base_amount" db:"base_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount" db:"taxable_amount"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount" db:"sgst_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
}

// BillPayment is one append-only payment record against a bill.
type BillPayment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	BillID    uuid.UUID       `json:"bill_id" db:"bill_id"`
	Mode      string          `json:"mode" db:"mode"` // cash | card | upi | wallet
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Reference *string         `json:"reference,omitempty" db:"reference"`
	PaidAt    time.Time       `json:"paid_at" db:"paid_at"`
}

// HeldBill is a parked draft. The raw payload is stored untouched so the
// client can resume and re-submit it; promotion to a bill never happens
// server side.
type HeldBill struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	StoreID        uuid.UUID       `json:"store_id" db:"store_id"`
	Payload        json.RawMessage `json:"payload" db:"payload"`
	CustomerName   *string         `json:"customer_name,omitempty" db:"customer_name"`
	CustomerPhone  *string         `json:"customer_phone,omitempty" db:"customer_phone"`
	AmountEstimate decimal.Decimal `json:"amount_estimate" db:"amount_estimate"`
	IdempotencyKey *string         `json:"idempotency_key,omitempty" db:"idempotency_key"`
	CreatedBy      uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
