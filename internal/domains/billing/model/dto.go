package model

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// -------------------------------------------------------------------
// SAVE BILL
// -------------------------------------------------------------------

type BillLineRequest struct {
	ItemID        uuid.UUID  `json:"item_id"`
	ItemKind      string     `json:"item_kind"`
	Name          string     `json:"name"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`
	UnitPrice     float64    `json:"unit_price"`
	Quantity      int        `json:"quantity"`
	DiscountType  *string    `json:"discount_type,omitempty"` // flat | percentage
	DiscountValue *float64   `json:"discount_value,omitempty"`
	CGSTRate      float64    `json:"cgst_rate"`
	SGSTRate      float64    `json:"sgst_rate"`
}

func (r BillLineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, validation.Required.Error("item_id is required")),
		validation.Field(&r.ItemKind,
			validation.Required.Error("item_kind is required"),
			validation.In("service", "product", "membership").Error("item_kind must be service, product or membership"),
		),
		validation.Field(&r.Name, validation.Required.Error("name is required")),
		validation.Field(&r.UnitPrice, validation.Min(0.0).Error("unit_price cannot be negative")),
		validation.Field(&r.Quantity, validation.Min(1).Error("quantity must be at least 1")),
		validation.Field(&r.DiscountType,
			validation.In("flat", "percentage").Error("discount_type must be flat or percentage"),
		),
		validation.Field(&r.CGSTRate, validation.Min(0.0).Error("cgst_rate cannot be negative")),
		validation.Field(&r.SGSTRate, validation.Min(0.0).Error("sgst_rate cannot be negative")),
	)
}

type PaymentRequest struct {
	Mode      string  `json:"mode"` // cash | card | upi | wallet
	Amount    float64 `json:"amount"`
	Reference *string `json:"reference,omitempty"`
}

func (r PaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mode,
			validation.Required.Error("mode is required"),
			validation.In("cash", "card", "upi", "wallet").Error("mode must be cash, card, upi or wallet"),
		),
		validation.Field(&r.Amount,
			validation.Required.Error("amount is required"),
			validation.Min(0.01).Error("amount must be positive"),
		),
	)
}

type SaveBillRequest struct {
	CustomerID   uuid.UUID         `json:"customer_id"`
	Items        []BillLineRequest `json:"items"`
	Payments     []PaymentRequest  `json:"payments,omitempty"`
	CouponCodes  []string          `json:"coupon_codes,omitempty"`
	ReferralCode *string           `json:"referral_code,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
}

func (r SaveBillRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.CustomerID, validation.Required.Error("customer_id is required")),
		validation.Field(&r.Items,
			validation.Required.Error("at least one item is required"),
			validation.Length(1, 200).Error("a bill carries 1-200 items"),
		),
	); err != nil {
		return err
	}

	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, payment := range r.Payments {
		if err := payment.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// -------------------------------------------------------------------
// HOLD BILL
// -------------------------------------------------------------------

type HoldBillRequest struct {
	Payload        json.RawMessage `json:"payload"`
	CustomerName   *string         `json:"customer_name,omitempty"`
	CustomerPhone  *string         `json:"customer_phone,omitempty"`
	AmountEstimate float64         `json:"amount_estimate"`
}

func (r HoldBillRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Payload, validation.Required.Error("payload is required")),
		validation.Field(&r.AmountEstimate, validation.Min(0.0).Error("amount_estimate cannot be negative")),
	)
}

// -------------------------------------------------------------------
// ADD PAYMENT
// -------------------------------------------------------------------

type AddPaymentRequest struct {
	Mode      string  `json:"mode"`
	Amount    float64 `json:"amount"`
	Reference *string `json:"reference,omitempty"`
}

func (r AddPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mode,
			validation.Required.Error("mode is required"),
			validation.In("cash", "card", "upi", "wallet").Error("mode must be cash, card, upi or wallet"),
		),
		validation.Field(&r.Amount,
			validation.Required.Error("amount is required"),
			validation.Min(0.01).Error("amount must be positive"),
		),
	)
}

// -------------------------------------------------------------------
// LISTING
// -------------------------------------------------------------------

type ListBillsFilter struct {
	Status string     `form:"status"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Page   int        `form:"page,default=1"`
	Limit  int        `form:"limit,default=20"`
}

func (f *ListBillsFilter) Normalize() {
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
