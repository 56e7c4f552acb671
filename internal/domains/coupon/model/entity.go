package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusInactive CouponStatus = "inactive"
)

type DiscountType string

const (
	DiscountTypeFlat       DiscountType = "flat"
	DiscountTypePercentage DiscountType = "percentage"
)

// Coupon is a store-scoped discount code. Inclusion sets control which
// catalog categories the coupon covers; an all_* flag short-circuits the
// per-item list for that category.
type Coupon struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	StoreID     uuid.UUID    `json:"store_id" db:"store_id"`
	Code        string       `json:"code" db:"code"`
	Description *string      `json:"description,omitempty" db:"description"`
	Status      CouponStatus `json:"status" db:"status"`

	// Validity window
	ValidFrom time.Time `json:"valid_from" db:"valid_from"`
	ValidTill time.Time `json:"valid_till" db:"valid_till"`

	// Discount
	DiscountType    DiscountType     `json:"discount_type" db:"discount_type"`
	DiscountValue   decimal.Decimal  `json:"discount_value" db:"discount_value"`
	MinimumSpend    decimal.Decimal  `json:"minimum_spend" db:"minimum_spend"`
	MaximumDiscount *decimal.Decimal `json:"maximum_discount,omitempty" db:"maximum_discount"`

	// Usage limits. UsageLimit 0 means unlimited; LimitRefreshDays 0 means
	// the limit counts over the coupon's lifetime.
	UsageLimit       int `json:"usage_limit" db:"usage_limit"`
	LimitRefreshDays int `json:"limit_refresh_days" db:"limit_refresh_days"`

	// Inclusion sets
	AllServices    bool        `json:"all_services" db:"all_services"`
	AllProducts    bool        `json:"all_products" db:"all_products"`
	AllMemberships bool        `json:"all_memberships" db:"all_memberships"`
	ServiceIDs     []uuid.UUID `json:"service_ids,omitempty"`
	ProductIDs     []uuid.UUID `json:"product_ids,omitempty"`
	MembershipIDs  []uuid.UUID `json:"membership_ids,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CouponUsage records one redemption of a coupon on a bill.
type CouponUsage struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CouponID       uuid.UUID       `json:"coupon_id" db:"coupon_id"`
	StoreID        uuid.UUID       `json:"store_id" db:"store_id"`
	CustomerID     uuid.UUID       `json:"customer_id" db:"customer_id"`
	BillID         uuid.UUID       `json:"bill_id" db:"bill_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	UsedAt         time.Time       `json:"used_at" db:"used_at"`
}

// IsWithinWindow checks the validity window at a given instant.
func (c *Coupon) IsWithinWindow(at time.Time) bool {
	return !at.Before(c.ValidFrom) && !at.After(c.ValidTill)
}

// IsRedeemable reports whether the coupon is active and inside its window.
func (c *Coupon) IsRedeemable(at time.Time) bool {
	return c.Status == CouponStatusActive && c.IsWithinWindow(at)
}

// UsageWindowStart returns the start of the rolling usage window, or nil
// when the limit counts over the coupon's lifetime.
func (c *Coupon) UsageWindowStart(asOf time.Time) *time.Time {
	if c.LimitRefreshDays <= 0 {
		return nil
	}
	start := asOf.AddDate(0, 0, -c.LimitRefreshDays)
	return &start
}
