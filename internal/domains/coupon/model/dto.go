package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -------------------------------------------------------------------
// ADMIN REQUESTS
// -------------------------------------------------------------------

type CreateCouponRequest struct {
	Code             string      `json:"code"`
	Description      *string     `json:"description,omitempty"`
	ValidFrom        string      `json:"valid_from"`
	ValidTill        string      `json:"valid_till"`
	DiscountType     string      `json:"discount_type"`
	DiscountValue    float64     `json:"discount_value"`
	MinimumSpend     float64     `json:"minimum_spend"`
	MaximumDiscount  *float64    `json:"maximum_discount,omitempty"`
	UsageLimit       int         `json:"usage_limit"`
	LimitRefreshDays int         `json:"limit_refresh_days"`
	AllServices      bool        `json:"all_services"`
	AllProducts      bool        `json:"all_products"`
	AllMemberships   bool        `json:"all_memberships"`
	ServiceIDs       []uuid.UUID `json:"service_ids,omitempty"`
	ProductIDs       []uuid.UUID `json:"product_ids,omitempty"`
	MembershipIDs    []uuid.UUID `json:"membership_ids,omitempty"`
}

func (r CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("code is required"),
			validation.Length(2, 32).Error("code must be 2-32 characters"),
		),
		validation.Field(&r.ValidFrom,
			validation.Required.Error("valid_from is required"),
			validation.Date(time.RFC3339).Error("valid_from must be RFC3339"),
		),
		validation.Field(&r.ValidTill,
			validation.Required.Error("valid_till is required"),
			validation.Date(time.RFC3339).Error("valid_till must be RFC3339"),
		),
		validation.Field(&r.DiscountType,
			validation.Required.Error("discount_type is required"),
			validation.In("flat", "percentage").Error("discount_type must be flat or percentage"),
		),
		validation.Field(&r.DiscountValue,
			validation.Required.Error("discount_value is required"),
			validation.Min(0.01).Error("discount_value must be positive"),
		),
		validation.Field(&r.MinimumSpend,
			validation.Min(0.0).Error("minimum_spend cannot be negative"),
		),
		validation.Field(&r.UsageLimit,
			validation.Min(0).Error("usage_limit cannot be negative"),
		),
		validation.Field(&r.LimitRefreshDays,
			validation.Min(0).Error("limit_refresh_days cannot be negative"),
		),
	)
}

// NormalizeCode uppercases and trims the coupon code.
func (r *CreateCouponRequest) NormalizeCode() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

// UpdateCouponRequest carries only the fields a caller wants changed.
// The service maps set fields onto the stored coupon; the repository
// always writes the full row.
type UpdateCouponRequest struct {
	Description      *string      `json:"description,omitempty"`
	Status           *string      `json:"status,omitempty"`
	ValidFrom        *string      `json:"valid_from,omitempty"`
	ValidTill        *string      `json:"valid_till,omitempty"`
	DiscountType     *string      `json:"discount_type,omitempty"`
	DiscountValue    *float64     `json:"discount_value,omitempty"`
	MinimumSpend     *float64     `json:"minimum_spend,omitempty"`
	MaximumDiscount  *float64     `json:"maximum_discount,omitempty"`
	UsageLimit       *int         `json:"usage_limit,omitempty"`
	LimitRefreshDays *int         `json:"limit_refresh_days,omitempty"`
	AllServices      *bool        `json:"all_services,omitempty"`
	AllProducts      *bool        `json:"all_products,omitempty"`
	AllMemberships   *bool        `json:"all_memberships,omitempty"`
	ServiceIDs       *[]uuid.UUID `json:"service_ids,omitempty"`
	ProductIDs       *[]uuid.UUID `json:"product_ids,omitempty"`
	MembershipIDs    *[]uuid.UUID `json:"membership_ids,omitempty"`
}

func (r UpdateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.In("active", "inactive").Error("status must be active or inactive"),
		),
		validation.Field(&r.DiscountType,
			validation.In("flat", "percentage").Error("discount_type must be flat or percentage"),
		),
	)
}

// -------------------------------------------------------------------
// PUBLIC REQUESTS
// -------------------------------------------------------------------

// ValidateCouponRequest asks whether a code applies to an in-progress bill.
type ValidateCouponRequest struct {
	Code          string      `json:"code"`
	CustomerID    uuid.UUID   `json:"customer_id"`
	Amount        float64     `json:"amount"`
	ServiceIDs    []uuid.UUID `json:"service_ids,omitempty"`
	ProductIDs    []uuid.UUID `json:"product_ids,omitempty"`
	MembershipIDs []uuid.UUID `json:"membership_ids,omitempty"`
}

func (r ValidateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required.Error("code is required")),
		validation.Field(&r.CustomerID, validation.Required.Error("customer_id is required")),
		validation.Field(&r.Amount,
			validation.Required.Error("amount is required"),
			validation.Min(0.01).Error("amount must be positive"),
		),
	)
}

func (r *ValidateCouponRequest) NormalizeCode() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

// -------------------------------------------------------------------
// RESPONSES
// -------------------------------------------------------------------

// CouponResult is the outcome of a successful eligibility resolution.
type CouponResult struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// EligibleCoupon is one entry of the eligible-coupons listing.
type EligibleCoupon struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	Description     *string          `json:"description,omitempty"`
	DiscountType    string           `json:"discount_type"`
	DiscountValue   decimal.Decimal  `json:"discount_value"`
	MinimumSpend    decimal.Decimal  `json:"minimum_spend"`
	MaximumDiscount *decimal.Decimal `json:"maximum_discount,omitempty"`
	ValidTill       time.Time        `json:"valid_till"`
	DiscountAmount  decimal.Decimal  `json:"discount_amount"`
	FinalAmount     decimal.Decimal  `json:"final_amount"`
}

// ListCouponsFilter carries admin listing parameters.
type ListCouponsFilter struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
}

func (f *ListCouponsFilter) Normalize() {
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
