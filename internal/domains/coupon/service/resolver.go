package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/coupon/model"
)

// OrderContext describes the in-progress bill a coupon is checked against.
type OrderContext struct {
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	ServiceIDs    []uuid.UUID
	ProductIDs    []uuid.UUID
	MembershipIDs []uuid.UUID
	AsOf          time.Time
}

// EligibilityResolver runs the ordered eligibility checks and computes the
// discount. It is pure: usage counts come in from the caller so the same
// logic serves validation, the eligible listing, and the bill transaction.
type EligibilityResolver struct{}

func NewEligibilityResolver() *EligibilityResolver {
	return &EligibilityResolver{}
}

// Resolve checks a coupon against an order. Checks short-circuit in order:
// status+window, minimum spend, usage limit, category inclusion. On success
// the returned result carries the discount and the remaining amount.
func (r *EligibilityResolver) Resolve(coupon *model.Coupon, order OrderContext, usedCount int) (*model.CouponResult, error) {
	// Step 1: active and inside the validity window
	if coupon.Status != model.CouponStatusActive {
		return nil, &model.AppError{
			Code:       model.ErrCodeCouponInactive,
			Message:    "Coupon is not active",
			HTTPStatus: 400,
		}
	}

	if order.AsOf.Before(coupon.ValidFrom) {
		return nil, &model.AppError{
			Code:       model.ErrCodeCouponNotStarted,
			Message:    "Coupon is not yet valid",
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"valid_from": coupon.ValidFrom,
			},
		}
	}

	if order.AsOf.After(coupon.ValidTill) {
		return nil, &model.AppError{
			Code:       model.ErrCodeCouponExpired,
			Message:    "Coupon has expired",
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"valid_till": coupon.ValidTill,
			},
		}
	}

	// Step 2: minimum spend
	if order.Amount.LessThan(coupon.MinimumSpend) {
		return nil, &model.AppError{
			Code:       model.ErrCodeCouponMinSpend,
			Message:    fmt.Sprintf("Order must be at least %s to use this coupon", coupon.MinimumSpend.String()),
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"minimum_spend":  coupon.MinimumSpend,
				"current_amount": order.Amount,
			},
		}
	}

	// Step 3: per-customer usage limit (rolling window when configured)
	if coupon.UsageLimit > 0 && usedCount >= coupon.UsageLimit {
		return nil, &model.AppError{
			Code:       model.ErrCodeCouponUsageLimit,
			Message:    fmt.Sprintf("Coupon usage limit of %d reached", coupon.UsageLimit),
			HTTPStatus: 400,
			Details: map[string]interface{}{
				"usage_limit": coupon.UsageLimit,
				"used_count":  usedCount,
			},
		}
	}

	// Step 4: category inclusion. Every category the order carries items
	// in must be covered by the coupon; within a category a single
	// matching item is enough. Orders without an item breakdown skip
	// this check.
	if !r.applies(coupon, order) {
		return nil, &model.AppError{
			Code:       model.ErrCodeCouponNotApplicable,
			Message:    "Coupon does not cover the items on this bill",
			HTTPStatus: 400,
		}
	}

	// Step 5: discount
	discount := r.calculateDiscount(coupon, order.Amount)

	// Step 6: remaining amount, floored at zero
	finalAmount := order.Amount.Sub(discount)
	if finalAmount.IsNegative() {
		finalAmount = decimal.Zero
	}

	return &model.CouponResult{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountType:   string(coupon.DiscountType),
		DiscountAmount: discount,
		FinalAmount:    finalAmount,
	}, nil
}

// applies checks each category the order supplies against the coupon's
// inclusion rules: the category must be "all included" or overlap the
// coupon's set. One matching item covers its whole category; categories
// with no items on the order are not checked.
func (r *EligibilityResolver) applies(coupon *model.Coupon, order OrderContext) bool {
	if len(order.ServiceIDs) > 0 && !coupon.AllServices && !overlaps(coupon.ServiceIDs, order.ServiceIDs) {
		return false
	}
	if len(order.ProductIDs) > 0 && !coupon.AllProducts && !overlaps(coupon.ProductIDs, order.ProductIDs) {
		return false
	}
	if len(order.MembershipIDs) > 0 && !coupon.AllMemberships && !overlaps(coupon.MembershipIDs, order.MembershipIDs) {
		return false
	}
	return true
}

// calculateDiscount computes the raw discount for the order amount.
// Percentage discounts are capped by MaximumDiscount when set; flat
// discounts never exceed the order amount.
func (r *EligibilityResolver) calculateDiscount(coupon *model.Coupon, amount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		discount = amount.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))

		if coupon.MaximumDiscount != nil && discount.GreaterThan(*coupon.MaximumDiscount) {
			discount = *coupon.MaximumDiscount
		}

	case model.DiscountTypeFlat:
		discount = coupon.DiscountValue

		if discount.GreaterThan(amount) {
			discount = amount
		}

	default:
		return decimal.Zero
	}

	return discount
}

func overlaps(a, b []uuid.UUID) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
