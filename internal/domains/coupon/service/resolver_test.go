package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/coupon/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func activeCoupon() *model.Coupon {
	now := time.Now()
	return &model.Coupon{
		ID:            uuid.New(),
		Code:          "WELCOME10",
		Status:        model.CouponStatusActive,
		ValidFrom:     now.Add(-time.Hour),
		ValidTill:     now.Add(time.Hour),
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: d("10"),
		MinimumSpend:  d("100"),
		AllServices:   true,
	}
}

func orderOf(amount string) OrderContext {
	return OrderContext{
		CustomerID: uuid.New(),
		Amount:     d(amount),
		AsOf:       time.Now(),
	}
}

func assertCode(t *testing.T, err error, code model.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*model.AppError)
	require.True(t, ok, "expected *model.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestResolve_PercentageDiscount(t *testing.T) {
	r := NewEligibilityResolver()

	result, err := r.Resolve(activeCoupon(), orderOf("500"), 0)

	require.NoError(t, err)
	assert.True(t, d("50").Equal(result.DiscountAmount), "discount = %s", result.DiscountAmount)
	assert.True(t, d("450").Equal(result.FinalAmount))
	assert.Equal(t, "WELCOME10", result.Code)
}

func TestResolve_PercentageCappedByMaximumDiscount(t *testing.T) {
	r := NewEligibilityResolver()
	coupon := activeCoupon()
	cap := d("30")
	coupon.MaximumDiscount = &cap

	result, err := r.Resolve(coupon, orderOf("500"), 0)

	require.NoError(t, err)
	assert.True(t, d("30").Equal(result.DiscountAmount))
	assert.True(t, d("470").Equal(result.FinalAmount))
}

func TestResolve_FlatDiscountNeverExceedsAmount(t *testing.T) {
	r := NewEligibilityResolver()
	coupon := activeCoupon()
	coupon.DiscountType = model.DiscountTypeFlat
	coupon.DiscountValue = d("200")

	result, err := r.Resolve(coupon, orderOf("150"), 0)

	require.NoError(t, err)
	assert.True(t, d("150").Equal(result.DiscountAmount))
	assert.True(t, result.FinalAmount.IsZero())
}

func TestResolve_InactiveCoupon(t *testing.T) {
	r := NewEligibilityResolver()
	coupon := activeCoupon()
	coupon.Status = model.CouponStatusInactive

	_, err := r.Resolve(coupon, orderOf("500"), 0)

	assertCode(t, err, model.ErrCodeCouponInactive)
}

func TestResolve_OutsideWindow(t *testing.T) {
	r := NewEligibilityResolver()

	t.Run("not yet valid", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.ValidFrom = time.Now().Add(time.Hour)
		coupon.ValidTill = time.Now().Add(2 * time.Hour)

		_, err := r.Resolve(coupon, orderOf("500"), 0)
		assertCode(t, err, model.ErrCodeCouponNotStarted)
	})

	t.Run("expired", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.ValidFrom = time.Now().Add(-2 * time.Hour)
		coupon.ValidTill = time.Now().Add(-time.Hour)

		_, err := r.Resolve(coupon, orderOf("500"), 0)
		assertCode(t, err, model.ErrCodeCouponExpired)
	})
}

func TestResolve_MinimumSpend(t *testing.T) {
	r := NewEligibilityResolver()

	_, err := r.Resolve(activeCoupon(), orderOf("99.99"), 0)

	assertCode(t, err, model.ErrCodeCouponMinSpend)
}

func TestResolve_UsageLimit(t *testing.T) {
	r := NewEligibilityResolver()
	coupon := activeCoupon()
	coupon.UsageLimit = 2

	_, err := r.Resolve(coupon, orderOf("500"), 2)
	assertCode(t, err, model.ErrCodeCouponUsageLimit)

	// One use left
	result, err := r.Resolve(coupon, orderOf("500"), 1)
	require.NoError(t, err)
	assert.False(t, result.DiscountAmount.IsZero())
}

func TestResolve_CategoryInclusion(t *testing.T) {
	r := NewEligibilityResolver()
	serviceID := uuid.New()

	t.Run("one matching item covers its category", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.AllServices = false
		coupon.ServiceIDs = []uuid.UUID{serviceID}

		order := orderOf("500")
		order.ServiceIDs = []uuid.UUID{uuid.New(), serviceID}

		_, err := r.Resolve(coupon, order, 0)
		require.NoError(t, err)
	})

	t.Run("every supplied category must be covered", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.AllServices = false
		coupon.ServiceIDs = []uuid.UUID{serviceID}

		// Services overlap, but the order also carries a product the
		// coupon says nothing about.
		order := orderOf("500")
		order.ServiceIDs = []uuid.UUID{serviceID}
		order.ProductIDs = []uuid.UUID{uuid.New()}

		_, err := r.Resolve(coupon, order, 0)
		assertCode(t, err, model.ErrCodeCouponNotApplicable)
	})

	t.Run("mixed cart passes when each category is covered", func(t *testing.T) {
		productID := uuid.New()

		coupon := activeCoupon()
		coupon.AllServices = false
		coupon.ServiceIDs = []uuid.UUID{serviceID}
		coupon.ProductIDs = []uuid.UUID{productID}

		order := orderOf("500")
		order.ServiceIDs = []uuid.UUID{serviceID}
		order.ProductIDs = []uuid.UUID{productID, uuid.New()}

		_, err := r.Resolve(coupon, order, 0)
		require.NoError(t, err)
	})

	t.Run("no overlap rejected", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.AllServices = false
		coupon.ServiceIDs = []uuid.UUID{serviceID}

		order := orderOf("500")
		order.ServiceIDs = []uuid.UUID{uuid.New()}

		_, err := r.Resolve(coupon, order, 0)
		assertCode(t, err, model.ErrCodeCouponNotApplicable)
	})

	t.Run("all products flag matches product lines", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.AllServices = false
		coupon.AllProducts = true

		order := orderOf("500")
		order.ProductIDs = []uuid.UUID{uuid.New()}

		_, err := r.Resolve(coupon, order, 0)
		require.NoError(t, err)
	})

	t.Run("order without item breakdown skips the check", func(t *testing.T) {
		coupon := activeCoupon()
		coupon.AllServices = false
		coupon.ServiceIDs = []uuid.UUID{serviceID}

		_, err := r.Resolve(coupon, orderOf("500"), 0)
		require.NoError(t, err)
	})
}
