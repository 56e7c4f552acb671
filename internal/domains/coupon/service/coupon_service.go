package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/coupon/model"
	"salonsuite-backend/internal/domains/coupon/repository"
	"salonsuite-backend/pkg/logger"
)

type couponService struct {
	repo     repository.CouponRepository
	resolver *EligibilityResolver
}

func NewCouponService(repo repository.CouponRepository) ServiceInterface {
	return &couponService{
		repo:     repo,
		resolver: NewEligibilityResolver(),
	}
}

// -------------------------------------------------------------------
// ADMIN OPERATIONS
// -------------------------------------------------------------------

func (s *couponService) CreateCoupon(ctx context.Context, storeID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error) {
	req.NormalizeCode()

	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    "valid_from must be RFC3339",
			HTTPStatus: 400,
		}
	}

	validTill, err := time.Parse(time.RFC3339, req.ValidTill)
	if err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    "valid_till must be RFC3339",
			HTTPStatus: 400,
		}
	}

	if !validTill.After(validFrom) {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    "valid_till must be after valid_from",
			HTTPStatus: 400,
		}
	}

	coupon := &model.Coupon{
		StoreID:          storeID,
		Code:             req.Code,
		Description:      req.Description,
		Status:           model.CouponStatusActive,
		ValidFrom:        validFrom,
		ValidTill:        validTill,
		DiscountType:     model.DiscountType(req.DiscountType),
		DiscountValue:    decimal.NewFromFloat(req.DiscountValue),
		MinimumSpend:     decimal.NewFromFloat(req.MinimumSpend),
		UsageLimit:       req.UsageLimit,
		LimitRefreshDays: req.LimitRefreshDays,
		AllServices:      req.AllServices,
		AllProducts:      req.AllProducts,
		AllMemberships:   req.AllMemberships,
		ServiceIDs:       req.ServiceIDs,
		ProductIDs:       req.ProductIDs,
		MembershipIDs:    req.MembershipIDs,
	}

	if req.MaximumDiscount != nil {
		max := decimal.NewFromFloat(*req.MaximumDiscount)
		coupon.MaximumDiscount = &max
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	return coupon, nil
}

// UpdateCoupon applies only the fields set on the request, then writes
// the full row back.
func (s *couponService) UpdateCoupon(ctx context.Context, storeID, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error) {
	existing, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing

	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.Status != nil {
		updated.Status = model.CouponStatus(*req.Status)
	}
	if req.ValidFrom != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "valid_from must be RFC3339",
				HTTPStatus: 400,
			}
		}
		updated.ValidFrom = t
	}
	if req.ValidTill != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidTill)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "valid_till must be RFC3339",
				HTTPStatus: 400,
			}
		}
		updated.ValidTill = t
	}
	if !updated.ValidTill.After(updated.ValidFrom) {
		return nil, &model.AppError{
			Code:       model.ErrCodeValidationFailed,
			Message:    "valid_till must be after valid_from",
			HTTPStatus: 400,
		}
	}
	if req.DiscountType != nil {
		updated.DiscountType = model.DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		updated.DiscountValue = decimal.NewFromFloat(*req.DiscountValue)
	}
	if req.MinimumSpend != nil {
		updated.MinimumSpend = decimal.NewFromFloat(*req.MinimumSpend)
	}
	if req.MaximumDiscount != nil {
		max := decimal.NewFromFloat(*req.MaximumDiscount)
		updated.MaximumDiscount = &max
	}
	if req.UsageLimit != nil {
		updated.UsageLimit = *req.UsageLimit
	}
	if req.LimitRefreshDays != nil {
		updated.LimitRefreshDays = *req.LimitRefreshDays
	}
	if req.AllServices != nil {
		updated.AllServices = *req.AllServices
	}
	if req.AllProducts != nil {
		updated.AllProducts = *req.AllProducts
	}
	if req.AllMemberships != nil {
		updated.AllMemberships = *req.AllMemberships
	}
	if req.ServiceIDs != nil {
		updated.ServiceIDs = *req.ServiceIDs
	}
	if req.ProductIDs != nil {
		updated.ProductIDs = *req.ProductIDs
	}
	if req.MembershipIDs != nil {
		updated.MembershipIDs = *req.MembershipIDs
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, storeID, id uuid.UUID) error {
	return s.repo.Delete(ctx, storeID, id)
}

func (s *couponService) GetCoupon(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error) {
	return s.repo.FindByID(ctx, storeID, id)
}

func (s *couponService) ListCoupons(ctx context.Context, storeID uuid.UUID, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, storeID, filter)
}

// -------------------------------------------------------------------
// PUBLIC OPERATIONS
// -------------------------------------------------------------------

func (s *couponService) ValidateCoupon(ctx context.Context, storeID uuid.UUID, req *model.ValidateCouponRequest) (*model.CouponResult, error) {
	req.NormalizeCode()

	order := OrderContext{
		CustomerID:    req.CustomerID,
		Amount:        decimal.NewFromFloat(req.Amount),
		ServiceIDs:    req.ServiceIDs,
		ProductIDs:    req.ProductIDs,
		MembershipIDs: req.MembershipIDs,
		AsOf:          time.Now(),
	}

	return s.ResolveForOrder(ctx, storeID, req.Code, order)
}

// ResolveForOrder fetches the coupon and its usage count, then delegates
// to the resolver. Also called by billing inside SaveBill.
func (s *couponService) ResolveForOrder(ctx context.Context, storeID uuid.UUID, code string, order OrderContext) (*model.CouponResult, error) {
	coupon, err := s.repo.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, err
	}

	usedCount := 0
	if coupon.UsageLimit > 0 {
		usedCount, err = s.repo.CountUsage(ctx, coupon.ID, order.CustomerID, coupon.UsageWindowStart(order.AsOf))
		if err != nil {
			return nil, fmt.Errorf("count coupon usage: %w", err)
		}
	}

	return s.resolver.Resolve(coupon, order, usedCount)
}

// ListEligibleCoupons filters the store's redeemable coupons down to those
// the customer could apply right now. Ineligible coupons are skipped, not
// errors.
func (s *couponService) ListEligibleCoupons(ctx context.Context, storeID, customerID uuid.UUID, amount decimal.Decimal) ([]*model.EligibleCoupon, error) {
	now := time.Now()

	coupons, err := s.repo.ListRedeemable(ctx, storeID, now)
	if err != nil {
		return nil, err
	}

	order := OrderContext{
		CustomerID: customerID,
		Amount:     amount,
		AsOf:       now,
	}

	eligible := make([]*model.EligibleCoupon, 0, len(coupons))
	for _, coupon := range coupons {
		usedCount := 0
		if coupon.UsageLimit > 0 {
			usedCount, err = s.repo.CountUsage(ctx, coupon.ID, customerID, coupon.UsageWindowStart(now))
			if err != nil {
				return nil, fmt.Errorf("count coupon usage: %w", err)
			}
		}

		result, err := s.resolver.Resolve(coupon, order, usedCount)
		if err != nil {
			continue
		}

		eligible = append(eligible, &model.EligibleCoupon{
			ID:              coupon.ID,
			Code:            coupon.Code,
			Description:     coupon.Description,
			DiscountType:    string(coupon.DiscountType),
			DiscountValue:   coupon.DiscountValue,
			MinimumSpend:    coupon.MinimumSpend,
			MaximumDiscount: coupon.MaximumDiscount,
			ValidTill:       coupon.ValidTill,
			DiscountAmount:  result.DiscountAmount,
			FinalAmount:     result.FinalAmount,
		})
	}

	return eligible, nil
}

// -------------------------------------------------------------------
// INTERNAL (billing transaction)
// -------------------------------------------------------------------

func (s *couponService) RecordUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error {
	return s.repo.CreateUsageWithTx(ctx, tx, usage)
}

// -------------------------------------------------------------------
// MAINTENANCE
// -------------------------------------------------------------------

func (s *couponService) ExpireStaleCoupons(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireStale(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		logger.Info("expired stale coupons", map[string]interface{}{
			"count": n,
		})
	}
	return n, nil
}
