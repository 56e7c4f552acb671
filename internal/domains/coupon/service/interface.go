package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/coupon/model"
)

// ServiceInterface is the coupon domain's business contract.
type ServiceInterface interface {
	// Admin operations
	CreateCoupon(ctx context.Context, storeID uuid.UUID, req *model.CreateCouponRequest) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, storeID, id uuid.UUID, req *model.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, storeID, id uuid.UUID) error
	GetCoupon(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error)
	ListCoupons(ctx context.Context, storeID uuid.UUID, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error)

	// Public operations
	ValidateCoupon(ctx context.Context, storeID uuid.UUID, req *model.ValidateCouponRequest) (*model.CouponResult, error)
	ListEligibleCoupons(ctx context.Context, storeID uuid.UUID, customerID uuid.UUID, amount decimal.Decimal) ([]*model.EligibleCoupon, error)

	// Called by the billing service inside its transaction
	ResolveForOrder(ctx context.Context, storeID uuid.UUID, code string, order OrderContext) (*model.CouponResult, error)
	RecordUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error

	// Maintenance (worker)
	ExpireStaleCoupons(ctx context.Context) (int64, error)
}
