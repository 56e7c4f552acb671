package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"salonsuite-backend/internal/domains/coupon/model"
)

// CouponRepository is the data access contract for coupons and their
// redemption history. All reads are store-scoped; a coupon from another
// store is indistinguishable from a missing one.
type CouponRepository interface {
	// Reads
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*model.Coupon, error)
	List(ctx context.Context, storeID uuid.UUID, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error)
	ListRedeemable(ctx context.Context, storeID uuid.UUID, at time.Time) ([]*model.Coupon, error)

	// Writes
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error

	// Usage tracking
	CountUsage(ctx context.Context, couponID, customerID uuid.UUID, since *time.Time) (int, error)
	CreateUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error

	// Maintenance
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
