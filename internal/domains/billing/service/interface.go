package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/billing/model"
	couponmodel "salonsuite-backend/internal/domains/coupon/model"
	couponservice "salonsuite-backend/internal/domains/coupon/service"
)

// ServiceInterface is the billing domain's business contract.
type ServiceInterface interface {
	SaveBill(ctx context.Context, storeID, userID uuid.UUID, idempotencyKey *string, req *model.SaveBillRequest) (*model.Bill, error)
	GetBill(ctx context.Context, storeID, billID uuid.UUID) (*model.Bill, error)
	ListBills(ctx context.Context, storeID uuid.UUID, filter *model.ListBillsFilter) ([]model.Bill, int64, error)
	AddPayment(ctx context.Context, storeID, billID uuid.UUID, req *model.AddPaymentRequest) (*model.Bill, error)

	HoldBill(ctx context.Context, storeID, userID uuid.UUID, idempotencyKey *string, req *model.HoldBillRequest) (*model.HeldBill, error)
	ListHeldBills(ctx context.Context, storeID uuid.UUID) ([]model.HeldBill, error)
	GetHeldBill(ctx context.Context, storeID, heldID uuid.UUID) (*model.HeldBill, error)
	DeleteHeldBill(ctx context.Context, storeID, heldID uuid.UUID) error

	// Maintenance (worker)
	MarkReceiptIssued(ctx context.Context, billID uuid.UUID) error
	PurgeStaleHeldBills(ctx context.Context, retentionDays int) (int64, error)
}

// CouponResolver is the slice of the coupon service billing needs.
type CouponResolver interface {
	ResolveForOrder(ctx context.Context, storeID uuid.UUID, code string, order couponservice.OrderContext) (*couponmodel.CouponResult, error)
	RecordUsageWithTx(ctx context.Context, tx pgx.Tx, usage *couponmodel.CouponUsage) error
}

// CustomerBiller applies a committed bill's side effects to the customer
// ledger inside the bill transaction.
type CustomerBiller interface {
	ApplyBillEffectsWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, walletSpend, duesDelta decimal.Decimal, billID uuid.UUID) error
}

// Exporter renders a store's bills for a date range as a spreadsheet.
type Exporter interface {
	ExportBills(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]byte, string, error)
}
