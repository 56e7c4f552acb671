package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/billing/model"
)

// BillRepository persists bills, their lines and payments, plus held drafts.
type BillRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CreateBillWithTx(ctx context.Context, tx pgx.Tx, bill *model.Bill) error
	CreateBillItemsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, items []model.BillItem) error
	CreateBillPaymentsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, payments []model.BillPayment) error
	UpdateBillTotalsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, paidAmount, dues decimal.Decimal, status model.BillStatus) error
	FindByIDWithTx(ctx context.Context, tx pgx.Tx, storeID, billID uuid.UUID) (*model.Bill, error)

	FindByID(ctx context.Context, storeID, billID uuid.UUID) (*model.Bill, error)
	List(ctx context.Context, storeID uuid.UUID, filter *model.ListBillsFilter) ([]model.Bill, int64, error)
	ListForExport(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.Bill, error)
	MarkReceiptIssued(ctx context.Context, billID uuid.UUID, at time.Time) error

	CreateHeld(ctx context.Context, held *model.HeldBill) error
	ListHeld(ctx context.Context, storeID uuid.UUID) ([]model.HeldBill, error)
	FindHeldByID(ctx context.Context, storeID, heldID uuid.UUID) (*model.HeldBill, error)
	DeleteHeld(ctx context.Context, storeID, heldID uuid.UUID) error
	PurgeHeldOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
