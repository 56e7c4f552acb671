package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/customer/model"
)

// CustomerRepository persists customers and their wallet ledger.
type CustomerRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Customer, error)
	FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*model.Customer, error)
	List(ctx context.Context, storeID uuid.UUID, filter *model.ListCustomersFilter) ([]model.Customer, int, error)

	// Ledger operations run inside the caller's transaction. The balance
	// columns and the ledger row move together or not at all.
	FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID) (*model.Customer, error)
	CreateWalletEntryWithTx(ctx context.Context, tx pgx.Tx, entry *model.WalletEntry) error
	UpdateBalancesWithTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, wallet, dues decimal.Decimal) error
	ListWalletEntries(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]model.WalletEntry, int, error)
}
