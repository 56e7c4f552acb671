package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/customer/model"
	"salonsuite-backend/internal/domains/customer/repository"
)

// ServiceInterface is the customer domain's business contract. The
// WithTx methods are called by billing and booking inside their own
// transactions, so the ledger commits with the bill.
type ServiceInterface interface {
	CreateCustomer(ctx context.Context, storeID uuid.UUID, req *model.CreateCustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, storeID, customerID uuid.UUID, req *model.UpdateCustomerRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*model.Customer, error)
	FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*model.Customer, error)
	ListCustomers(ctx context.Context, storeID uuid.UUID, filter *model.ListCustomersFilter) ([]model.Customer, int, error)

	AddAdvance(ctx context.Context, storeID, customerID uuid.UUID, req *model.AddAdvanceRequest) (*model.Customer, error)
	ListWalletEntries(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]model.WalletEntry, int, error)

	AddAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, amount decimal.Decimal, note *string) error
	AdjustAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, delta decimal.Decimal, note *string) error
	ApplyBillEffectsWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, walletSpend, duesDelta decimal.Decimal, billID uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) ServiceInterface {
	return &customerService{repo: repo}
}

// -------------------------------------------------------------------
// CRUD
// -------------------------------------------------------------------

func (s *customerService) CreateCustomer(ctx context.Context, storeID uuid.UUID, req *model.CreateCustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		StoreID: storeID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Gender:  req.Gender,
		Notes:   req.Notes,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, storeID, customerID uuid.UUID, req *model.UpdateCustomerRequest) (*model.Customer, error) {
	customer, err := s.repo.FindByID(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Gender != nil {
		customer.Gender = req.Gender
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, storeID, customerID uuid.UUID) (*model.Customer, error) {
	return s.repo.FindByID(ctx, storeID, customerID)
}

func (s *customerService) FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*model.Customer, error) {
	return s.repo.FindByPhone(ctx, storeID, phone)
}

func (s *customerService) ListCustomers(ctx context.Context, storeID uuid.UUID, filter *model.ListCustomersFilter) ([]model.Customer, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, storeID, filter)
}

// -------------------------------------------------------------------
// WALLET
// -------------------------------------------------------------------

func (s *customerService) AddAdvance(ctx context.Context, storeID, customerID uuid.UUID, req *model.AddAdvanceRequest) (*model.Customer, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	amount := decimal.NewFromFloat(req.Amount)
	if err := s.AddAdvanceWithTx(ctx, tx, storeID, customerID, amount, req.Note); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, storeID, customerID)
}

func (s *customerService) ListWalletEntries(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]model.WalletEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListWalletEntries(ctx, storeID, customerID, page, limit)
}

// AddAdvanceWithTx credits the wallet under a row lock.
func (s *customerService) AddAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, amount decimal.Decimal, note *string) error {
	customer, err := s.repo.FindByIDForUpdateWithTx(ctx, tx, storeID, customerID)
	if err != nil {
		return err
	}

	entry := &model.WalletEntry{
		StoreID:    storeID,
		CustomerID: customerID,
		Kind:       model.WalletAdvance,
		Amount:     amount,
		Note:       note,
	}
	if err := s.repo.CreateWalletEntryWithTx(ctx, tx, entry); err != nil {
		return err
	}

	return s.repo.UpdateBalancesWithTx(ctx, tx, customerID,
		customer.WalletBalance.Add(amount), customer.DuesBalance)
}

// AdjustAdvanceWithTx moves the wallet by a signed delta under a row
// lock. A positive delta is recorded as an advance; a negative one
// claws the difference back as an adjustment and fails if the wallet
// no longer holds that much.
func (s *customerService) AdjustAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, delta decimal.Decimal, note *string) error {
	if delta.IsZero() {
		return nil
	}
	if delta.GreaterThan(decimal.Zero) {
		return s.AddAdvanceWithTx(ctx, tx, storeID, customerID, delta, note)
	}

	customer, err := s.repo.FindByIDForUpdateWithTx(ctx, tx, storeID, customerID)
	if err != nil {
		return err
	}

	refund := delta.Neg()
	if customer.WalletBalance.LessThan(refund) {
		return model.ErrWalletInsufficient
	}

	entry := &model.WalletEntry{
		StoreID:    storeID,
		CustomerID: customerID,
		Kind:       model.WalletAdjustment,
		Amount:     refund,
		Note:       note,
	}
	if err := s.repo.CreateWalletEntryWithTx(ctx, tx, entry); err != nil {
		return err
	}

	return s.repo.UpdateBalancesWithTx(ctx, tx, customerID,
		customer.WalletBalance.Sub(refund), customer.DuesBalance)
}

// ApplyBillEffectsWithTx records a bill's wallet spend and dues change
// on the ledger and moves the balances, all inside the bill's
// transaction. A positive duesDelta adds dues, a negative one clears.
func (s *customerService) ApplyBillEffectsWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, walletSpend, duesDelta decimal.Decimal, billID uuid.UUID) error {
	customer, err := s.repo.FindByIDForUpdateWithTx(ctx, tx, storeID, customerID)
	if err != nil {
		return err
	}

	wallet := customer.WalletBalance
	dues := customer.DuesBalance

	if walletSpend.GreaterThan(decimal.Zero) {
		if wallet.LessThan(walletSpend) {
			return model.ErrWalletInsufficient
		}
		entry := &model.WalletEntry{
			StoreID:    storeID,
			CustomerID: customerID,
			Kind:       model.WalletSpend,
			Amount:     walletSpend,
			BillID:     &billID,
		}
		if err := s.repo.CreateWalletEntryWithTx(ctx, tx, entry); err != nil {
			return err
		}
		wallet = wallet.Sub(walletSpend)
	}

	if !duesDelta.IsZero() {
		kind := model.WalletDuesAdded
		amount := duesDelta
		if duesDelta.IsNegative() {
			kind = model.WalletDuesCleared
			amount = duesDelta.Neg()
		}
		entry := &model.WalletEntry{
			StoreID:    storeID,
			CustomerID: customerID,
			Kind:       kind,
			Amount:     amount,
			BillID:     &billID,
		}
		if err := s.repo.CreateWalletEntryWithTx(ctx, tx, entry); err != nil {
			return err
		}
		dues = dues.Add(duesDelta)
		if dues.IsNegative() {
			dues = decimal.Zero
		}
	}

	return s.repo.UpdateBalancesWithTx(ctx, tx, customerID, wallet, dues)
}
