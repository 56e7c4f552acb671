package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/customer/model"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeTx struct {
	pgx.Tx
	committed bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeCustomerRepo struct {
	customer *model.Customer
	entries  []*model.WalletEntry

	savedWallet decimal.Decimal
	savedDues   decimal.Decimal
	balancesSet bool
}

func (r *fakeCustomerRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	customer.ID = uuid.New()
	return nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Customer, error) {
	if r.customer == nil {
		return nil, model.ErrCustomerNotFound
	}
	return r.customer, nil
}

func (r *fakeCustomerRepo) FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*model.Customer, error) {
	return nil, model.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) List(ctx context.Context, storeID uuid.UUID, filter *model.ListCustomersFilter) ([]model.Customer, int, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID) (*model.Customer, error) {
	if r.customer == nil {
		return nil, model.ErrCustomerNotFound
	}
	return r.customer, nil
}

func (r *fakeCustomerRepo) CreateWalletEntryWithTx(ctx context.Context, tx pgx.Tx, entry *model.WalletEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeCustomerRepo) UpdateBalancesWithTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, wallet, dues decimal.Decimal) error {
	r.savedWallet = wallet
	r.savedDues = dues
	r.balancesSet = true
	return nil
}

func (r *fakeCustomerRepo) ListWalletEntries(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]model.WalletEntry, int, error) {
	return nil, 0, nil
}

func customerWith(wallet, dues string) *model.Customer {
	return &model.Customer{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		Name:          "Asha",
		Phone:         "+919800000000",
		WalletBalance: d(wallet),
		DuesBalance:   d(dues),
	}
}

func TestApplyBillEffects_WalletSpendAndDuesAdded(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("500", "0")}
	svc := NewCustomerService(repo).(*customerService)
	billID := uuid.New()

	err := svc.ApplyBillEffectsWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, d("200"), d("150"), billID)

	require.NoError(t, err)
	assert.True(t, d("300").Equal(repo.savedWallet), "wallet = %s", repo.savedWallet)
	assert.True(t, d("150").Equal(repo.savedDues))

	require.Len(t, repo.entries, 2)
	assert.Equal(t, model.WalletSpend, repo.entries[0].Kind)
	assert.True(t, d("200").Equal(repo.entries[0].Amount))
	require.NotNil(t, repo.entries[0].BillID)
	assert.Equal(t, billID, *repo.entries[0].BillID)

	assert.Equal(t, model.WalletDuesAdded, repo.entries[1].Kind)
	assert.True(t, d("150").Equal(repo.entries[1].Amount))
}

func TestApplyBillEffects_InsufficientWallet(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("50", "0")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.ApplyBillEffectsWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, d("200"), decimal.Zero, uuid.New())

	assert.ErrorIs(t, err, model.ErrWalletInsufficient)
	assert.Empty(t, repo.entries)
	assert.False(t, repo.balancesSet)
}

func TestApplyBillEffects_NegativeDeltaClearsDues(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("0", "300")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.ApplyBillEffectsWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, decimal.Zero, d("-300"), uuid.New())

	require.NoError(t, err)
	assert.True(t, repo.savedDues.IsZero())

	require.Len(t, repo.entries, 1)
	assert.Equal(t, model.WalletDuesCleared, repo.entries[0].Kind)
	assert.True(t, d("300").Equal(repo.entries[0].Amount), "ledger records the cleared amount as positive")
}

func TestApplyBillEffects_DuesNeverGoNegative(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("0", "100")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.ApplyBillEffectsWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, decimal.Zero, d("-250"), uuid.New())

	require.NoError(t, err)
	assert.True(t, repo.savedDues.IsZero())
}

func TestAddAdvance_CreditsWallet(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("100", "0")}
	svc := NewCustomerService(repo)

	_, err := svc.AddAdvance(context.Background(), repo.customer.StoreID, repo.customer.ID,
		&model.AddAdvanceRequest{Amount: 250})

	require.NoError(t, err)
	assert.True(t, d("350").Equal(repo.savedWallet))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, model.WalletAdvance, repo.entries[0].Kind)
}

func TestAdjustAdvance_PositiveDeltaRecordsAdvance(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("100", "0")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.AdjustAdvanceWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, d("300"), nil)

	require.NoError(t, err)
	assert.True(t, d("400").Equal(repo.savedWallet))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, model.WalletAdvance, repo.entries[0].Kind)
	assert.True(t, d("300").Equal(repo.entries[0].Amount))
}

func TestAdjustAdvance_NegativeDeltaClawsBack(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("500", "0")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.AdjustAdvanceWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, d("-300"), nil)

	require.NoError(t, err)
	assert.True(t, d("200").Equal(repo.savedWallet))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, model.WalletAdjustment, repo.entries[0].Kind)
	assert.True(t, d("300").Equal(repo.entries[0].Amount), "ledger records the refund as positive")
}

func TestAdjustAdvance_RefundLargerThanWalletRejected(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("100", "0")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.AdjustAdvanceWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, d("-300"), nil)

	assert.ErrorIs(t, err, model.ErrWalletInsufficient)
	assert.Empty(t, repo.entries)
	assert.False(t, repo.balancesSet)
}

func TestAdjustAdvance_ZeroDeltaIsNoOp(t *testing.T) {
	repo := &fakeCustomerRepo{customer: customerWith("100", "0")}
	svc := NewCustomerService(repo).(*customerService)

	err := svc.AdjustAdvanceWithTx(context.Background(), &fakeTx{},
		repo.customer.StoreID, repo.customer.ID, decimal.Zero, nil)

	require.NoError(t, err)
	assert.Empty(t, repo.entries)
	assert.False(t, repo.balancesSet)
}
