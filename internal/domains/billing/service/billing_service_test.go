package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/billing/model"
	couponmodel "salonsuite-backend/internal/domains/coupon/model"
	couponservice "salonsuite-backend/internal/domains/coupon/service"
)

// ----- FAKES -----

// fakeTx satisfies pgx.Tx through embedding; only Commit and Rollback
// are exercised by the service.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeBillRepo struct {
	tx *fakeTx

	createdBill  *model.Bill
	createdItems []model.BillItem
	payments     []model.BillPayment

	billByID *model.Bill

	updatedPaid   decimal.Decimal
	updatedDues   decimal.Decimal
	updatedStatus model.BillStatus
}

func (r *fakeBillRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.tx = &fakeTx{}
	return r.tx, nil
}

func (r *fakeBillRepo) CreateBillWithTx(ctx context.Context, tx pgx.Tx, bill *model.Bill) error {
	bill.ID = uuid.New()
	bill.InvoiceNumber = 1
	r.createdBill = bill
	return nil
}

func (r *fakeBillRepo) CreateBillItemsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, items []model.BillItem) error {
	r.createdItems = items
	return nil
}

func (r *fakeBillRepo) CreateBillPaymentsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, payments []model.BillPayment) error {
	r.payments = append(r.payments, payments...)
	return nil
}

func (r *fakeBillRepo) UpdateBillTotalsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, paidAmount, dues decimal.Decimal, status model.BillStatus) error {
	r.updatedPaid = paidAmount
	r.updatedDues = dues
	r.updatedStatus = status
	return nil
}

func (r *fakeBillRepo) FindByIDWithTx(ctx context.Context, tx pgx.Tx, storeID, billID uuid.UUID) (*model.Bill, error) {
	if r.billByID == nil {
		return nil, model.ErrBillNotFound
	}
	return r.billByID, nil
}

func (r *fakeBillRepo) FindByID(ctx context.Context, storeID, billID uuid.UUID) (*model.Bill, error) {
	if r.billByID == nil {
		return nil, model.ErrBillNotFound
	}
	return r.billByID, nil
}

func (r *fakeBillRepo) List(ctx context.Context, storeID uuid.UUID, filter *model.ListBillsFilter) ([]model.Bill, int64, error) {
	return nil, 0, nil
}

func (r *fakeBillRepo) ListForExport(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.Bill, error) {
	return nil, nil
}

func (r *fakeBillRepo) MarkReceiptIssued(ctx context.Context, billID uuid.UUID, at time.Time) error {
	return nil
}

func (r *fakeBillRepo) CreateHeld(ctx context.Context, held *model.HeldBill) error {
	held.ID = uuid.New()
	return nil
}

func (r *fakeBillRepo) ListHeld(ctx context.Context, storeID uuid.UUID) ([]model.HeldBill, error) {
	return nil, nil
}

func (r *fakeBillRepo) FindHeldByID(ctx context.Context, storeID, heldID uuid.UUID) (*model.HeldBill, error) {
	return nil, model.ErrHeldBillNotFound
}

func (r *fakeBillRepo) DeleteHeld(ctx context.Context, storeID, heldID uuid.UUID) error {
	return nil
}

func (r *fakeBillRepo) PurgeHeldOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeCoupons struct {
	results map[string]*couponmodel.CouponResult
	seen    []decimal.Decimal // order amounts passed in, in call order
	usages  []*couponmodel.CouponUsage
}

func (f *fakeCoupons) ResolveForOrder(ctx context.Context, storeID uuid.UUID, code string, order couponservice.OrderContext) (*couponmodel.CouponResult, error) {
	f.seen = append(f.seen, order.Amount)
	result, ok := f.results[code]
	if !ok {
		return nil, couponmodel.ErrCouponNotFound
	}
	return result, nil
}

func (f *fakeCoupons) RecordUsageWithTx(ctx context.Context, tx pgx.Tx, usage *couponmodel.CouponUsage) error {
	f.usages = append(f.usages, usage)
	return nil
}

type fakeCustomers struct {
	calls []billEffects
}

type billEffects struct {
	customerID  uuid.UUID
	walletSpend decimal.Decimal
	duesDelta   decimal.Decimal
}

func (f *fakeCustomers) ApplyBillEffectsWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, walletSpend, duesDelta decimal.Decimal, billID uuid.UUID) error {
	f.calls = append(f.calls, billEffects{customerID: customerID, walletSpend: walletSpend, duesDelta: duesDelta})
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestService() (*billingService, *fakeBillRepo, *fakeCoupons, *fakeCustomers, *fakeEnqueuer) {
	repo := &fakeBillRepo{}
	coupons := &fakeCoupons{results: map[string]*couponmodel.CouponResult{}}
	customers := &fakeCustomers{}
	enqueuer := &fakeEnqueuer{}

	svc := NewBillingService(repo, NewBillCalculator(), coupons, customers, enqueuer).(*billingService)
	return svc, repo, coupons, customers, enqueuer
}

func lineReq(price float64, qty int) model.BillLineRequest {
	return model.BillLineRequest{
		ItemID:    uuid.New(),
		ItemKind:  "service",
		Name:      "Haircut",
		UnitPrice: price,
		Quantity:  qty,
	}
}

// ----- SAVE BILL -----

func TestSaveBill_TotalsAndStatus(t *testing.T) {
	svc, repo, _, _, enqueuer := newTestService()
	storeID, userID := uuid.New(), uuid.New()

	req := &model.SaveBillRequest{
		CustomerID: uuid.New(),
		Items:      []model.BillLineRequest{lineReq(100, 2), lineReq(50, 1)},
		Payments:   []model.PaymentRequest{{Mode: "cash", Amount: 100}},
	}

	bill, err := svc.SaveBill(context.Background(), storeID, userID, nil, req)

	require.NoError(t, err)
	assert.True(t, d("250").Equal(bill.SubTotal), "subtotal = %s", bill.SubTotal)
	assert.True(t, d("250").Equal(bill.GrandTotal))
	assert.True(t, d("100").Equal(bill.PaidAmount))
	assert.True(t, d("150").Equal(bill.Dues))
	assert.Equal(t, model.BillStatusPartial, bill.Status)
	assert.Len(t, bill.Items, 2)

	require.NotNil(t, repo.tx)
	assert.True(t, repo.tx.committed)
	assert.Len(t, enqueuer.tasks, 1, "receipt task enqueued after commit")
}

func TestSaveBill_CouponsApplySequentially(t *testing.T) {
	svc, _, coupons, _, _ := newTestService()
	storeID := uuid.New()

	coupons.results["FIRST"] = &couponmodel.CouponResult{
		CouponID:       uuid.New(),
		Code:           "FIRST",
		DiscountAmount: d("50"),
		FinalAmount:    d("150"),
	}
	coupons.results["SECOND"] = &couponmodel.CouponResult{
		CouponID:       uuid.New(),
		Code:           "SECOND",
		DiscountAmount: d("15"),
		FinalAmount:    d("135"),
	}

	req := &model.SaveBillRequest{
		CustomerID:  uuid.New(),
		Items:       []model.BillLineRequest{lineReq(200, 1)},
		CouponCodes: []string{"FIRST", "SECOND"},
	}

	bill, err := svc.SaveBill(context.Background(), storeID, uuid.New(), nil, req)

	require.NoError(t, err)
	// The second coupon sees what the first one left.
	require.Len(t, coupons.seen, 2)
	assert.True(t, d("200").Equal(coupons.seen[0]))
	assert.True(t, d("150").Equal(coupons.seen[1]))

	assert.True(t, d("65").Equal(bill.DiscountAmount))
	assert.True(t, d("135").Equal(bill.GrandTotal))
	assert.Len(t, coupons.usages, 2, "one usage row per coupon inside the tx")
}

func TestSaveBill_CouponFailureAbortsBill(t *testing.T) {
	svc, repo, _, _, enqueuer := newTestService()

	req := &model.SaveBillRequest{
		CustomerID:  uuid.New(),
		Items:       []model.BillLineRequest{lineReq(200, 1)},
		CouponCodes: []string{"NOPE"},
	}

	_, err := svc.SaveBill(context.Background(), uuid.New(), uuid.New(), nil, req)

	require.Error(t, err)
	assert.Nil(t, repo.createdBill, "nothing persisted when a coupon fails")
	assert.Empty(t, enqueuer.tasks)
}

func TestSaveBill_WalletAndDuesReachCustomerLedger(t *testing.T) {
	svc, _, _, customers, _ := newTestService()

	req := &model.SaveBillRequest{
		CustomerID: uuid.New(),
		Items:      []model.BillLineRequest{lineReq(300, 1)},
		Payments: []model.PaymentRequest{
			{Mode: "wallet", Amount: 100},
			{Mode: "cash", Amount: 50},
		},
	}

	bill, err := svc.SaveBill(context.Background(), uuid.New(), uuid.New(), nil, req)

	require.NoError(t, err)
	assert.True(t, d("150").Equal(bill.Dues))

	require.Len(t, customers.calls, 1)
	assert.Equal(t, req.CustomerID, customers.calls[0].customerID)
	assert.True(t, d("100").Equal(customers.calls[0].walletSpend))
	assert.True(t, d("150").Equal(customers.calls[0].duesDelta))
}

func TestSaveBill_OverpaymentFloorsDuesAtZero(t *testing.T) {
	svc, _, _, customers, _ := newTestService()

	req := &model.SaveBillRequest{
		CustomerID: uuid.New(),
		Items:      []model.BillLineRequest{lineReq(100, 1)},
		Payments:   []model.PaymentRequest{{Mode: "cash", Amount: 150}},
	}

	bill, err := svc.SaveBill(context.Background(), uuid.New(), uuid.New(), nil, req)

	require.NoError(t, err)
	assert.True(t, bill.Dues.IsZero())
	assert.Equal(t, model.BillStatusPaid, bill.Status)
	assert.Empty(t, customers.calls, "no ledger effects without wallet spend or dues")
}

// ----- ADD PAYMENT -----

func TestAddPayment_RecomputesTotals(t *testing.T) {
	svc, repo, _, customers, _ := newTestService()
	storeID, billID := uuid.New(), uuid.New()

	repo.billByID = &model.Bill{
		ID:         billID,
		StoreID:    storeID,
		CustomerID: uuid.New(),
		GrandTotal: d("500"),
		PaidAmount: d("200"),
		Dues:       d("300"),
		Status:     model.BillStatusPartial,
	}

	_, err := svc.AddPayment(context.Background(), storeID, billID, &model.AddPaymentRequest{
		Mode:   "cash",
		Amount: 300,
	})

	require.NoError(t, err)
	assert.True(t, d("500").Equal(repo.updatedPaid))
	assert.True(t, repo.updatedDues.IsZero())
	assert.Equal(t, model.BillStatusPaid, repo.updatedStatus)

	// Clearing 300 of dues lands as a negative delta on the ledger.
	require.Len(t, customers.calls, 1)
	assert.True(t, d("-300").Equal(customers.calls[0].duesDelta))
	assert.True(t, repo.tx.committed)
}

func TestAddPayment_CancelledBillRejected(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	storeID, billID := uuid.New(), uuid.New()

	repo.billByID = &model.Bill{
		ID:         billID,
		StoreID:    storeID,
		CustomerID: uuid.New(),
		GrandTotal: d("500"),
		Status:     model.BillStatusCancelled,
	}

	_, err := svc.AddPayment(context.Background(), storeID, billID, &model.AddPaymentRequest{
		Mode:   "cash",
		Amount: 100,
	})

	assert.ErrorIs(t, err, model.ErrBillCancelled)
	assert.True(t, repo.tx.rolledBack)
}
