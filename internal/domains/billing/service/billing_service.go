package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/billing/model"
	"salonsuite-backend/internal/domains/billing/repository"
	couponmodel "salonsuite-backend/internal/domains/coupon/model"
	couponservice "salonsuite-backend/internal/domains/coupon/service"
	"salonsuite-backend/internal/infrastructure/queue"
	"salonsuite-backend/internal/shared"
	"salonsuite-backend/pkg/logger"
)

type billingService struct {
	repo       repository.BillRepository
	calculator *BillCalculator
	coupons    CouponResolver
	customers  CustomerBiller
	enqueuer   queue.Enqueuer
}

func NewBillingService(
	repo repository.BillRepository,
	calculator *BillCalculator,
	coupons CouponResolver,
	customers CustomerBiller,
	enqueuer queue.Enqueuer,
) ServiceInterface {
	return &billingService{
		repo:       repo,
		calculator: calculator,
		coupons:    coupons,
		customers:  customers,
		enqueuer:   enqueuer,
	}
}

// -------------------------------------------------------------------
// SAVE BILL
// -------------------------------------------------------------------

// SaveBill computes every line, resolves coupons against the pre-tax
// discounted subtotal, then persists the bill, its lines, payments,
// coupon usage and customer ledger effects in one transaction. The
// receipt task is enqueued only after the commit.
func (s *billingService) SaveBill(ctx context.Context, storeID, userID uuid.UUID, idempotencyKey *string, req *model.SaveBillRequest) (*model.Bill, error) {
	items := make([]model.BillItem, 0, len(req.Items))
	var (
		subTotal      decimal.Decimal
		lineDiscounts decimal.Decimal
		cgstTotal     decimal.Decimal
		sgstTotal     decimal.Decimal
		lineTotalSum  decimal.Decimal
	)

	for i, line := range req.Items {
		item := s.calculator.BuildBillItem(i+1, line)
		items = append(items, item)

		subTotal = subTotal.Add(item.BaseAmount)
		lineDiscounts = lineDiscounts.Add(item.DiscountAmount)
		cgstTotal = cgstTotal.Add(item.CGSTAmount)
		sgstTotal = sgstTotal.Add(item.SGSTAmount)
		lineTotalSum = lineTotalSum.Add(item.TotalAmount)
	}

	order := couponservice.OrderContext{
		CustomerID:    req.CustomerID,
		ServiceIDs:    itemIDsOfKind(items, "service"),
		ProductIDs:    itemIDsOfKind(items, "product"),
		MembershipIDs: itemIDsOfKind(items, "membership"),
		AsOf:          time.Now(),
	}

	// Coupons resolve against the pre-tax subtotal net of line discounts.
	// Multiple codes apply sequentially, each against what the previous
	// one left.
	running := subTotal.Sub(lineDiscounts)
	var couponDiscount decimal.Decimal
	var resolved []*couponmodel.CouponResult

	for _, code := range req.CouponCodes {
		order.Amount = running
		result, err := s.coupons.ResolveForOrder(ctx, storeID, code, order)
		if err != nil {
			return nil, err
		}
		couponDiscount = couponDiscount.Add(result.DiscountAmount)
		running = result.FinalAmount
		resolved = append(resolved, result)
	}

	grandTotal := lineTotalSum.Sub(couponDiscount)
	if grandTotal.IsNegative() {
		grandTotal = decimal.Zero
	}

	var paidAmount decimal.Decimal
	var walletSpend decimal.Decimal
	payments := make([]model.BillPayment, 0, len(req.Payments))
	for _, p := range req.Payments {
		amount := decimal.NewFromFloat(p.Amount)
		paidAmount = paidAmount.Add(amount)
		if p.Mode == "wallet" {
			walletSpend = walletSpend.Add(amount)
		}
		payments = append(payments, model.BillPayment{
			Mode:      p.Mode,
			Amount:    amount,
			Reference: p.Reference,
		})
	}

	dues := grandTotal.Sub(paidAmount)
	if dues.IsNegative() {
		dues = decimal.Zero
	}

	bill := &model.Bill{
		StoreID:        storeID,
		CustomerID:     req.CustomerID,
		SubTotal:       subTotal,
		DiscountAmount: lineDiscounts.Add(couponDiscount),
		TaxAmount:      cgstTotal.Add(sgstTotal),
		CGSTAmount:     cgstTotal,
		SGSTAmount:     sgstTotal,
		GrandTotal:     grandTotal,
		PaidAmount:     paidAmount,
		Dues:           dues,
		Status:         model.DeriveBillStatus(grandTotal, paidAmount),
		CouponCodes:    req.CouponCodes,
		ReferralCode:   req.ReferralCode,
		IdempotencyKey: idempotencyKey,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.CreateBillWithTx(ctx, tx, bill); err != nil {
		return nil, err
	}
	if err := s.repo.CreateBillItemsWithTx(ctx, tx, bill.ID, items); err != nil {
		return nil, err
	}
	if err := s.repo.CreateBillPaymentsWithTx(ctx, tx, bill.ID, payments); err != nil {
		return nil, err
	}

	for _, result := range resolved {
		usage := &couponmodel.CouponUsage{
			CouponID:       result.CouponID,
			StoreID:        storeID,
			CustomerID:     req.CustomerID,
			BillID:         bill.ID,
			DiscountAmount: result.DiscountAmount,
		}
		if err := s.coupons.RecordUsageWithTx(ctx, tx, usage); err != nil {
			return nil, err
		}
	}

	if !walletSpend.IsZero() || !dues.IsZero() {
		if err := s.customers.ApplyBillEffectsWithTx(ctx, tx, storeID, req.CustomerID, walletSpend, dues, bill.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	bill.Items = items
	bill.Payments = payments

	s.enqueueReceipt(ctx, storeID, bill.ID)

	return bill, nil
}

func itemIDsOfKind(items []model.BillItem, kind string) []uuid.UUID {
	var ids []uuid.UUID
	for _, item := range items {
		if item.ItemKind == kind {
			ids = append(ids, item.ItemID)
		}
	}
	return ids
}

// enqueueReceipt is best effort: a failed enqueue never fails the bill.
func (s *billingService) enqueueReceipt(ctx context.Context, storeID, billID uuid.UUID) {
	payload, err := json.Marshal(shared.IssueReceiptPayload{StoreID: storeID, BillID: billID})
	if err != nil {
		logger.Error("marshal receipt payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeIssueReceipt, payload)
	if _, err := s.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(5),
	); err != nil {
		logger.ErrorWithFields("enqueue receipt task", err, map[string]interface{}{
			"billId": billID.String(),
		})
	}
}

// -------------------------------------------------------------------
// READS
// -------------------------------------------------------------------

func (s *billingService) GetBill(ctx context.Context, storeID, billID uuid.UUID) (*model.Bill, error) {
	return s.repo.FindByID(ctx, storeID, billID)
}

func (s *billingService) ListBills(ctx context.Context, storeID uuid.UUID, filter *model.ListBillsFilter) ([]model.Bill, int64, error) {
	filter.Normalize()
	return s.repo.List(ctx, storeID, filter)
}

// -------------------------------------------------------------------
// ADD PAYMENT
// -------------------------------------------------------------------

// AddPayment appends a payment and rewrites the stored totals under a
// row lock. Payments above the outstanding dues are accepted; dues
// floor at zero.
func (s *billingService) AddPayment(ctx context.Context, storeID, billID uuid.UUID, req *model.AddPaymentRequest) (*model.Bill, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bill, err := s.repo.FindByIDWithTx(ctx, tx, storeID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status == model.BillStatusCancelled {
		return nil, model.ErrBillCancelled
	}

	amount := decimal.NewFromFloat(req.Amount)
	payment := model.BillPayment{
		Mode:      req.Mode,
		Amount:    amount,
		Reference: req.Reference,
	}
	if err := s.repo.CreateBillPaymentsWithTx(ctx, tx, billID, []model.BillPayment{payment}); err != nil {
		return nil, err
	}

	newPaid := bill.PaidAmount.Add(amount)
	newDues := bill.GrandTotal.Sub(newPaid)
	if newDues.IsNegative() {
		newDues = decimal.Zero
	}
	newStatus := model.DeriveBillStatus(bill.GrandTotal, newPaid)

	if err := s.repo.UpdateBillTotalsWithTx(ctx, tx, billID, newPaid, newDues, newStatus); err != nil {
		return nil, err
	}

	duesDelta := newDues.Sub(bill.Dues)
	var walletSpend decimal.Decimal
	if req.Mode == "wallet" {
		walletSpend = amount
	}
	if !walletSpend.IsZero() || !duesDelta.IsZero() {
		if err := s.customers.ApplyBillEffectsWithTx(ctx, tx, storeID, bill.CustomerID, walletSpend, duesDelta, billID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, storeID, billID)
}

// -------------------------------------------------------------------
// HELD BILLS
// -------------------------------------------------------------------

func (s *billingService) HoldBill(ctx context.Context, storeID, userID uuid.UUID, idempotencyKey *string, req *model.HoldBillRequest) (*model.HeldBill, error) {
	held := &model.HeldBill{
		StoreID:        storeID,
		Payload:        req.Payload,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		AmountEstimate: decimal.NewFromFloat(req.AmountEstimate),
		IdempotencyKey: idempotencyKey,
		CreatedBy:      userID,
	}
	if err := s.repo.CreateHeld(ctx, held); err != nil {
		return nil, err
	}
	return held, nil
}

func (s *billingService) ListHeldBills(ctx context.Context, storeID uuid.UUID) ([]model.HeldBill, error) {
	return s.repo.ListHeld(ctx, storeID)
}

func (s *billingService) GetHeldBill(ctx context.Context, storeID, heldID uuid.UUID) (*model.HeldBill, error) {
	return s.repo.FindHeldByID(ctx, storeID, heldID)
}

func (s *billingService) DeleteHeldBill(ctx context.Context, storeID, heldID uuid.UUID) error {
	return s.repo.DeleteHeld(ctx, storeID, heldID)
}

// -------------------------------------------------------------------
// MAINTENANCE
// -------------------------------------------------------------------

func (s *billingService) MarkReceiptIssued(ctx context.Context, billID uuid.UUID) error {
	return s.repo.MarkReceiptIssued(ctx, billID, time.Now())
}

func (s *billingService) PurgeStaleHeldBills(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 1 {
		retentionDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	purged, err := s.repo.PurgeHeldOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		logger.Info("purged stale held bills", map[string]interface{}{
			"count": purged,
		})
	}
	return purged, nil
}
