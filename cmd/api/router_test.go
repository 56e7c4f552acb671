package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billinghandler "salonsuite-backend/internal/domains/billing/handler"
	"salonsuite-backend/internal/domains/billing/model"
	"salonsuite-backend/pkg/container"
)

// stubBillingService serves a single canned bill for routing tests.
type stubBillingService struct {
	bill *model.Bill
}

func (s *stubBillingService) SaveBill(ctx context.Context, storeID, userID uuid.UUID, idempotencyKey *string, req *model.SaveBillRequest) (*model.Bill, error) {
	return s.bill, nil
}

func (s *stubBillingService) GetBill(ctx context.Context, storeID, billID uuid.UUID) (*model.Bill, error) {
	if s.bill == nil || s.bill.StoreID != storeID || s.bill.ID != billID {
		return nil, model.ErrBillNotFound
	}
	return s.bill, nil
}

func (s *stubBillingService) ListBills(ctx context.Context, storeID uuid.UUID, filter *model.ListBillsFilter) ([]model.Bill, int64, error) {
	return nil, 0, nil
}

func (s *stubBillingService) AddPayment(ctx context.Context, storeID, billID uuid.UUID, req *model.AddPaymentRequest) (*model.Bill, error) {
	return s.bill, nil
}

func (s *stubBillingService) HoldBill(ctx context.Context, storeID, userID uuid.UUID, idempotencyKey *string, req *model.HoldBillRequest) (*model.HeldBill, error) {
	return nil, nil
}

func (s *stubBillingService) ListHeldBills(ctx context.Context, storeID uuid.UUID) ([]model.HeldBill, error) {
	return nil, nil
}

func (s *stubBillingService) GetHeldBill(ctx context.Context, storeID, heldID uuid.UUID) (*model.HeldBill, error) {
	return nil, model.ErrHeldBillNotFound
}

func (s *stubBillingService) DeleteHeldBill(ctx context.Context, storeID, heldID uuid.UUID) error {
	return nil
}

func (s *stubBillingService) MarkReceiptIssued(ctx context.Context, billID uuid.UUID) error {
	return nil
}

func (s *stubBillingService) PurgeStaleHeldBills(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}

func newRoutingContainer(bill *model.Bill) *container.Container {
	return &container.Container{
		BillingHandler: billinghandler.NewHandler(&stubBillingService{bill: bill}, nil),
	}
}

func TestBillReceiptIsPublic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bill := &model.Bill{
		ID:        uuid.New(),
		StoreID:   uuid.New(),
		CreatedAt: time.Now(),
	}
	router := SetupRouter(newRoutingContainer(bill))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/billing/"+bill.StoreID.String()+"/bills/"+bill.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "receipt view must not require a token")
	assert.Contains(t, w.Body.String(), bill.ID.String())
}

func TestBillReceiptIsStoreScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bill := &model.Bill{ID: uuid.New(), StoreID: uuid.New()}
	router := SetupRouter(newRoutingContainer(bill))

	// Same bill id under a different store reads as missing.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/billing/"+uuid.NewString()+"/bills/"+bill.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillWritesStillRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bill := &model.Bill{ID: uuid.New(), StoreID: uuid.New()}
	router := SetupRouter(newRoutingContainer(bill))

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/billing/" + bill.StoreID.String() + "/bills"},
		{http.MethodPost, "/api/v1/billing/" + bill.StoreID.String() + "/bills"},
		{http.MethodPost, "/api/v1/billing/" + bill.StoreID.String() + "/bills/" + bill.ID.String() + "/payments"},
		{http.MethodGet, "/api/v1/billing/" + bill.StoreID.String() + "/bills/held"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
