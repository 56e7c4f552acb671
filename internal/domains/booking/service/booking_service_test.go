package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/booking/model"
)

// ----- FAKES -----

type fakeTx struct {
	pgx.Tx
	committed bool
	execs     []string
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, sql)
	return pgconn.CommandTag{}, nil
}

type fakeBookingRepo struct {
	tx      *fakeTx
	booking *model.Booking

	created      *model.Booking
	createdItems []model.BookingItem
	itemsDeleted bool
}

func (r *fakeBookingRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	r.tx = &fakeTx{}
	return r.tx, nil
}

func (r *fakeBookingRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	booking.ID = uuid.New()
	r.created = booking
	return nil
}

func (r *fakeBookingRepo) CreateItemsWithTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, items []model.BookingItem) error {
	r.createdItems = items
	return nil
}

func (r *fakeBookingRepo) DeleteItemsWithTx(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID) error {
	r.itemsDeleted = true
	return nil
}

func (r *fakeBookingRepo) UpdateWithTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	return nil
}

func (r *fakeBookingRepo) FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID) (*model.Booking, error) {
	if r.booking == nil {
		return nil, model.ErrBookingNotFound
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Booking, error) {
	if r.booking == nil && r.created == nil {
		return nil, model.ErrBookingNotFound
	}
	if r.booking != nil {
		return r.booking, nil
	}
	return r.created, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, storeID uuid.UUID, filter *model.ListBookingsFilter) ([]model.Booking, int, error) {
	return nil, 0, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, status model.BookingStatus) error {
	return nil
}

type fakeCreditor struct {
	amounts []decimal.Decimal
	deltas  []decimal.Decimal
	err     error
}

func (f *fakeCreditor) AddAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, amount decimal.Decimal, note *string) error {
	f.amounts = append(f.amounts, amount)
	return f.err
}

func (f *fakeCreditor) AdjustAdvanceWithTx(ctx context.Context, tx pgx.Tx, storeID, customerID uuid.UUID, delta decimal.Decimal, note *string) error {
	f.deltas = append(f.deltas, delta)
	return f.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestService() (ServiceInterface, *fakeBookingRepo, *fakeCreditor, *fakeEnqueuer) {
	repo := &fakeBookingRepo{}
	creditor := &fakeCreditor{}
	enqueuer := &fakeEnqueuer{}
	return NewBookingService(repo, creditor, enqueuer), repo, creditor, enqueuer
}

// ----- CREATE -----

func TestCreateBooking_AdvanceCreditsWallet(t *testing.T) {
	svc, repo, creditor, _ := newTestService()

	req := &model.CreateBookingRequest{
		CustomerID:    uuid.New(),
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		AdvanceAmount: 200,
		Items: []model.BookingItemRequest{
			{ServiceID: uuid.New(), Name: "Haircut", Price: 300},
		},
	}

	booking, err := svc.CreateBooking(context.Background(), uuid.New(), uuid.New(), req)

	require.NoError(t, err)
	assert.Equal(t, model.StatusRequested, booking.Status)
	assert.Len(t, booking.Items, 1)

	require.Len(t, creditor.amounts, 1, "advance credited inside the booking tx")
	assert.True(t, creditor.amounts[0].Equal(decimal.NewFromInt(200)))
	assert.True(t, repo.tx.committed)
}

func TestCreateBooking_PastScheduleRejected(t *testing.T) {
	svc, repo, _, _ := newTestService()

	req := &model.CreateBookingRequest{
		CustomerID:  uuid.New(),
		ScheduledAt: time.Now().Add(-time.Hour),
		Items: []model.BookingItemRequest{
			{ServiceID: uuid.New(), Name: "Haircut", Price: 300},
		},
	}

	_, err := svc.CreateBooking(context.Background(), uuid.New(), uuid.New(), req)

	assert.ErrorIs(t, err, model.ErrPastSchedule)
	assert.Nil(t, repo.created)
}

func TestCreateBooking_NoAdvanceNoLedgerCall(t *testing.T) {
	svc, _, creditor, _ := newTestService()

	req := &model.CreateBookingRequest{
		CustomerID:  uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
		Items: []model.BookingItemRequest{
			{ServiceID: uuid.New(), Name: "Haircut", Price: 300},
		},
	}

	_, err := svc.CreateBooking(context.Background(), uuid.New(), uuid.New(), req)

	require.NoError(t, err)
	assert.Empty(t, creditor.amounts)
}

// ----- STATUS -----

func TestUpdateStatus_ConfirmSchedulesReminder(t *testing.T) {
	svc, repo, _, enqueuer := newTestService()
	storeID := uuid.New()

	repo.booking = &model.Booking{
		ID:          uuid.New(),
		StoreID:     storeID,
		CustomerID:  uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      model.StatusRequested,
	}

	_, err := svc.UpdateStatus(context.Background(), storeID, repo.booking.ID, model.StatusConfirmed)

	require.NoError(t, err)
	assert.True(t, repo.tx.committed)
	require.Len(t, enqueuer.tasks, 1)
}

func TestUpdateStatus_ReminderSkippedWhenSlotIsNear(t *testing.T) {
	svc, repo, _, enqueuer := newTestService()
	storeID := uuid.New()

	// Less than the reminder lead away; the fire time would be in the past.
	repo.booking = &model.Booking{
		ID:          uuid.New(),
		StoreID:     storeID,
		CustomerID:  uuid.New(),
		ScheduledAt: time.Now().Add(30 * time.Minute),
		Status:      model.StatusRequested,
	}

	_, err := svc.UpdateStatus(context.Background(), storeID, repo.booking.ID, model.StatusConfirmed)

	require.NoError(t, err)
	assert.Empty(t, enqueuer.tasks)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc, repo, _, enqueuer := newTestService()
	storeID := uuid.New()

	repo.booking = &model.Booking{
		ID:         uuid.New(),
		StoreID:    storeID,
		CustomerID: uuid.New(),
		Status:     model.StatusCompleted,
	}

	_, err := svc.UpdateStatus(context.Background(), storeID, repo.booking.ID, model.StatusCancelled)

	require.Error(t, err)
	appErr, ok := err.(*model.AppError)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeInvalidTransition, appErr.Code)
	assert.False(t, repo.tx.committed)
	assert.Empty(t, enqueuer.tasks)
}

// ----- UPDATE -----

func TestUpdateBooking_FinalBookingRejected(t *testing.T) {
	svc, repo, _, _ := newTestService()
	storeID := uuid.New()

	repo.booking = &model.Booking{
		ID:         uuid.New(),
		StoreID:    storeID,
		CustomerID: uuid.New(),
		Status:     model.StatusCompleted,
	}

	notes := "changed my mind"
	_, err := svc.UpdateBooking(context.Background(), storeID, repo.booking.ID, &model.UpdateBookingRequest{
		Notes: &notes,
	})

	require.Error(t, err)
	appErr, ok := err.(*model.AppError)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeBookingFinal, appErr.Code)
}

func TestUpdateBooking_ItemsReplacedWholesale(t *testing.T) {
	svc, repo, _, _ := newTestService()
	storeID := uuid.New()

	repo.booking = &model.Booking{
		ID:          uuid.New(),
		StoreID:     storeID,
		CustomerID:  uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      model.StatusRequested,
	}

	_, err := svc.UpdateBooking(context.Background(), storeID, repo.booking.ID, &model.UpdateBookingRequest{
		Items: []model.BookingItemRequest{
			{ServiceID: uuid.New(), Name: "Shave", Price: 150},
		},
	})

	require.NoError(t, err)
	assert.True(t, repo.itemsDeleted)
	assert.Len(t, repo.createdItems, 1)
	assert.Equal(t, "Shave", repo.createdItems[0].Name)
}

func TestUpdateBooking_AdvanceDeltaMovesWallet(t *testing.T) {
	storeID := uuid.New()

	t.Run("raised advance credits the difference", func(t *testing.T) {
		svc, repo, creditor, _ := newTestService()
		repo.booking = &model.Booking{
			ID:            uuid.New(),
			StoreID:       storeID,
			CustomerID:    uuid.New(),
			ScheduledAt:   time.Now().Add(24 * time.Hour),
			Status:        model.StatusRequested,
			AdvanceAmount: decimal.NewFromInt(200),
		}

		newAdvance := 500.0
		_, err := svc.UpdateBooking(context.Background(), storeID, repo.booking.ID, &model.UpdateBookingRequest{
			AdvanceAmount: &newAdvance,
		})

		require.NoError(t, err)
		require.Len(t, creditor.deltas, 1)
		assert.True(t, creditor.deltas[0].Equal(decimal.NewFromInt(300)), "delta = %s", creditor.deltas[0])
		assert.True(t, repo.booking.AdvanceAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, repo.tx.committed)
	})

	t.Run("lowered advance claws the difference back", func(t *testing.T) {
		svc, repo, creditor, _ := newTestService()
		repo.booking = &model.Booking{
			ID:            uuid.New(),
			StoreID:       storeID,
			CustomerID:    uuid.New(),
			ScheduledAt:   time.Now().Add(24 * time.Hour),
			Status:        model.StatusConfirmed,
			AdvanceAmount: decimal.NewFromInt(500),
		}

		newAdvance := 200.0
		_, err := svc.UpdateBooking(context.Background(), storeID, repo.booking.ID, &model.UpdateBookingRequest{
			AdvanceAmount: &newAdvance,
		})

		require.NoError(t, err)
		require.Len(t, creditor.deltas, 1)
		assert.True(t, creditor.deltas[0].Equal(decimal.NewFromInt(-300)), "delta = %s", creditor.deltas[0])
	})

	t.Run("unchanged advance skips the ledger", func(t *testing.T) {
		svc, repo, creditor, _ := newTestService()
		repo.booking = &model.Booking{
			ID:            uuid.New(),
			StoreID:       storeID,
			CustomerID:    uuid.New(),
			ScheduledAt:   time.Now().Add(24 * time.Hour),
			Status:        model.StatusRequested,
			AdvanceAmount: decimal.NewFromInt(200),
		}

		sameAdvance := 200.0
		_, err := svc.UpdateBooking(context.Background(), storeID, repo.booking.ID, &model.UpdateBookingRequest{
			AdvanceAmount: &sameAdvance,
		})

		require.NoError(t, err)
		assert.Empty(t, creditor.deltas)
	})

	t.Run("ledger failure aborts the update", func(t *testing.T) {
		svc, repo, creditor, _ := newTestService()
		creditor.err = context.DeadlineExceeded
		repo.booking = &model.Booking{
			ID:            uuid.New(),
			StoreID:       storeID,
			CustomerID:    uuid.New(),
			ScheduledAt:   time.Now().Add(24 * time.Hour),
			Status:        model.StatusRequested,
			AdvanceAmount: decimal.NewFromInt(500),
		}

		newAdvance := 100.0
		_, err := svc.UpdateBooking(context.Background(), storeID, repo.booking.ID, &model.UpdateBookingRequest{
			AdvanceAmount: &newAdvance,
		})

		require.Error(t, err)
		assert.False(t, repo.tx.committed)
	})
}
