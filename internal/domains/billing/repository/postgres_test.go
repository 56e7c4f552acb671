package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/billing/model"
)

// stubRow hands Scan off to a closure so a test can script each
// round trip.
type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error { return r.scan(dest...) }

// scriptedTx serves one stubRow per QueryRow call, in order.
type scriptedTx struct {
	pgx.Tx
	rows []stubRow
	call int
}

func (t *scriptedTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	row := t.rows[t.call]
	t.call++
	return row
}

func TestCreateBillWithTx_DuplicateIdempotencyKey(t *testing.T) {
	repo := &PostgresRepository{}

	// Invoice counter advances, then the header insert trips the
	// partial unique index on (store_id, idempotency_key).
	tx := &scriptedTx{rows: []stubRow{
		{scan: func(dest ...any) error {
			*(dest[0].(*int64)) = 42
			return nil
		}},
		{scan: func(dest ...any) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "bills_store_idem_key"}
		}},
	}}

	bill := &model.Bill{StoreID: uuid.New(), CustomerID: uuid.New()}
	err := repo.CreateBillWithTx(context.Background(), tx, bill)

	assert.ErrorIs(t, err, model.ErrDuplicateIdempotencyKey)
	assert.Equal(t, int64(42), bill.InvoiceNumber)
}

func TestCreateBillWithTx_OtherErrorsAreNotConflicts(t *testing.T) {
	repo := &PostgresRepository{}

	tx := &scriptedTx{rows: []stubRow{
		{scan: func(dest ...any) error {
			*(dest[0].(*int64)) = 1
			return nil
		}},
		{scan: func(dest ...any) error {
			return &pgconn.PgError{Code: "23503", ConstraintName: "bills_customer_fk"}
		}},
	}}

	err := repo.CreateBillWithTx(context.Background(), tx, &model.Bill{StoreID: uuid.New()})

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrDuplicateIdempotencyKey)
}

func TestMapDuplicateKey(t *testing.T) {
	t.Run("unique violation maps to the conflict error", func(t *testing.T) {
		err := mapDuplicateKey(&pgconn.PgError{Code: "23505"}, "create held bill")
		assert.ErrorIs(t, err, model.ErrDuplicateIdempotencyKey)
	})

	t.Run("wrapped unique violation still maps", func(t *testing.T) {
		wrapped := errors.Join(errors.New("scan"), &pgconn.PgError{Code: "23505"})
		err := mapDuplicateKey(wrapped, "create held bill")
		assert.ErrorIs(t, err, model.ErrDuplicateIdempotencyKey)
	})

	t.Run("anything else wraps with the operation", func(t *testing.T) {
		err := mapDuplicateKey(errors.New("connection reset"), "create held bill")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrDuplicateIdempotencyKey)
		assert.Contains(t, err.Error(), "create held bill")
	})
}
