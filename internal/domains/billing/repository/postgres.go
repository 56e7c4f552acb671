package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/billing/model"
)

const uniqueViolation = "23505"

// mapDuplicateKey turns a unique-constraint violation into the
// idempotency conflict error; anything else is wrapped with op.
func mapDuplicateKey(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrDuplicateIdempotencyKey
	}
	return fmt.Errorf("%s: %w", op, err)
}

// PostgresRepository implements BillRepository on PostgreSQL.
// Bill writes happen inside a caller-owned transaction so wallet and
// coupon-usage effects commit atomically with the bill.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) BillRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

const billColumns = `
	id, store_id, customer_id, invoice_number,
	sub_total, discount_amount, tax_amount, cgst_amount, sgst_amount,
	grand_total, paid_amount, dues,
	status, coupon_codes, referral_code, idempotency_key, notes,
	created_by, receipt_issued_at, created_at, updated_at`

func scanBill(row pgx.Row) (*model.Bill, error) {
	var b model.Bill
	err := row.Scan(
		&b.ID,
		&b.StoreID,
		&b.CustomerID,
		&b.InvoiceNumber,
		&b.SubTotal,
		&b.DiscountAmount,
		&b.TaxAmount,
		&b.CGSTAmount,
		&b.SGSTAmount,
		&b.GrandTotal,
		&b.PaidAmount,
		&b.Dues,
		&b.Status,
		&b.CouponCodes,
		&b.ReferralCode,
		&b.IdempotencyKey,
		&b.Notes,
		&b.CreatedBy,
		&b.ReceiptIssuedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// -------------------------------------------------------------------
// TRANSACTIONAL WRITES
// -------------------------------------------------------------------

// CreateBillWithTx inserts the bill header. The invoice number comes from
// a per-store sequence row locked inside the same transaction, and the
// partial unique index on (store_id, idempotency_key) is the only
// duplicate detection for client retries.
func (r *PostgresRepository) CreateBillWithTx(ctx context.Context, tx pgx.Tx, bill *model.Bill) error {
	var invoiceNumber int64
	err := tx.QueryRow(ctx, `
		INSERT INTO store_invoice_counters (store_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (store_id)
		DO UPDATE SET last_number = store_invoice_counters.last_number + 1
		RETURNING last_number
	`, bill.StoreID).Scan(&invoiceNumber)
	if err != nil {
		return fmt.Errorf("next invoice number: %w", err)
	}
	bill.InvoiceNumber = invoiceNumber

	query := `
		INSERT INTO bills (
			store_id, customer_id, invoice_number,
			sub_total, discount_amount, tax_amount, cgst_amount, sgst_amount,
			grand_total, paid_amount, dues,
			status, coupon_codes, referral_code, idempotency_key, notes,
			created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		bill.StoreID,
		bill.CustomerID,
		bill.InvoiceNumber,
		bill.SubTotal,
		bill.DiscountAmount,
		bill.TaxAmount,
		bill.CGSTAmount,
		bill.SGSTAmount,
		bill.GrandTotal,
		bill.PaidAmount,
		bill.Dues,
		bill.Status,
		bill.CouponCodes,
		bill.ReferralCode,
		bill.IdempotencyKey,
		bill.Notes,
		bill.CreatedBy,
	).Scan(&bill.ID, &bill.CreatedAt, &bill.UpdatedAt)

	if err != nil {
		return mapDuplicateKey(err, "create bill")
	}
	return nil
}

func (r *PostgresRepository) CreateBillItemsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, items []model.BillItem) error {
	batch := &pgx.Batch{}

	for i := range items {
		item := &items[i]
		item.BillID = billID
		batch.Queue(`
			INSERT INTO bill_items (
				bill_id, line_no, item_id, item_kind, name, staff_id,
				unit_price, quantity, discount_type, discount_value,
				cgst_rate, sgst_rate,
				base_amount, discount_amount, taxable_amount,
				cgst_amount, sgst_amount, tax_amount, total_amount
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19
			)
		`,
			billID, item.LineNo, item.ItemID, item.ItemKind, item.Name, item.StaffID,
			item.UnitPrice, item.Quantity, item.DiscountType, item.DiscountValue,
			item.CGSTRate, item.SGSTRate,
			item.BaseAmount, item.DiscountAmount, item.TaxableAmount,
			item.CGSTAmount, item.SGSTAmount, item.TaxAmount, item.TotalAmount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert bill items: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateBillPaymentsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, payments []model.BillPayment) error {
	batch := &pgx.Batch{}

	for i := range payments {
		p := &payments[i]
		p.BillID = billID
		batch.Queue(`
			INSERT INTO bill_payments (bill_id, mode, amount, reference, paid_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, billID, p.Mode, p.Amount, p.Reference)
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert bill payments: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) UpdateBillTotalsWithTx(ctx context.Context, tx pgx.Tx, billID uuid.UUID, paidAmount, dues decimal.Decimal, status model.BillStatus) error {
	result, err := tx.Exec(ctx, `
		UPDATE bills
		SET paid_amount = $2, dues = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`, billID, paidAmount, dues, status)
	if err != nil {
		return fmt.Errorf("update bill totals: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBillNotFound
	}
	return nil
}

// FindByIDWithTx reads the bill header with a row lock so a concurrent
// payment cannot observe stale totals.
func (r *PostgresRepository) FindByIDWithTx(ctx context.Context, tx pgx.Tx, storeID, billID uuid.UUID) (*model.Bill, error) {
	query := fmt.Sprintf(`SELECT %s FROM bills WHERE store_id = $1 AND id = $2 FOR UPDATE`, billColumns)

	b, err := scanBill(tx.QueryRow(ctx, query, storeID, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBillNotFound
		}
		return nil, fmt.Errorf("find bill for update: %w", err)
	}
	return b, nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, billID uuid.UUID) (*model.Bill, error) {
	query := fmt.Sprintf(`SELECT %s FROM bills WHERE store_id = $1 AND id = $2`, billColumns)

	b, err := scanBill(r.db.QueryRow(ctx, query, storeID, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBillNotFound
		}
		return nil, fmt.Errorf("find bill by id: %w", err)
	}

	if err := r.loadItems(ctx, b); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, b *model.Bill) error {
	rows, err := r.db.Query(ctx, `
		SELECT
			id, bill_id, line_no, item_id, item_kind, name, staff_id,
			unit_price, quantity, discount_type, discount_value,
			cgst_rate, sgst_rate,
			base_amount, discount_amount, taxable_amount,
			cgst_amount, sgst_amount, tax_amount, total_amount
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY line_no
	`, b.ID)
	if err != nil {
		return fmt.Errorf("load bill items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.BillItem
		err := rows.Scan(
			&item.ID, &item.BillID, &item.LineNo, &item.ItemID, &item.ItemKind, &item.Name, &item.StaffID,
			&item.UnitPrice, &item.Quantity, &item.DiscountType, &item.DiscountValue,
			&item.CGSTRate, &item.SGSTRate,
			&item.BaseAmount, &item.DiscountAmount, &item.TaxableAmount,
			&item.CGSTAmount, &item.SGSTAmount, &item.TaxAmount, &item.TotalAmount,
		)
		if err != nil {
			return err
		}
		b.Items = append(b.Items, item)
	}
	return rows.Err()
}

func (r *PostgresRepository) loadPayments(ctx context.Context, b *model.Bill) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, bill_id, mode, amount, reference, paid_at
		FROM bill_payments
		WHERE bill_id = $1
		ORDER BY paid_at
	`, b.ID)
	if err != nil {
		return fmt.Errorf("load bill payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.BillPayment
		if err := rows.Scan(&p.ID, &p.BillID, &p.Mode, &p.Amount, &p.Reference, &p.PaidAt); err != nil {
			return err
		}
		b.Payments = append(b.Payments, p)
	}
	return rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, storeID uuid.UUID, filter *model.ListBillsFilter) ([]model.Bill, int64, error) {
	offset := (filter.Page - 1) * filter.Limit

	whereClauses := []string{"store_id = $1"}
	args := []interface{}{storeID}
	argIndex := 2

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		// End date is inclusive.
		whereClauses = append(whereClauses, fmt.Sprintf("created_at < $%d", argIndex))
		args = append(args, filter.To.Add(24*time.Hour))
		argIndex++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT %s FROM bills
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, billColumns, whereSQL, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bills %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}

	return bills, total, nil
}

// ListForExport loads full bills, items included, for a date range.
func (r *PostgresRepository) ListForExport(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.Bill, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bills
		WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY invoice_number
	`, billColumns)

	rows, err := r.db.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bills for export: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bills {
		if err := r.loadItems(ctx, &bills[i]); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func (r *PostgresRepository) MarkReceiptIssued(ctx context.Context, billID uuid.UUID, at time.Time) error {
	result, err := r.db.Exec(ctx, `
		UPDATE bills
		SET receipt_issued_at = $2, updated_at = NOW()
		WHERE id = $1 AND receipt_issued_at IS NULL
	`, billID, at)
	if err != nil {
		return fmt.Errorf("mark receipt issued: %w", err)
	}
	// Zero rows means a retried task already marked it; not an error.
	_ = result
	return nil
}

// -------------------------------------------------------------------
// HELD BILLS
// -------------------------------------------------------------------

func (r *PostgresRepository) CreateHeld(ctx context.Context, held *model.HeldBill) error {
	query := `
		INSERT INTO held_bills (
			store_id, payload, customer_name, customer_phone,
			amount_estimate, idempotency_key, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		held.StoreID,
		held.Payload,
		held.CustomerName,
		held.CustomerPhone,
		held.AmountEstimate,
		held.IdempotencyKey,
		held.CreatedBy,
	).Scan(&held.ID, &held.CreatedAt)

	if err != nil {
		return mapDuplicateKey(err, "create held bill")
	}
	return nil
}

const heldColumns = `
	id, store_id, payload, customer_name, customer_phone,
	amount_estimate, idempotency_key, created_by, created_at`

func scanHeldBill(row pgx.Row) (*model.HeldBill, error) {
	var h model.HeldBill
	err := row.Scan(
		&h.ID,
		&h.StoreID,
		&h.Payload,
		&h.CustomerName,
		&h.CustomerPhone,
		&h.AmountEstimate,
		&h.IdempotencyKey,
		&h.CreatedBy,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) ListHeld(ctx context.Context, storeID uuid.UUID) ([]model.HeldBill, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM held_bills
		WHERE store_id = $1
		ORDER BY created_at DESC
	`, heldColumns)

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list held bills: %w", err)
	}
	defer rows.Close()

	var held []model.HeldBill
	for rows.Next() {
		h, err := scanHeldBill(rows)
		if err != nil {
			return nil, err
		}
		held = append(held, *h)
	}
	return held, rows.Err()
}

func (r *PostgresRepository) FindHeldByID(ctx context.Context, storeID, heldID uuid.UUID) (*model.HeldBill, error) {
	query := fmt.Sprintf(`SELECT %s FROM held_bills WHERE store_id = $1 AND id = $2`, heldColumns)

	h, err := scanHeldBill(r.db.QueryRow(ctx, query, storeID, heldID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrHeldBillNotFound
		}
		return nil, fmt.Errorf("find held bill: %w", err)
	}
	return h, nil
}

func (r *PostgresRepository) DeleteHeld(ctx context.Context, storeID, heldID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		"DELETE FROM held_bills WHERE store_id = $1 AND id = $2", storeID, heldID)
	if err != nil {
		return fmt.Errorf("delete held bill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrHeldBillNotFound
	}
	return nil
}

// PurgeHeldOlderThan removes abandoned drafts. Run by the worker's
// nightly sweep.
func (r *PostgresRepository) PurgeHeldOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(ctx,
		"DELETE FROM held_bills WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge held bills: %w", err)
	}
	return result.RowsAffected(), nil
}
