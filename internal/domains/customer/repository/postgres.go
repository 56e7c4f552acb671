package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/customer/model"
)

const uniqueViolation = "23505"

// PostgresRepository implements CustomerRepository on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CustomerRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

const customerColumns = `
	id, store_id, name, phone, email, gender, notes,
	wallet_balance, dues_balance, created_at, updated_at`

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID,
		&c.StoreID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Gender,
		&c.Notes,
		&c.WalletBalance,
		&c.DuesBalance,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// -------------------------------------------------------------------
// CUSTOMERS
// -------------------------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (
			store_id, name, phone, email, gender, notes,
			wallet_balance, dues_balance, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 0, 0, NOW(), NOW())
		RETURNING id, wallet_balance, dues_balance, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		customer.StoreID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Gender,
		customer.Notes,
	).Scan(&customer.ID, &customer.WalletBalance, &customer.DuesBalance, &customer.CreatedAt, &customer.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrPhoneExists
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, customer *model.Customer) error {
	result, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name = $3, phone = $4, email = $5, gender = $6, notes = $7, updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`,
		customer.StoreID,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Gender,
		customer.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrPhoneExists
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE store_id = $1 AND id = $2`, customerColumns)

	c, err := scanCustomer(r.db.QueryRow(ctx, query, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer by id: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*model.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE store_id = $1 AND phone = $2`, customerColumns)

	c, err := scanCustomer(r.db.QueryRow(ctx, query, storeID, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer by phone: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, storeID uuid.UUID, filter *model.ListCustomersFilter) ([]model.Customer, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	whereClauses := []string{"store_id = $1"}
	args := []interface{}{storeID}
	argIndex := 2

	if filter.Search != "" {
		whereClauses = append(whereClauses,
			fmt.Sprintf("(LOWER(name) LIKE $%d OR phone LIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argIndex++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT %s FROM customers
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, customerColumns, whereSQL, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	return customers, total, nil
}

// -------------------------------------------------------------------
// WALLET LEDGER
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, storeID, id uuid.UUID) (*model.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE store_id = $1 AND id = $2 FOR UPDATE`, customerColumns)

	c, err := scanCustomer(tx.QueryRow(ctx, query, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer for update: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) CreateWalletEntryWithTx(ctx context.Context, tx pgx.Tx, entry *model.WalletEntry) error {
	query := `
		INSERT INTO customer_wallet_entries (
			store_id, customer_id, kind, amount, bill_id, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		entry.StoreID,
		entry.CustomerID,
		entry.Kind,
		entry.Amount,
		entry.BillID,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("create wallet entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateBalancesWithTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID, wallet, dues decimal.Decimal) error {
	result, err := tx.Exec(ctx, `
		UPDATE customers
		SET wallet_balance = $2, dues_balance = $3, updated_at = NOW()
		WHERE id = $1
	`, customerID, wallet, dues)
	if err != nil {
		return fmt.Errorf("update customer balances: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresRepository) ListWalletEntries(ctx context.Context, storeID, customerID uuid.UUID, page, limit int) ([]model.WalletEntry, int, error) {
	offset := (page - 1) * limit

	rows, err := r.db.Query(ctx, `
		SELECT id, store_id, customer_id, kind, amount, bill_id, note, created_at
		FROM customer_wallet_entries
		WHERE store_id = $1 AND customer_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, storeID, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list wallet entries: %w", err)
	}
	defer rows.Close()

	var entries []model.WalletEntry
	for rows.Next() {
		var e model.WalletEntry
		err := rows.Scan(&e.ID, &e.StoreID, &e.CustomerID, &e.Kind, &e.Amount, &e.BillID, &e.Note, &e.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM customer_wallet_entries
		WHERE store_id = $1 AND customer_id = $2
	`, storeID, customerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count wallet entries: %w", err)
	}

	return entries, total, nil
}
