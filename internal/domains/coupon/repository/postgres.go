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

	"salonsuite-backend/internal/domains/coupon/model"
)

const uniqueViolation = "23505"

// PostgresRepository implements CouponRepository on PostgreSQL.
// Inclusion sets live in child tables (coupon_services, coupon_products,
// coupon_memberships) replaced wholesale on update.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CouponRepository {
	return &PostgresRepository{db: db}
}

const couponColumns = `
	id, store_id, code, description, status,
	valid_from, valid_till,
	discount_type, discount_value, minimum_spend, maximum_discount,
	usage_limit, limit_refresh_days,
	all_services, all_products, all_memberships,
	created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.StoreID,
		&c.Code,
		&c.Description,
		&c.Status,
		&c.ValidFrom,
		&c.ValidTill,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinimumSpend,
		&c.MaximumDiscount,
		&c.UsageLimit,
		&c.LimitRefreshDays,
		&c.AllServices,
		&c.AllProducts,
		&c.AllMemberships,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE store_id = $1 AND id = $2`, couponColumns)

	c, err := scanCoupon(r.db.QueryRow(ctx, query, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by id: %w", err)
	}

	if err := r.loadInclusions(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*model.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE store_id = $1 AND LOWER(code) = LOWER($2)`, couponColumns)

	c, err := scanCoupon(r.db.QueryRow(ctx, query, storeID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}

	if err := r.loadInclusions(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, storeID uuid.UUID, filter *model.ListCouponsFilter) ([]*model.Coupon, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	whereClauses := []string{"store_id = $1"}
	args := []interface{}{storeID}
	argIndex := 2

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(code) LIKE $%d", argIndex))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argIndex++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT %s FROM coupons
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, couponColumns, whereSQL, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, err
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, c := range coupons {
		if err := r.loadInclusions(ctx, c); err != nil {
			return nil, 0, err
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM coupons %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	return coupons, total, nil
}

func (r *PostgresRepository) ListRedeemable(ctx context.Context, storeID uuid.UUID, at time.Time) ([]*model.Coupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM coupons
		WHERE store_id = $1
		  AND status = 'active'
		  AND valid_from <= $2
		  AND valid_till >= $2
		ORDER BY valid_till ASC
	`, couponColumns)

	rows, err := r.db.Query(ctx, query, storeID, at)
	if err != nil {
		return nil, fmt.Errorf("list redeemable coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range coupons {
		if err := r.loadInclusions(ctx, c); err != nil {
			return nil, err
		}
	}

	return coupons, nil
}

// loadInclusions populates the inclusion ID sets from the child tables.
func (r *PostgresRepository) loadInclusions(ctx context.Context, c *model.Coupon) error {
	tables := []struct {
		table string
		dest  *[]uuid.UUID
	}{
		{"coupon_services", &c.ServiceIDs},
		{"coupon_products", &c.ProductIDs},
		{"coupon_memberships", &c.MembershipIDs},
	}

	for _, t := range tables {
		rows, err := r.db.Query(ctx,
			fmt.Sprintf("SELECT item_id FROM %s WHERE coupon_id = $1", t.table), c.ID)
		if err != nil {
			return fmt.Errorf("load coupon inclusions: %w", err)
		}

		var ids []uuid.UUID
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		*t.dest = ids
	}

	return nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO coupons (
			store_id, code, description, status,
			valid_from, valid_till,
			discount_type, discount_value, minimum_spend, maximum_discount,
			usage_limit, limit_refresh_days,
			all_services, all_products, all_memberships,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		coupon.StoreID,
		coupon.Code,
		coupon.Description,
		coupon.Status,
		coupon.ValidFrom,
		coupon.ValidTill,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinimumSpend,
		coupon.MaximumDiscount,
		coupon.UsageLimit,
		coupon.LimitRefreshDays,
		coupon.AllServices,
		coupon.AllProducts,
		coupon.AllMemberships,
	).Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrCouponCodeExists
		}
		return fmt.Errorf("create coupon: %w", err)
	}

	if err := insertInclusions(ctx, tx, coupon); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE coupons
		SET
			description = $3,
			status = $4,
			valid_from = $5,
			valid_till = $6,
			discount_type = $7,
			discount_value = $8,
			minimum_spend = $9,
			maximum_discount = $10,
			usage_limit = $11,
			limit_refresh_days = $12,
			all_services = $13,
			all_products = $14,
			all_memberships = $15,
			updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`

	result, err := tx.Exec(ctx, query,
		coupon.StoreID,
		coupon.ID,
		coupon.Description,
		coupon.Status,
		coupon.ValidFrom,
		coupon.ValidTill,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinimumSpend,
		coupon.MaximumDiscount,
		coupon.UsageLimit,
		coupon.LimitRefreshDays,
		coupon.AllServices,
		coupon.AllProducts,
		coupon.AllMemberships,
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	// Inclusion sets are replaced, not merged.
	for _, table := range []string{"coupon_services", "coupon_products", "coupon_memberships"} {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE coupon_id = $1", table), coupon.ID); err != nil {
			return fmt.Errorf("clear coupon inclusions: %w", err)
		}
	}

	if err := insertInclusions(ctx, tx, coupon); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertInclusions(ctx context.Context, tx pgx.Tx, coupon *model.Coupon) error {
	batch := &pgx.Batch{}

	for _, id := range coupon.ServiceIDs {
		batch.Queue("INSERT INTO coupon_services (coupon_id, item_id) VALUES ($1, $2)", coupon.ID, id)
	}
	for _, id := range coupon.ProductIDs {
		batch.Queue("INSERT INTO coupon_products (coupon_id, item_id) VALUES ($1, $2)", coupon.ID, id)
	}
	for _, id := range coupon.MembershipIDs {
		batch.Queue("INSERT INTO coupon_memberships (coupon_id, item_id) VALUES ($1, $2)", coupon.ID, id)
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert coupon inclusions: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	// Child rows cascade on delete.
	result, err := r.db.Exec(ctx,
		"DELETE FROM coupons WHERE store_id = $1 AND id = $2", storeID, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

// -------------------------------------------------------------------
// USAGE TRACKING
// -------------------------------------------------------------------

func (r *PostgresRepository) CountUsage(ctx context.Context, couponID, customerID uuid.UUID, since *time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM coupon_usage
		WHERE coupon_id = $1 AND customer_id = $2
	`
	args := []interface{}{couponID, customerID}

	if since != nil {
		query += " AND used_at >= $3"
		args = append(args, *since)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count coupon usage: %w", err)
	}
	return count, nil
}

// CreateUsageWithTx records a redemption inside the caller's transaction
// so it commits or rolls back with the bill.
func (r *PostgresRepository) CreateUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.CouponUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}

	query := `
		INSERT INTO coupon_usage (
			id, coupon_id, store_id, customer_id, bill_id,
			discount_amount, used_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
		RETURNING used_at
	`

	err := tx.QueryRow(ctx, query,
		usage.ID,
		usage.CouponID,
		usage.StoreID,
		usage.CustomerID,
		usage.BillID,
		usage.DiscountAmount,
	).Scan(&usage.UsedAt)
	if err != nil {
		return fmt.Errorf("create coupon usage: %w", err)
	}

	return nil
}

// -------------------------------------------------------------------
// MAINTENANCE
// -------------------------------------------------------------------

// ExpireStale flips active coupons past their window to inactive.
// Run by the worker's hourly sweep.
func (r *PostgresRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET status = 'inactive', updated_at = NOW()
		WHERE status = 'active' AND valid_till < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("expire stale coupons: %w", err)
	}
	return result.RowsAffected(), nil
}
