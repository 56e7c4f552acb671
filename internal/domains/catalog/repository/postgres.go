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

	"salonsuite-backend/internal/domains/catalog/model"
)

const uniqueViolation = "23505"

// PostgresRepository implements ItemRepository on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) ItemRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `
	id, store_id, kind, name, description,
	price, cgst_rate, sgst_rate,
	duration_minutes, stock_quantity, validity_days,
	active, created_at, updated_at`

func scanItem(row pgx.Row) (*model.Item, error) {
	var i model.Item
	err := row.Scan(
		&i.ID,
		&i.StoreID,
		&i.Kind,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.CGSTRate,
		&i.SGSTRate,
		&i.DurationMinutes,
		&i.StockQuantity,
		&i.ValidityDays,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO catalog_items (
			store_id, kind, name, description,
			price, cgst_rate, sgst_rate,
			duration_minutes, stock_quantity, validity_days,
			active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW())
		RETURNING id, active, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		item.StoreID,
		item.Kind,
		item.Name,
		item.Description,
		item.Price,
		item.CGSTRate,
		item.SGSTRate,
		item.DurationMinutes,
		item.StockQuantity,
		item.ValidityDays,
	).Scan(&item.ID, &item.Active, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrItemExists
		}
		return fmt.Errorf("create catalog item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *model.Item) error {
	result, err := r.db.Exec(ctx, `
		UPDATE catalog_items
		SET
			name = $3,
			description = $4,
			price = $5,
			cgst_rate = $6,
			sgst_rate = $7,
			duration_minutes = $8,
			stock_quantity = $9,
			validity_days = $10,
			active = $11,
			updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`,
		item.StoreID,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.CGSTRate,
		item.SGSTRate,
		item.DurationMinutes,
		item.StockQuantity,
		item.ValidityDays,
		item.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrItemExists
		}
		return fmt.Errorf("update catalog item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_items WHERE store_id = $1 AND id = $2`, itemColumns)

	i, err := scanItem(r.db.QueryRow(ctx, query, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrItemNotFound
		}
		return nil, fmt.Errorf("find catalog item: %w", err)
	}
	return i, nil
}

func (r *PostgresRepository) List(ctx context.Context, storeID uuid.UUID, filter *model.ListItemsFilter) ([]model.Item, int, error) {
	offset := (filter.Page - 1) * filter.Limit

	whereClauses := []string{"store_id = $1"}
	args := []interface{}{storeID}
	argIndex := 2

	if filter.Kind != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("kind = $%d", argIndex))
		args = append(args, filter.Kind)
		argIndex++
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(name) LIKE $%d", argIndex))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argIndex++
	}

	if filter.Active != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("active = $%d", argIndex))
		args = append(args, *filter.Active)
		argIndex++
	}

	whereSQL := "WHERE " + strings.Join(whereClauses, " AND ")

	query := fmt.Sprintf(`
		SELECT %s FROM catalog_items
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, itemColumns, whereSQL, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM catalog_items %s", whereSQL)
	countArgs := args[:len(args)-2]

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count catalog items: %w", err)
	}

	return items, total, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, storeID, id uuid.UUID, active bool) error {
	result, err := r.db.Exec(ctx, `
		UPDATE catalog_items
		SET active = $3, updated_at = NOW()
		WHERE store_id = $1 AND id = $2
	`, storeID, id, active)
	if err != nil {
		return fmt.Errorf("set catalog item active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}
