package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"salonsuite-backend/internal/domains/store/model"
)

const uniqueViolation = "23505"

// PostgresRepository implements StoreRepository on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) StoreRepository {
	return &PostgresRepository{db: db}
}

const storeColumns = `id, name, address, phone, gstin, timezone, created_at, updated_at`

func scanStore(row pgx.Row) (*model.Store, error) {
	var s model.Store
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Address,
		&s.Phone,
		&s.GSTIN,
		&s.Timezone,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// -------------------------------------------------------------------
// STORES
// -------------------------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, store *model.Store) error {
	query := `
		INSERT INTO stores (name, address, phone, gstin, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		store.Name,
		store.Address,
		store.Phone,
		store.GSTIN,
		store.Timezone,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, store *model.Store) error {
	result, err := r.db.Exec(ctx, `
		UPDATE stores
		SET name = $2, address = $3, phone = $4, gstin = $5, timezone = $6, updated_at = NOW()
		WHERE id = $1
	`,
		store.ID,
		store.Name,
		store.Address,
		store.Phone,
		store.GSTIN,
		store.Timezone,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrStoreNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)

	s, err := scanStore(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoreNotFound
		}
		return nil, fmt.Errorf("find store by id: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Store, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM stores s
		JOIN store_members m ON m.store_id = s.id
		WHERE m.user_id = $1
		ORDER BY s.name
	`, "s.id, s.name, s.address, s.phone, s.gstin, s.timezone, s.created_at, s.updated_at")

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list stores for user: %w", err)
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *s)
	}
	return stores, rows.Err()
}

// -------------------------------------------------------------------
// MEMBERS
// -------------------------------------------------------------------

const memberColumns = `id, store_id, user_id, role, pin_hash, created_at, updated_at`

func scanMember(row pgx.Row) (*model.StoreMember, error) {
	var m model.StoreMember
	err := row.Scan(
		&m.ID,
		&m.StoreID,
		&m.UserID,
		&m.Role,
		&m.PINHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *model.StoreMember) error {
	query := `
		INSERT INTO store_members (store_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		member.StoreID,
		member.UserID,
		member.Role,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrMemberExists
		}
		return fmt.Errorf("add store member: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE store_members
		SET role = $3, updated_at = NOW()
		WHERE store_id = $1 AND user_id = $2
	`, storeID, userID, role)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		"DELETE FROM store_members WHERE store_id = $1 AND user_id = $2", storeID, userID)
	if err != nil {
		return fmt.Errorf("remove store member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) FindMember(ctx context.Context, storeID, userID uuid.UUID) (*model.StoreMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM store_members WHERE store_id = $1 AND user_id = $2`, memberColumns)

	m, err := scanMember(r.db.QueryRow(ctx, query, storeID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find store member: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreMember, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_members
		WHERE store_id = $1
		ORDER BY created_at
	`, memberColumns)

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store members: %w", err)
	}
	defer rows.Close()

	var members []model.StoreMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *PostgresRepository) CountOwners(ctx context.Context, storeID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM store_members WHERE store_id = $1 AND role = 'owner'", storeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SetMemberPINHash(ctx context.Context, storeID, userID uuid.UUID, pinHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE store_members
		SET pin_hash = $3, updated_at = NOW()
		WHERE store_id = $1 AND user_id = $2
	`, storeID, userID, pinHash)
	if err != nil {
		return fmt.Errorf("set member pin: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrMemberNotFound
	}
	return nil
}
