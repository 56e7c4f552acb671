package repository

import (
	"context"

	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/catalog/model"
)

// ItemRepository persists the store catalog.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, storeID uuid.UUID, filter *model.ListItemsFilter) ([]model.Item, int, error)
	SetActive(ctx context.Context, storeID, id uuid.UUID, active bool) error
}
