package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salonsuite-backend/internal/domains/catalog/model"
	"salonsuite-backend/internal/domains/catalog/repository"
)

// ServiceInterface is the catalog domain's business contract.
type ServiceInterface interface {
	CreateItem(ctx context.Context, storeID uuid.UUID, req *model.CreateItemRequest) (*model.Item, error)
	UpdateItem(ctx context.Context, storeID, itemID uuid.UUID, req *model.UpdateItemRequest) (*model.Item, error)
	GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*model.Item, error)
	ListItems(ctx context.Context, storeID uuid.UUID, filter *model.ListItemsFilter) ([]model.Item, int, error)
	DeactivateItem(ctx context.Context, storeID, itemID uuid.UUID) error
}

type catalogService struct {
	repo repository.ItemRepository
}

func NewCatalogService(repo repository.ItemRepository) ServiceInterface {
	return &catalogService{repo: repo}
}

func (s *catalogService) CreateItem(ctx context.Context, storeID uuid.UUID, req *model.CreateItemRequest) (*model.Item, error) {
	item := &model.Item{
		StoreID:         storeID,
		Kind:            model.ItemKind(req.Kind),
		Name:            req.Name,
		Description:     req.Description,
		Price:           decimal.NewFromFloat(req.Price),
		CGSTRate:        decimal.NewFromFloat(req.CGSTRate),
		SGSTRate:        decimal.NewFromFloat(req.SGSTRate),
		DurationMinutes: req.DurationMinutes,
		StockQuantity:   req.StockQuantity,
		ValidityDays:    req.ValidityDays,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, storeID, itemID uuid.UUID, req *model.UpdateItemRequest) (*model.Item, error) {
	item, err := s.repo.FindByID(ctx, storeID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		item.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.CGSTRate != nil {
		item.CGSTRate = decimal.NewFromFloat(*req.CGSTRate)
	}
	if req.SGSTRate != nil {
		item.SGSTRate = decimal.NewFromFloat(*req.SGSTRate)
	}
	if req.DurationMinutes != nil {
		item.DurationMinutes = req.DurationMinutes
	}
	if req.StockQuantity != nil {
		item.StockQuantity = req.StockQuantity
	}
	if req.ValidityDays != nil {
		item.ValidityDays = req.ValidityDays
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*model.Item, error) {
	return s.repo.FindByID(ctx, storeID, itemID)
}

func (s *catalogService) ListItems(ctx context.Context, storeID uuid.UUID, filter *model.ListItemsFilter) ([]model.Item, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, storeID, filter)
}

// DeactivateItem hides the item from new bills without losing the rows
// that reference it.
func (s *catalogService) DeactivateItem(ctx context.Context, storeID, itemID uuid.UUID) error {
	return s.repo.SetActive(ctx, storeID, itemID, false)
}
