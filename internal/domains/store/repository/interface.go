package repository

import (
	"context"

	"github.com/google/uuid"

	"salonsuite-backend/internal/domains/store/model"
)

// StoreRepository persists stores and their memberships.
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	Update(ctx context.Context, store *model.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Store, error)

	AddMember(ctx context.Context, member *model.StoreMember) error
	UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error
	RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error
	FindMember(ctx context.Context, storeID, userID uuid.UUID) (*model.StoreMember, error)
	ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreMember, error)
	CountOwners(ctx context.Context, storeID uuid.UUID) (int, error)
	SetMemberPINHash(ctx context.Context, storeID, userID uuid.UUID, pinHash string) error
}
