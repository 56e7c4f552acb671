package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"salonsuite-backend/internal/domains/store/model"
	"salonsuite-backend/internal/domains/store/repository"
	pkgcache "salonsuite-backend/pkg/cache"
)

// Role cache entries are short lived so a role change takes effect
// within a minute without a restart.
const roleCacheTTL = time.Minute

// ServiceInterface is the store domain's business contract. It also
// satisfies middleware.StoreRoleResolver via GetMemberRole.
type ServiceInterface interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, req *model.CreateStoreRequest) (*model.Store, error)
	UpdateStore(ctx context.Context, storeID uuid.UUID, req *model.UpdateStoreRequest) (*model.Store, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*model.Store, error)
	ListMyStores(ctx context.Context, userID uuid.UUID) ([]model.Store, error)

	AddMember(ctx context.Context, storeID uuid.UUID, req *model.AddMemberRequest) (*model.StoreMember, error)
	UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error
	RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error
	ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreMember, error)
	GetMemberRole(ctx context.Context, storeID, userID uuid.UUID) (string, error)

	SetMemberPIN(ctx context.Context, storeID, userID uuid.UUID, pin string) error
	VerifyMemberPIN(ctx context.Context, storeID, userID uuid.UUID, pin string) error
}

type storeService struct {
	repo  repository.StoreRepository
	cache pkgcache.Cache
}

func NewStoreService(repo repository.StoreRepository, cache pkgcache.Cache) ServiceInterface {
	return &storeService{repo: repo, cache: cache}
}

// -------------------------------------------------------------------
// STORES
// -------------------------------------------------------------------

// CreateStore creates the store and enrolls the creator as its owner.
func (s *storeService) CreateStore(ctx context.Context, ownerID uuid.UUID, req *model.CreateStoreRequest) (*model.Store, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "Asia/Kolkata"
	}

	store := &model.Store{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		GSTIN:    req.GSTIN,
		Timezone: timezone,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}

	member := &model.StoreMember{
		StoreID: store.ID,
		UserID:  ownerID,
		Role:    "owner",
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *storeService) UpdateStore(ctx context.Context, storeID uuid.UUID, req *model.UpdateStoreRequest) (*model.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Address != nil {
		store.Address = req.Address
	}
	if req.Phone != nil {
		store.Phone = req.Phone
	}
	if req.GSTIN != nil {
		store.GSTIN = req.GSTIN
	}
	if req.Timezone != nil {
		store.Timezone = *req.Timezone
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStore(ctx context.Context, storeID uuid.UUID) (*model.Store, error) {
	return s.repo.FindByID(ctx, storeID)
}

func (s *storeService) ListMyStores(ctx context.Context, userID uuid.UUID) ([]model.Store, error) {
	return s.repo.ListForUser(ctx, userID)
}

// -------------------------------------------------------------------
// MEMBERS
// -------------------------------------------------------------------

func (s *storeService) AddMember(ctx context.Context, storeID uuid.UUID, req *model.AddMemberRequest) (*model.StoreMember, error) {
	if _, err := s.repo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}

	member := &model.StoreMember{
		StoreID: storeID,
		UserID:  req.UserID,
		Role:    req.Role,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	s.invalidateRole(ctx, storeID, req.UserID)
	return member, nil
}

func (s *storeService) UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error {
	member, err := s.repo.FindMember(ctx, storeID, userID)
	if err != nil {
		return err
	}

	if member.Role == "owner" && role != "owner" {
		owners, err := s.repo.CountOwners(ctx, storeID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return model.ErrLastOwner
		}
	}

	if err := s.repo.UpdateMemberRole(ctx, storeID, userID, role); err != nil {
		return err
	}

	s.invalidateRole(ctx, storeID, userID)
	return nil
}

func (s *storeService) RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error {
	member, err := s.repo.FindMember(ctx, storeID, userID)
	if err != nil {
		return err
	}

	if member.Role == "owner" {
		owners, err := s.repo.CountOwners(ctx, storeID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return model.ErrLastOwner
		}
	}

	if err := s.repo.RemoveMember(ctx, storeID, userID); err != nil {
		return err
	}

	s.invalidateRole(ctx, storeID, userID)
	return nil
}

func (s *storeService) ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreMember, error) {
	return s.repo.ListMembers(ctx, storeID)
}

// GetMemberRole answers the role-check middleware. Roles are cached
// briefly since the check runs on every store-scoped request.
func (s *storeService) GetMemberRole(ctx context.Context, storeID, userID uuid.UUID) (string, error) {
	key := roleCacheKey(storeID, userID)

	var cached string
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	member, err := s.repo.FindMember(ctx, storeID, userID)
	if err != nil {
		if err == model.ErrMemberNotFound {
			return "", model.ErrNotAMember
		}
		return "", err
	}

	_ = s.cache.Set(ctx, key, member.Role, roleCacheTTL)
	return member.Role, nil
}

func (s *storeService) invalidateRole(ctx context.Context, storeID, userID uuid.UUID) {
	_ = s.cache.Delete(ctx, roleCacheKey(storeID, userID))
}

func roleCacheKey(storeID, userID uuid.UUID) string {
	return fmt.Sprintf("store:role:%s:%s", storeID, userID)
}

// -------------------------------------------------------------------
// PIN
// -------------------------------------------------------------------

func (s *storeService) SetMemberPIN(ctx context.Context, storeID, userID uuid.UUID, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.repo.SetMemberPINHash(ctx, storeID, userID, string(hash))
}

func (s *storeService) VerifyMemberPIN(ctx context.Context, storeID, userID uuid.UUID, pin string) error {
	member, err := s.repo.FindMember(ctx, storeID, userID)
	if err != nil {
		return err
	}
	if member.PINHash == nil {
		return model.ErrPINNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*member.PINHash), []byte(pin)); err != nil {
		return model.ErrPINMismatch
	}
	return nil
}
