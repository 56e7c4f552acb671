package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonsuite-backend/internal/domains/store/model"
)

// ----- FAKES -----

type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	if s, ok := dest.(*string); ok {
		*s = v
	}
	return true, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s, ok := value.(string); ok {
		c.values[key] = s
	}
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error                        { return nil }
func (c *memoryCache) DeletePattern(ctx context.Context, p string) error     { return nil }
func (c *memoryCache) Increment(ctx context.Context, k string) (int64, error) { return 0, nil }
func (c *memoryCache) Exists(ctx context.Context, k string) (bool, error)    { return false, nil }
func (c *memoryCache) Expire(ctx context.Context, k string, ttl time.Duration) error {
	return nil
}
func (c *memoryCache) TTL(ctx context.Context, k string) (time.Duration, error) { return 0, nil }

type fakeStoreRepo struct {
	store   *model.Store
	members map[uuid.UUID]*model.StoreMember // by user ID
	owners  int

	findMemberCalls int
	removedUser     *uuid.UUID
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{members: map[uuid.UUID]*model.StoreMember{}}
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *model.Store) error {
	store.ID = uuid.New()
	r.store = store
	return nil
}

func (r *fakeStoreRepo) Update(ctx context.Context, store *model.Store) error { return nil }

func (r *fakeStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	if r.store == nil {
		return nil, model.ErrStoreNotFound
	}
	return r.store, nil
}

func (r *fakeStoreRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Store, error) {
	return nil, nil
}

func (r *fakeStoreRepo) AddMember(ctx context.Context, member *model.StoreMember) error {
	member.ID = uuid.New()
	r.members[member.UserID] = member
	if member.Role == "owner" {
		r.owners++
	}
	return nil
}

func (r *fakeStoreRepo) UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error {
	r.members[userID].Role = role
	return nil
}

func (r *fakeStoreRepo) RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error {
	delete(r.members, userID)
	r.removedUser = &userID
	return nil
}

func (r *fakeStoreRepo) FindMember(ctx context.Context, storeID, userID uuid.UUID) (*model.StoreMember, error) {
	r.findMemberCalls++
	member, ok := r.members[userID]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	return member, nil
}

func (r *fakeStoreRepo) ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreMember, error) {
	return nil, nil
}

func (r *fakeStoreRepo) CountOwners(ctx context.Context, storeID uuid.UUID) (int, error) {
	return r.owners, nil
}

func (r *fakeStoreRepo) SetMemberPINHash(ctx context.Context, storeID, userID uuid.UUID, pinHash string) error {
	if member, ok := r.members[userID]; ok {
		member.PINHash = &pinHash
	}
	return nil
}

// ----- TESTS -----

func TestCreateStore_EnrollsCreatorAsOwner(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo, newMemoryCache())
	ownerID := uuid.New()

	store, err := svc.CreateStore(context.Background(), ownerID, &model.CreateStoreRequest{
		Name: "Glow Salon",
	})

	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", store.Timezone, "default timezone")

	member, ok := repo.members[ownerID]
	require.True(t, ok)
	assert.Equal(t, "owner", member.Role)
}

func TestGetMemberRole_CachesLookup(t *testing.T) {
	repo := newFakeStoreRepo()
	cache := newMemoryCache()
	svc := NewStoreService(repo, cache)
	storeID, userID := uuid.New(), uuid.New()
	repo.members[userID] = &model.StoreMember{StoreID: storeID, UserID: userID, Role: "manager"}

	role, err := svc.GetMemberRole(context.Background(), storeID, userID)
	require.NoError(t, err)
	assert.Equal(t, "manager", role)
	assert.Equal(t, 1, repo.findMemberCalls)

	// Second lookup hits the cache.
	role, err = svc.GetMemberRole(context.Background(), storeID, userID)
	require.NoError(t, err)
	assert.Equal(t, "manager", role)
	assert.Equal(t, 1, repo.findMemberCalls)
}

func TestGetMemberRole_NonMember(t *testing.T) {
	svc := NewStoreService(newFakeStoreRepo(), newMemoryCache())

	_, err := svc.GetMemberRole(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, model.ErrNotAMember)
}

func TestUpdateMemberRole_InvalidatesCache(t *testing.T) {
	repo := newFakeStoreRepo()
	cache := newMemoryCache()
	svc := NewStoreService(repo, cache)
	storeID, userID := uuid.New(), uuid.New()
	repo.members[userID] = &model.StoreMember{StoreID: storeID, UserID: userID, Role: "staff"}

	// Warm the cache.
	_, err := svc.GetMemberRole(context.Background(), storeID, userID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateMemberRole(context.Background(), storeID, userID, "manager"))

	role, err := svc.GetMemberRole(context.Background(), storeID, userID)
	require.NoError(t, err)
	assert.Equal(t, "manager", role, "stale cached role evicted on change")
}

func TestUpdateMemberRole_LastOwnerGuard(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo, newMemoryCache())
	storeID, ownerID := uuid.New(), uuid.New()
	repo.members[ownerID] = &model.StoreMember{StoreID: storeID, UserID: ownerID, Role: "owner"}
	repo.owners = 1

	err := svc.UpdateMemberRole(context.Background(), storeID, ownerID, "staff")

	assert.ErrorIs(t, err, model.ErrLastOwner)
	assert.Equal(t, "owner", repo.members[ownerID].Role)
}

func TestRemoveMember_LastOwnerGuard(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo, newMemoryCache())
	storeID, ownerID := uuid.New(), uuid.New()
	repo.members[ownerID] = &model.StoreMember{StoreID: storeID, UserID: ownerID, Role: "owner"}
	repo.owners = 1

	err := svc.RemoveMember(context.Background(), storeID, ownerID)

	assert.ErrorIs(t, err, model.ErrLastOwner)
	assert.Nil(t, repo.removedUser)
}

func TestRemoveMember_SecondOwnerAllowed(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo, newMemoryCache())
	storeID, ownerID := uuid.New(), uuid.New()
	repo.members[ownerID] = &model.StoreMember{StoreID: storeID, UserID: ownerID, Role: "owner"}
	repo.owners = 2

	err := svc.RemoveMember(context.Background(), storeID, ownerID)

	require.NoError(t, err)
	require.NotNil(t, repo.removedUser)
	assert.Equal(t, ownerID, *repo.removedUser)
}

// ----- PIN -----

func TestMemberPIN_SetAndVerify(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo, newMemoryCache())
	storeID, userID := uuid.New(), uuid.New()
	repo.members[userID] = &model.StoreMember{StoreID: storeID, UserID: userID, Role: "staff"}

	require.NoError(t, svc.SetMemberPIN(context.Background(), storeID, userID, "4321"))

	assert.NoError(t, svc.VerifyMemberPIN(context.Background(), storeID, userID, "4321"))
	assert.ErrorIs(t, svc.VerifyMemberPIN(context.Background(), storeID, userID, "9999"), model.ErrPINMismatch)
}

func TestVerifyMemberPIN_NotSet(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo, newMemoryCache())
	storeID, userID := uuid.New(), uuid.New()
	repo.members[userID] = &model.StoreMember{StoreID: storeID, UserID: userID, Role: "staff"}

	err := svc.VerifyMemberPIN(context.Background(), storeID, userID, "4321")

	assert.ErrorIs(t, err, model.ErrPINNotSet)
}
