package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is one tenant: a salon or retail location. Every other entity
// is scoped to a store.
type Store struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	Timezone  string    `json:"timezone" db:"timezone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StoreMember links a user to a store with a role. The PIN hash guards
// sensitive counter actions; it is never serialized.
type StoreMember struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StoreID   uuid.UUID `json:"store_id" db:"store_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"` // staff | manager | owner
	PINHash   *string   `json:"-" db:"pin_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
