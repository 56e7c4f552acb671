package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletEntryKind classifies ledger entries. Balances on the customer
// row are a denormalized sum of the ledger, updated in the same
// transaction as each entry.
type WalletEntryKind string

const (
	WalletAdvance     WalletEntryKind = "advance"      // money paid in up front
	WalletSpend       WalletEntryKind = "spend"        // wallet used on a bill
	WalletDuesAdded   WalletEntryKind = "dues_added"   // bill left unpaid dues
	WalletDuesCleared WalletEntryKind = "dues_cleared" // later payment cleared dues
	WalletAdjustment  WalletEntryKind = "adjustment"   // manual correction
)

// Customer is a store-scoped client record.
type Customer struct {
	ID      uuid.UUID `json:"id" db:"id"`
	StoreID uuid.UUID `json:"store_id" db:"store_id"`
	Name    string    `json:"name" db:"name"`
	Phone   string    `json:"phone" db:"phone"`
	Email   *string   `json:"email,omitempty" db:"email"`
	Gender  *string   `json:"gender,omitempty" db:"gender"`
	Notes   *string   `json:"notes,omitempty" db:"notes"`

	WalletBalance decimal.Decimal `json:"wallet_balance" db:"wallet_balance"`
	DuesBalance   decimal.Decimal `json:"dues_balance" db:"dues_balance"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WalletEntry is one append-only row of the customer money ledger.
type WalletEntry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	StoreID    uuid.UUID       `json:"store_id" db:"store_id"`
	CustomerID uuid.UUID       `json:"customer_id" db:"customer_id"`
	Kind       WalletEntryKind `json:"kind" db:"kind"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	BillID     *uuid.UUID      `json:"bill_id,omitempty" db:"bill_id"`
	Note       *string         `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
