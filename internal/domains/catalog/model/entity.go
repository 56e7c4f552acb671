package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	KindService    ItemKind = "service"
	KindProduct    ItemKind = "product"
	KindMembership ItemKind = "membership"
)

// Item is one sellable catalog entry. Kind-specific attributes are
// nullable: duration for services, stock for products, validity for
// memberships.
type Item struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StoreID     uuid.UUID `json:"store_id" db:"store_id"`
	Kind        ItemKind  `json:"kind" db:"kind"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`

	Price    decimal.Decimal `json:"price" db:"price"`
	CGSTRate decimal.Decimal `json:"cgst_rate" db:"cgst_rate"`
	SGSTRate decimal.Decimal `json:"sgst_rate" db:"sgst_rate"`

	DurationMinutes *int `json:"duration_minutes,omitempty" db:"duration_minutes"`
	StockQuantity   *int `json:"stock_quantity,omitempty" db:"stock_quantity"`
	ValidityDays    *int `json:"validity_days,omitempty" db:"validity_days"`

	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
