package models

import (
	"time"

	"github.com/google/uuid"
)

type ItemVariant struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ItemID        uuid.UUID `json:"item_id" db:"item_id"`
	SKU           string    `json:"sku" db:"sku"`
	Name          string    `json:"name" db:"name"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// LockedVariant is a variant row read under an exclusive row lock, joined with
// the owning item's active flag. It is only produced inside an open
// transaction and is valid until that transaction ends.
type LockedVariant struct {
	ID            uuid.UUID
	ItemID        uuid.UUID
	SKU           string
	Name          string
	Price         float64
	StockQuantity int
	Active        bool
	ItemActive    bool
}
