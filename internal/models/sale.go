package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is immutable once persisted: only create and read operations exist.
type Sale struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Reference   string      `json:"reference" db:"reference"`
	TotalAmount float64     `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	Lines       []*SaleLine `json:"lines" db:"-"`
}

// SaleLine snapshots the variant's price at sale time; UnitPrice is never
// recomputed even if the variant's price later changes. SKU and VariantName
// are denormalized for responses.
type SaleLine struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SaleID      uuid.UUID `json:"sale_id" db:"sale_id"`
	VariantID   uuid.UUID `json:"variant_id" db:"variant_id"`
	SKU         string    `json:"sku" db:"sku"`
	VariantName string    `json:"variant_name" db:"variant_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	LineTotal   float64   `json:"line_total" db:"line_total"`
}

// AddLine appends a line and folds its total into TotalAmount, so the
// sum-of-lines invariant holds at every intermediate step of sale assembly.
func (s *Sale) AddLine(line *SaleLine) {
	line.SaleID = s.ID
	s.Lines = append(s.Lines, line)
	s.TotalAmount += line.LineTotal
}

// CreateSaleLineRequest is one requested (variant, quantity) pair. Duplicate
// variant ids across lines are summed before stock is touched.
type CreateSaleLineRequest struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int       `json:"quantity"`
}

type CreateSaleRequest struct {
	Reference string                   `json:"reference,omitempty"`
	Lines     []*CreateSaleLineRequest `json:"lines"`
}
