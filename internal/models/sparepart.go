package models

import "github.com/shopspring/decimal"

// SparePart is an inventory item. Stock is only ever mutated by the backend.
type SparePart struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	PartNumber    string          `json:"partNumber"`
	Category      string          `json:"category,omitempty"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	StockQuantity int             `json:"stockQuantity"`
}

// InStock reports whether at least one unit is available.
func (p SparePart) InStock() bool {
	return p.StockQuantity > 0
}

// AddPartsRequest is the payload for PATCH /receptions/{id}/add-parts.
type AddPartsRequest struct {
	SparePartIDs []int64 `json:"sparePartIds"`
}
