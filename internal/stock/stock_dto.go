package stock

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	Code     string          `json:"code" binding:"required,max=50"`
	Name     string          `json:"name" binding:"required,max=200"`
	Kind     string          `json:"kind" binding:"omitempty,oneof=product material"`
	Unit     string          `json:"unit" binding:"max=20"`
	MinStock decimal.Decimal `json:"min_stock"`
	MaxStock decimal.Decimal `json:"max_stock"`
}

type CreateMovementTypeRequest struct {
	Code           string `json:"code" binding:"required,max=20"`
	Name           string `json:"name" binding:"required,max=100"`
	IncreasesStock *bool  `json:"increases_stock" binding:"required"`
}

type RecordMovementRequest struct {
	ItemID         string          `json:"item_id" binding:"required,uuid"`
	BranchID       string          `json:"branch_id" binding:"required,uuid"`
	MovementTypeID string          `json:"movement_type_id" binding:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Reference      string          `json:"reference" binding:"max=100"`
	Notes          string          `json:"notes" binding:"max=2000"`
}

// UpdateMovementRequest only touches descriptive fields; quantities of a
// recorded movement are fixed.
type UpdateMovementRequest struct {
	Reference string `json:"reference" binding:"max=100"`
	Notes     string `json:"notes" binding:"max=2000"`
}

type ReservationRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type MovementFilter struct {
	ItemID   string
	BranchID string
}

type ItemResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Unit     string `json:"unit"`
	MinStock string `json:"min_stock"`
	MaxStock string `json:"max_stock"`
}

type MovementTypeResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	IncreasesStock bool   `json:"increases_stock"`
	Active         bool   `json:"active"`
}

type MovementResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	ItemID         string `json:"item_id"`
	BranchID       string `json:"branch_id"`
	MovementTypeID string `json:"movement_type_id"`
	Quantity       string `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	TotalValue     string `json:"total_value"`
	Reference      string `json:"reference,omitempty"`
	Notes          string `json:"notes,omitempty"`
	RecordedBy     string `json:"recorded_by,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type LineItemResponse struct {
	ID               string `json:"id"`
	ItemID           string `json:"item_id"`
	ItemCode         string `json:"item_code,omitempty"`
	ItemName         string `json:"item_name,omitempty"`
	BranchID         string `json:"branch_id"`
	CurrentQuantity  string `json:"current_quantity"`
	ReservedQuantity string `json:"reserved_quantity"`
	Available        string `json:"available"`
	Level            string `json:"level,omitempty"`
	Location         string `json:"location,omitempty"`
}
