package events

import "time"

const StockLevelTopic = "erp.stock.level.v1"

// StockLevelChangedEvent is emitted whenever a movement adjusts a line item.
// Quantities are decimal strings.
type StockLevelChangedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	CompanyID   string    `json:"company_id"`
	LineItemID  string    `json:"line_item_id"`
	ItemID      string    `json:"item_id"`
	ItemCode    string    `json:"item_code"`
	ItemName    string    `json:"item_name"`
	BranchID    string    `json:"branch_id"`
	MovementID  string    `json:"movement_id"`
	OldQuantity string    `json:"old_quantity"`
	NewQuantity string    `json:"new_quantity"`
	MinStock    string    `json:"min_stock"`
	Clamped     bool      `json:"clamped"`
	OccurredAt  time.Time `json:"occurred_at"`
}
