package notification

import (
	"time"

	"github.com/google/uuid"
)

const KindLowStock = "low_stock"

// StockNotification is an in-app alert raised from stock level events.
// MovementID is unique so a redelivered event never alerts twice.
type StockNotification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind       string     `gorm:"type:varchar(30);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:text;not null"`
	LineItemID *uuid.UUID `gorm:"type:uuid"`
	MovementID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CreatedAt  time.Time
	ReadAt     *time.Time
}

func (StockNotification) TableName() string {
	return "notifications"
}

func (n StockNotification) Read() bool {
	return n.ReadAt != nil
}
