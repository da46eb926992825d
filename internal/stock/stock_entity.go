package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	KindProduct  ItemKind = "product"
	KindMaterial ItemKind = "material"
)

type Level string

const (
	LevelLow    Level = "low"
	LevelNormal Level = "normal"
	LevelHigh   Level = "high"
)

type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code      string          `gorm:"type:varchar(50);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Kind      ItemKind        `gorm:"type:varchar(20);not null;default:product"`
	Unit      string          `gorm:"type:varchar(20);not null;default:unit"`
	MinStock  decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	MaxStock  decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Item) TableName() string {
	return "stock_items"
}

// MovementType decides the direction of a movement.
type MovementType struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Code           string    `gorm:"type:varchar(20);not null"`
	Name           string    `gorm:"type:varchar(100);not null"`
	IncreasesStock bool      `gorm:"not null;default:true"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (MovementType) TableName() string {
	return "stock_movement_types"
}

// LineItem is the stock of one item at one branch. CurrentQuantity never
// goes below zero.
type LineItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	BranchID         uuid.UUID       `gorm:"type:uuid;not null"`
	CurrentQuantity  decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0"`
	Location         string          `gorm:"type:varchar(100)"`
	Item             *Item           `gorm:"foreignKey:ItemID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (LineItem) TableName() string {
	return "stock_line_items"
}

func (l LineItem) Available() decimal.Decimal {
	available := l.CurrentQuantity.Sub(l.ReservedQuantity)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

func (l LineItem) Level(item Item) Level {
	switch {
	case l.CurrentQuantity.LessThanOrEqual(item.MinStock):
		return LevelLow
	case item.MaxStock.IsPositive() && l.CurrentQuantity.GreaterThanOrEqual(item.MaxStock):
		return LevelHigh
	default:
		return LevelNormal
	}
}

// Movement is immutable apart from Reference and Notes. Only its creation
// adjusts stock.
type Movement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code           string          `gorm:"type:varchar(20);not null"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null"`
	MovementTypeID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reference      string          `gorm:"type:varchar(100)"`
	Notes          string          `gorm:"type:text"`
	RecordedBy     *uuid.UUID      `gorm:"type:uuid"`
	Item           *Item           `gorm:"foreignKey:ItemID"`
	MovementType   *MovementType   `gorm:"foreignKey:MovementTypeID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Movement) TableName() string {
	return "stock_movements"
}

// Adjust applies a movement of qty to current. Decreases clamp at zero and
// report clamped.
func Adjust(current, qty decimal.Decimal, increases bool) (next decimal.Decimal, clamped bool) {
	if increases {
		return current.Add(qty), false
	}
	next = current.Sub(qty)
	if next.IsNegative() {
		return decimal.Zero, true
	}
	return next, false
}
