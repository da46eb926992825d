package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusOnLeave  = "on_leave"
	StatusVacation = "vacation"
	StatusInactive = "inactive"
)

type Employee struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;index"`
	Code          string
	FullName      string
	Email         string
	Status        string
	CurrentSalary decimal.Decimal `gorm:"type:numeric(14,2)"`
	HireDate      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
