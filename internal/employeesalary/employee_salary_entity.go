package employeesalary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryRecord is one period of an employee's salary. EndDate is nil and
// Active is true for the single open period.
type SalaryRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2)"`
	StartDate  time.Time
	EndDate    *time.Time
	Active     bool
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SalaryRecord) TableName() string {
	return "salary_history_records"
}

// EmployeeSalary is the salary-relevant projection of an employees row.
type EmployeeSalary struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	FullName      string
	CurrentSalary decimal.Decimal
}

// ConsistencyIssue is an employee whose current salary disagrees with the ledger.
type ConsistencyIssue struct {
	EmployeeID    string
	FullName      string
	CurrentSalary decimal.Decimal
	ActiveRecords int
	ActiveAmount  decimal.Decimal
}

// SalaryChange describes a transition of an employee's current salary.
type SalaryChange struct {
	EmployeeID uuid.UUID
	From       decimal.Decimal
	To         decimal.Decimal
	At         time.Time
	Note       string
}
