package employeesalary

import "github.com/shopspring/decimal"

type ChangeSalaryRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate string          `json:"effective_date" binding:"omitempty,datetime=2006-01-02"`
	Note          string          `json:"note" binding:"max=500"`
}

type SalaryRecordResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Amount     string  `json:"amount"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Active     bool    `json:"active"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type ConsistencyIssueResponse struct {
	EmployeeID    string `json:"employee_id"`
	FullName      string `json:"full_name"`
	CurrentSalary string `json:"current_salary"`
	ActiveRecords int    `json:"active_records"`
	ActiveAmount  string `json:"active_amount"`
}
