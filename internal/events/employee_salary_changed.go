package events

import "time"

const EmployeeSalaryTopic = "erp.employee.salary.v1"

const (
	SalaryChangeApplied  = "applied"
	SalaryChangeReverted = "reverted"
)

type EmployeeSalaryChangedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	Change     string    `json:"change"`
	OldAmount  string    `json:"old_amount"`
	NewAmount  string    `json:"new_amount"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
