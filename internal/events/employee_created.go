package events

import "time"

const EmployeeLifecycleTopic = "erp.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	EmployeeID    string    `json:"employee_id"`
	CompanyID     string    `json:"company_id"`
	EmployeeCode  string    `json:"employee_code"`
	InitialSalary string    `json:"initial_salary"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type EmployeeUpdatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	CompanyID    string    `json:"company_id"`
	EmployeeCode string    `json:"employee_code"`
	Status       string    `json:"status"`
	Salary       string    `json:"salary"`
	OccurredAt   time.Time `json:"occurred_at"`
}
