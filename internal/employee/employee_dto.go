package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	FullName      string          `json:"full_name" binding:"required,max=200"`
	Email         string          `json:"email" binding:"required,email"`
	Code          string          `json:"code" binding:"omitempty,max=20"`
	Status        string          `json:"status" binding:"omitempty,oneof=active on_leave vacation inactive"`
	CurrentSalary decimal.Decimal `json:"current_salary"`
	HireDate      string          `json:"hire_date" binding:"required,datetime=2006-01-02"`
}

type UpdateEmployeeRequest struct {
	FullName      string          `json:"full_name" binding:"required,max=200"`
	Email         string          `json:"email" binding:"required,email"`
	Code          string          `json:"code" binding:"omitempty,max=20"`
	Status        string          `json:"status" binding:"required,oneof=active on_leave vacation inactive"`
	CurrentSalary decimal.Decimal `json:"current_salary"`
	HireDate      string          `json:"hire_date" binding:"required,datetime=2006-01-02"`
}

type EmployeeResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	Code          string `json:"code"`
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	Status        string `json:"status,omitempty"`
	CurrentSalary string `json:"current_salary,omitempty"`
	HireDate      string `json:"hire_date,omitempty"`
}
