// Package domain holds the authorization contract shared by the rbac
// service and the HTTP middleware, so neither has to import the other.
package domain

import "strings"

// PermissionKey is the "resource:action" form used in role payloads and
// forbidden responses.
func PermissionKey(resource, action string) string {
	return resource + ":" + action
}

// NormalizePermissionKey lowercases and trims a client supplied key.
func NormalizePermissionKey(raw string) string {
	resource, action, found := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), ":")
	if !found {
		return strings.TrimSpace(resource)
	}
	return PermissionKey(strings.TrimSpace(resource), strings.TrimSpace(action))
}

// EnforceRequest asks whether an employee may perform Action on Resource
// within CompanyID.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	CompanyID  string `json:"company_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=255"`
	Permissions []string `json:"permissions"`
}

type AssignRoleRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	RoleID     string `json:"role_id" binding:"required,uuid"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	Category string `json:"category"`
}
