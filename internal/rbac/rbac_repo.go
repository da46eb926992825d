package rbac

import (
	"context"

	"go-erp/internal/domain"
	"go-erp/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error)
	GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error)

	ListRoles(ctx context.Context, companyID string) ([]RoleRow, error)
	GetRole(ctx context.Context, companyID, id string) (*RoleRow, error)
	CreateRole(ctx context.Context, role *RoleRow, permissionIDs []string) error
	AssignRole(ctx context.Context, employeeID, roleID string) error

	ListPermissions(ctx context.Context) ([]PermissionRow, error)
	PermissionKeysByRole(ctx context.Context, roleIDs []string) (map[string][]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type RoleRow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string `gorm:"type:uuid"`
	Name        string
	Description string
}

func (RoleRow) TableName() string {
	return "roles"
}

type PermissionRow struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string
	Action   string
	Label    string
	Category string
}

func (PermissionRow) TableName() string {
	return "permissions"
}

// Key is the "resource:action" form used in role payloads.
func (p PermissionRow) Key() string {
	return domain.PermissionKey(p.Resource, p.Action)
}

type EmployeeRoleRow struct {
	EmployeeID string
	RoleID     string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error) {
	var result []EmployeeRoleRow

	err := r.db.WithContext(ctx).
		Table("employee_roles").
		Select("employee_roles.employee_id, employee_roles.role_id").
		Joins("JOIN roles ON roles.id = employee_roles.role_id").
		Scopes(tenant.ScopeTable("roles", companyID)).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Scopes(tenant.ScopeTable("roles", companyID)).
		Scan(&result).Error

	return result, err
}

func (r *repository) ListRoles(ctx context.Context, companyID string) ([]RoleRow, error) {
	var result []RoleRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&result).Error
	return result, err
}

func (r *repository) GetRole(ctx context.Context, companyID, id string) (*RoleRow, error) {
	var result RoleRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) CreateRole(ctx context.Context, role *RoleRow, permissionIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		for _, pID := range permissionIDs {
			if err := tx.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)", role.ID, pID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) AssignRole(ctx context.Context, employeeID, roleID string) error {
	return r.db.WithContext(ctx).
		Table("employee_roles").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"employee_id": employeeID, "role_id": roleID}).Error
}

func (r *repository) ListPermissions(ctx context.Context) ([]PermissionRow, error) {
	var result []PermissionRow
	err := r.db.WithContext(ctx).Order("category, label").Find(&result).Error
	return result, err
}

func (r *repository) PermissionKeysByRole(ctx context.Context, roleIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	var rows []RolePermissionRow
	err := r.db.WithContext(ctx).
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Order("permissions.resource, permissions.action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RoleID] = append(out[row.RoleID], domain.PermissionKey(row.Resource, row.Action))
	}
	return out, nil
}
