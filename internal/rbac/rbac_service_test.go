package rbac_test

import (
	"context"
	"testing"

	"go-erp/internal/domain"
	"go-erp/internal/rbac"
	rbacerrors "go-erp/internal/rbac/errors"
	"go-erp/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryRepo struct {
	roles       []rbac.RoleRow
	assignments []rbac.EmployeeRoleRow
	rolePerms   map[string][]string
	permissions []rbac.PermissionRow
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		roles: []rbac.RoleRow{{ID: "role-owner", CompanyID: "company-1", Name: "owner"}},
		assignments: []rbac.EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-owner"},
		},
		rolePerms: map[string][]string{"role-owner": {"perm-stock-read"}},
		permissions: []rbac.PermissionRow{
			{ID: "perm-stock-read", Resource: "stock", Action: "read"},
			{ID: "perm-stock-create", Resource: "stock", Action: "create"},
			{ID: "perm-salary-read", Resource: "salary", Action: "read"},
		},
	}
}

func (m *memoryRepo) permission(id string) rbac.PermissionRow {
	for _, p := range m.permissions {
		if p.ID == id {
			return p
		}
	}
	return rbac.PermissionRow{}
}

func (m *memoryRepo) companyRoles(companyID string) map[string]bool {
	out := map[string]bool{}
	for _, r := range m.roles {
		if r.CompanyID == companyID {
			out[r.ID] = true
		}
	}
	return out
}

func (m *memoryRepo) GetEmployeeRoles(ctx context.Context, companyID string) ([]rbac.EmployeeRoleRow, error) {
	roles := m.companyRoles(companyID)
	var out []rbac.EmployeeRoleRow
	for _, a := range m.assignments {
		if roles[a.RoleID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetRolePermissions(ctx context.Context, companyID string) ([]rbac.RolePermissionRow, error) {
	var out []rbac.RolePermissionRow
	for roleID := range m.companyRoles(companyID) {
		for _, pID := range m.rolePerms[roleID] {
			p := m.permission(pID)
			out = append(out, rbac.RolePermissionRow{RoleID: roleID, Resource: p.Resource, Action: p.Action})
		}
	}
	return out, nil
}

func (m *memoryRepo) ListRoles(ctx context.Context, companyID string) ([]rbac.RoleRow, error) {
	var out []rbac.RoleRow
	for _, r := range m.roles {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetRole(ctx context.Context, companyID, id string) (*rbac.RoleRow, error) {
	for _, r := range m.roles {
		if r.ID == id && r.CompanyID == companyID {
			cp := r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRepo) CreateRole(ctx context.Context, role *rbac.RoleRow, permissionIDs []string) error {
	role.ID = "role-" + role.Name
	m.roles = append(m.roles, *role)
	m.rolePerms[role.ID] = permissionIDs
	return nil
}

func (m *memoryRepo) AssignRole(ctx context.Context, employeeID, roleID string) error {
	m.assignments = append(m.assignments, rbac.EmployeeRoleRow{EmployeeID: employeeID, RoleID: roleID})
	return nil
}

func (m *memoryRepo) ListPermissions(ctx context.Context) ([]rbac.PermissionRow, error) {
	return m.permissions, nil
}

func (m *memoryRepo) PermissionKeysByRole(ctx context.Context, roleIDs []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, id := range roleIDs {
		for _, pID := range m.rolePerms[id] {
			out[id] = append(out[id], m.permission(pID).Key())
		}
	}
	return out, nil
}

func newService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("")
	require.NoError(t, err)
	return rbac.NewService(repo, enforcer)
}

func enforce(emp, company, resource, action string) domain.EnforceRequest {
	return domain.EnforceRequest{EmployeeID: emp, CompanyID: company, Resource: resource, Action: action}
}

func TestRBACService_Enforce(t *testing.T) {
	ctx := context.Background()
	service := newService(t, newMemoryRepo())

	require.NoError(t, service.LoadCompanyPolicy(ctx, "company-1"))

	allowed, err := service.Enforce(ctx, enforce("emp-1", "company-1", "stock", "read"))
	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(ctx, enforce("emp-1", "company-1", "salary", "update"))
	assert.NoError(t, err)
	assert.False(t, denied)

	otherCompany, err := service.Enforce(ctx, enforce("emp-1", "company-2", "stock", "read"))
	assert.NoError(t, err)
	assert.False(t, otherCompany)
}

func TestRBACService_CreateAndAssignRole(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	service := newService(t, repo)

	role, err := service.CreateRole(ctx, "company-1", domain.CreateRoleRequest{
		Name:        "clerk",
		Permissions: []string{"Stock:Create", "stock:create", "salary:read"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stock:create", "salary:read"}, role.Permissions)

	require.NoError(t, service.AssignRole(ctx, "company-1", domain.AssignRoleRequest{EmployeeID: "emp-2", RoleID: role.ID}))

	allowed, err := service.Enforce(ctx, enforce("emp-2", "company-1", "stock", "create"))
	assert.NoError(t, err)
	assert.True(t, allowed)

	roles, err := service.ListRoles(ctx, "company-1")
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	_, err = service.CreateRole(ctx, "company-1", domain.CreateRoleRequest{Name: "bad", Permissions: []string{"stock:fly"}})
	assert.ErrorIs(t, err, rbacerrors.ErrUnknownPermission)

	err = service.AssignRole(ctx, "company-2", domain.AssignRoleRequest{EmployeeID: "emp-3", RoleID: role.ID})
	assert.ErrorIs(t, err, rbacerrors.ErrRoleNotFound)
}
