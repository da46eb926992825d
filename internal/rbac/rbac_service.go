package rbac

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go-erp/internal/domain"
	rbacerrors "go-erp/internal/rbac/errors"
	"go-erp/internal/shared/contextutil"

	"github.com/casbin/casbin/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(ctx context.Context, companyID string) error
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)

	ListRoles(ctx context.Context, companyID string) ([]domain.RoleResponse, error)
	CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error)
	AssignRole(ctx context.Context, companyID string, req domain.AssignRoleRequest) error
	ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error)
}

// service shares one enforcer across companies; the policy of the company
// being checked is reloaded under mu before every decision.
type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadCompanyPolicy(ctx context.Context, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(ctx, companyID)
}

func (s *service) loadCompanyPolicyUnlocked(ctx context.Context, companyID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(ctx, companyID)
	if err != nil {
		return err
	}
	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, companyID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(ctx, companyID)
	if err != nil {
		return err
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("rbac policy loaded",
		zap.String("company_id", companyID),
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rid := contextutil.GetRequestID(ctx)
	if err := s.loadCompanyPolicyUnlocked(ctx, req.CompanyID); err != nil {
		s.logger.Error("rbac policy load failed",
			zap.String("request_id", rid),
			zap.String("company_id", req.CompanyID),
			zap.Error(err),
		)
		return false, rbacerrors.ErrPolicyUnavailable
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("company_id", req.CompanyID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListRoles(ctx context.Context, companyID string) ([]domain.RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx, companyID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	perms, err := s.repo.PermissionKeysByRole(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RoleResponse, len(roles))
	for i, r := range roles {
		res[i] = mapRole(r, perms[r.ID])
	}
	return res, nil
}

func (s *service) CreateRole(ctx context.Context, companyID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
	all, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return domain.RoleResponse{}, err
	}
	byKey := make(map[string]string, len(all))
	for _, p := range all {
		byKey[p.Key()] = p.ID
	}

	keys := make([]string, 0, len(req.Permissions))
	ids := make([]string, 0, len(req.Permissions))
	seen := make(map[string]bool, len(req.Permissions))
	for _, raw := range req.Permissions {
		key := domain.NormalizePermissionKey(raw)
		id, ok := byKey[key]
		if !ok {
			return domain.RoleResponse{}, rbacerrors.ErrUnknownPermission
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
		ids = append(ids, id)
	}

	role := RoleRow{
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateRole(ctx, &role, ids); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.RoleResponse{}, rbacerrors.ErrRoleAlreadyExists
		}
		s.logger.Error("create role failed", zap.String("company_id", companyID), zap.Error(err))
		return domain.RoleResponse{}, err
	}

	s.logger.Info("role created",
		zap.String("company_id", companyID),
		zap.String("role_id", role.ID),
		zap.Strings("permissions", keys),
	)
	return mapRole(role, keys), nil
}

func (s *service) AssignRole(ctx context.Context, companyID string, req domain.AssignRoleRequest) error {
	if _, err := s.repo.GetRole(ctx, companyID, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rbacerrors.ErrRoleNotFound
		}
		return err
	}
	if err := s.repo.AssignRole(ctx, req.EmployeeID, req.RoleID); err != nil {
		return err
	}

	s.logger.Info("role assigned",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("role_id", req.RoleID),
	)
	return nil
}

func (s *service) ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.PermissionResponse, len(rows))
	for i, p := range rows {
		res[i] = domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return res, nil
}

func mapRole(r RoleRow, permissions []string) domain.RoleResponse {
	if permissions == nil {
		permissions = []string{}
	}
	return domain.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: permissions,
	}
}
