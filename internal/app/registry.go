package app

import (
	"database/sql"

	"go-erp/internal/employee"
	"go-erp/internal/employeesalary"
	"go-erp/internal/evaluation"
	"go-erp/internal/fleet"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/notification"
	"go-erp/internal/rbac"
	"go-erp/internal/rbac/infra"
	"go-erp/internal/rbac/rbac_http"
	"go-erp/internal/reaction"
	"go-erp/internal/shared/counter"
	"go-erp/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories groups the repositories shared by the reaction registry and
// the services.
type Repositories struct {
	Counter        counter.Repository
	Outbox         kafka.OutboxRepository
	Employee       employee.Repository
	EmployeeSalary employeesalary.Repository
	Evaluation     evaluation.Repository
	Stock          stock.Repository
	Fleet          fleet.Repository
	Notification   notification.Repository
	RBAC           rbac.Repository
}

func NewRepositories(db *sql.DB, gormDB *gorm.DB) Repositories {
	return Repositories{
		Counter:        counter.NewRepository(gormDB),
		Outbox:         kafka.NewOutboxRepository(db),
		Employee:       employee.NewRepository(gormDB),
		EmployeeSalary: employeesalary.NewRepository(gormDB),
		Evaluation:     evaluation.NewRepository(gormDB),
		Stock:          stock.NewRepository(gormDB),
		Fleet:          fleet.NewRepository(gormDB),
		Notification:   notification.NewRepository(gormDB),
		RBAC:           rbac.NewRepository(gormDB),
	}
}

// NewReactionRegistry registers every change reaction and seals the
// registry.
func NewReactionRegistry(repos Repositories, logger *zap.Logger) *reaction.Registry {
	registry := reaction.NewRegistry(logger)

	registry.Register(reaction.EntityEmployee, employeesalary.NewConsistencyReaction(repos.EmployeeSalary))

	status := evaluation.NewStatusReaction(repos.Evaluation, nil)
	registry.Register(reaction.EntityEvaluation, status)
	registry.Register(reaction.EntityEvaluationCriterion, status)

	registry.Register(reaction.EntityStockMovement, stock.NewAdjustReaction(repos.Stock, repos.Outbox, nil))

	registry.Seal()
	registry.LogEntities()
	return registry
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	rbacModelPath string,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	repos := NewRepositories(db, gormDB)
	registry := NewReactionRegistry(repos, logger)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbacModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(repos.RBAC, enforcer, logger)

	// --- Services ---
	salaryService := employeesalary.NewServiceWithOutbox(db, repos.EmployeeSalary, repos.Outbox, registry, logger)
	employeeService := employee.NewServiceWithOutbox(db, repos.Employee, repos.Counter, salaryService, repos.Outbox, registry, rdb, logger)
	evaluationService := evaluation.NewService(db, repos.Evaluation, registry, logger)
	stockService := stock.NewService(db, repos.Stock, repos.Counter, registry, logger)
	fleetService := fleet.NewService(db, repos.Fleet, repos.Counter, logger)
	notificationService := notification.NewService(repos.Notification, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	salaryHandler := employeesalary.NewHandler(salaryService, logger)
	evaluationHandler := evaluation.NewHandler(evaluationService, logger)
	stockHandler := stock.NewHandler(stockService, logger)
	fleetHandler := fleet.NewHandler(fleetService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		employeesalary.RegisterRoutes(api, salaryHandler, rbacService, logger)
		evaluation.RegisterRoutes(api, evaluationHandler, rbacService, logger)
		stock.RegisterRoutes(api, stockHandler, rbacService, rdb, logger)
		fleet.RegisterRoutes(api, fleetHandler, rbacService, logger)
		notification.RegisterRoutes(api, notificationHandler, rbacService, logger)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService, logger)
	}

	return nil
}
