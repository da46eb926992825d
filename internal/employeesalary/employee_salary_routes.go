package employeesalary

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	salaries := r.Group("/employees/:id/salaries")
	salaries.Use(middleware.AuthMiddleware())
	salaries.Use(middleware.ContextLogger(logger))
	{
		salaries.GET("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.List,
		)
		salaries.GET("/active",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.GetActive,
		)
		salaries.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "salary", "update"),
			handler.Change,
		)
		salaries.POST("/revert",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "salary", "update"),
			handler.Revert,
		)
	}

	consistency := r.Group("/salary-consistency")
	consistency.Use(middleware.AuthMiddleware())
	consistency.Use(middleware.ContextLogger(logger))
	consistency.GET("",
		middleware.RateLimitByUser(0.2, 1),
		middleware.RBACAuthorize(rbacService, "salary", "read"),
		handler.CheckConsistency,
	)
}
