package fleet

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	checklists := r.Group("/fleet/checklists")
	checklists.Use(middleware.AuthMiddleware())
	checklists.Use(middleware.ContextLogger(logger))
	{
		checklists.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "fleet", "read"),
			handler.List,
		)
		checklists.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "fleet", "read"),
			handler.GetByID,
		)
		checklists.GET("/:id/report",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "fleet", "read"),
			handler.Report,
		)
		checklists.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "fleet", "create"),
			handler.Create,
		)
	}
}
