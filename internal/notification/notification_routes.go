package notification

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	n := r.Group("/notifications")
	n.Use(middleware.AuthMiddleware())
	n.Use(middleware.ContextLogger(logger))
	{
		n.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.List,
		)
		n.PATCH("/:id/read",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.MarkRead,
		)
	}
}
