package stock

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb redis.Cmdable,
	logger *zap.Logger,
) {
	s := r.Group("/stock")
	s.Use(middleware.AuthMiddleware())
	s.Use(middleware.ContextLogger(logger))
	{
		s.GET("/items",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "stock", "read"),
			handler.ListItems,
		)
		s.POST("/items",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "stock", "create"),
			handler.CreateItem,
		)

		s.GET("/movement-types",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "stock", "read"),
			handler.ListMovementTypes,
		)
		s.POST("/movement-types",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "stock", "create"),
			handler.CreateMovementType,
		)

		s.GET("/movements",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "stock", "read"),
			handler.ListMovements,
		)
		s.GET("/movements/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "stock", "read"),
			handler.GetMovement,
		)
		s.POST("/movements",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "stock", "create"),
			middleware.Idempotency(rdb),
			handler.RecordMovement,
		)
		s.PUT("/movements/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "stock", "update"),
			handler.UpdateMovement,
		)

		s.GET("/line-items",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "stock", "read"),
			handler.ListLineItems,
		)
		s.GET("/line-items/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "stock", "read"),
			handler.GetLineItem,
		)
		s.POST("/line-items/:id/reserve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "stock", "update"),
			middleware.Idempotency(rdb),
			handler.Reserve,
		)
		s.POST("/line-items/:id/release",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "stock", "update"),
			middleware.Idempotency(rdb),
			handler.Release,
		)
	}
}
