package evaluation

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
	evaluations := r.Group("/evaluations")
	evaluations.Use(middleware.AuthMiddleware())
	evaluations.Use(middleware.ContextLogger(logger))
	{
		evaluations.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "evaluation", "read"),
			handler.List,
		)
		evaluations.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "evaluation", "read"),
			handler.GetByID,
		)
		evaluations.GET("/:id/report",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "evaluation", "read"),
			handler.Report,
		)
		evaluations.POST("",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "evaluation", "create"),
			handler.Create,
		)
		evaluations.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "evaluation", "update"),
			handler.Update,
		)
		evaluations.POST("/:id/cancel",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "evaluation", "update"),
			handler.Cancel,
		)
		evaluations.POST("/:id/criteria",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "evaluation", "update"),
			handler.AddCriterion,
		)
		evaluations.PUT("/:id/criteria/:criterionId",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "evaluation", "update"),
			handler.ScoreCriterion,
		)
	}
}
