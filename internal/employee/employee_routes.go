package employee

import (
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rbacResource = "employee"

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	guard := func(action string, rps rate.Limit, burst int) []gin.HandlerFunc {
		return []gin.HandlerFunc{
			middleware.RateLimitByUser(rps, burst),
			middleware.RBACAuthorize(rbacService, rbacResource, action),
		}
	}

	employees := r.Group("/employees", middleware.AuthMiddleware(), middleware.ContextLogger(logger))

	employees.GET("", append(guard("read", 3, 10), handler.GetAll)...)
	employees.GET("/options", append(guard("read", 5, 20), handler.GetOptions)...)
	employees.GET("/:id", append(guard("read", 3, 10), handler.GetById)...)
	employees.POST("", append(guard("create", 0.2, 2), handler.Create)...)
	employees.PUT("/:id", append(guard("update", 0.5, 2), handler.Update)...)
	employees.DELETE("/:id", append(guard("delete", 0.05, 1), handler.Delete)...)
}
