package middleware

import (
	"go-erp/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger puts the request id, the caller and a scoped logger on the
// request context, so services can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = c.GetHeader(RequestIDHeader)
		}
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header(RequestIDHeader, rid)

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		ctx = contextutil.WithIdentity(ctx, contextutil.Identity{
			UserID:     c.GetString("user_id"),
			CompanyID:  c.GetString("company_id"),
			EmployeeID: c.GetString("employee_id"),
		})
		ctx = contextutil.WithLogger(ctx, logger.With(contextutil.ExtractMetadata(ctx).Fields()...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
