// Package contextutil carries request-scoped values from the HTTP layer to
// services that must not import gin.
package contextutil

import (
	"context"

	"go.uber.org/zap"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	identityKey
	loggerKey
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID     string
	CompanyID  string
	EmployeeID string
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	return value[string](ctx, requestIDKey)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity returns the zero Identity for anonymous contexts.
func GetIdentity(ctx context.Context) Identity {
	return value[Identity](ctx, identityKey)
}

func GetUserID(ctx context.Context) string {
	return GetIdentity(ctx).UserID
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request logger, then defaultLogger, then a no-op logger.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if l := value[*zap.Logger](ctx, loggerKey); l != nil {
		return l
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return zap.NewNop()
}

type Metadata struct {
	RequestID string
	Identity
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		Identity:  GetIdentity(ctx),
	}
}

// Fields renders m as log fields, skipping empty values.
func (m Metadata) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 4)
	for _, kv := range [...]struct{ key, val string }{
		{"request_id", m.RequestID},
		{"user_id", m.UserID},
		{"company_id", m.CompanyID},
		{"employee_id", m.EmployeeID},
	} {
		if kv.val != "" {
			fields = append(fields, zap.String(kv.key, kv.val))
		}
	}
	return fields
}

func value[T any](ctx context.Context, key contextKey) T {
	var zero T
	if ctx == nil {
		return zero
	}
	if v, ok := ctx.Value(key).(T); ok {
		return v
	}
	return zero
}
