package contextutil_test

import (
	"context"
	"testing"

	"go-erp/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithIdentity(ctx, contextutil.Identity{UserID: "user-1", CompanyID: "company-1"})

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "user-1", md.UserID)
	assert.Equal(t, "company-1", md.CompanyID)
	assert.Equal(t, "user-1", contextutil.GetUserID(ctx))

	keys := make([]string, 0)
	for _, f := range md.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"request_id", "user_id", "company_id"}, keys)
}

func TestAnonymousContext(t *testing.T) {
	md := contextutil.ExtractMetadata(context.Background())

	assert.Equal(t, contextutil.Metadata{}, md)
	assert.Empty(t, md.Fields())
	assert.Equal(t, "", contextutil.GetRequestID(nil))
}

func TestGetLoggerFallbacks(t *testing.T) {
	fallback := zap.NewNop().Named("fallback")
	scoped := zap.NewNop().Named("scoped")

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
