package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	ReplayedHeader      = "Idempotent-Replayed"
	idempotencyTTL      = 24 * time.Hour
	idempotencyLockTTL  = 30 * time.Second
	idempotencyMaxBytes = 64 << 10
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if w.body.Len() < idempotencyMaxBytes {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// IdempotencyKey returns the redis key a request is stored under.
func IdempotencyKey(route, userID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", route, userID, key)
}

// Idempotency replays the stored 2xx response of a POST carrying an
// Idempotency-Key, and rejects a concurrent duplicate with 409. Without the
// header, or when redis is unavailable, the request passes through.
func Idempotency(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L()).Named("middleware.idempotency")
		cacheKey := IdempotencyKey(c.FullPath(), c.GetString("user_id"), key)
		lockKey := cacheKey + ":lock"

		raw, err := rdb.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			var cached cachedResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				log.Debug("idempotent replay", zap.String("key", key))
				c.Header(ReplayedHeader, "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
			log.Warn("discarding unreadable idempotency entry", zap.String("key", key))
		case !errors.Is(err, redis.Nil):
			log.Warn("idempotency lookup failed, passing through", zap.Error(err))
			c.Next()
			return
		}

		locked, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, passing through", zap.Error(err))
			c.Next()
			return
		}
		if !locked {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		bg := context.WithoutCancel(ctx)
		status := rec.Status()
		if status >= 200 && status < 300 && rec.body.Len() < idempotencyMaxBytes {
			payload, err := json.Marshal(cachedResponse{Status: status, Body: rec.body.Bytes()})
			if err == nil {
				if err := rdb.Set(bg, cacheKey, payload, idempotencyTTL).Err(); err != nil {
					log.Warn("idempotency store failed", zap.Error(err))
				}
			}
		}
		if err := rdb.Del(bg, lockKey).Err(); err != nil {
			log.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}
