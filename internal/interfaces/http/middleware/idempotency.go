package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"nft-launchpad.backend/pkg/logger"
	"nft-launchpad.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is how long a key stays claimed while the first request runs.
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a completed response is replayed.
	RetentionDuration = 24 * time.Hour

	idempotencyProcessing = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key on the same route. Only 2xx responses are kept, so a
// failed attempt can be retried with the same key.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		storageKey := fmt.Sprintf("idempotency:%s:%s:%s", c.Request.Method, c.FullPath(), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == idempotencyProcessing:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"code":    "IDEMPOTENCY_CONFLICT",
				"error":   "request already in progress",
			})
			return
		case err == nil:
			var stored storedResponse
			if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr != nil || stored.Status == 0 {
				logger.Warn(ctx, "discarding unreadable idempotency entry", zap.String("key", storageKey))
				_ = redisDel(ctx, storageKey)
				break
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			c.Abort()
			return
		case !errors.Is(err, goredis.Nil):
			// redis down: serve the request without idempotency
			logger.Warn(ctx, "idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		claimed, err := redisSetNX(ctx, storageKey, idempotencyProcessing, LockDuration)
		if err != nil || !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"code":    "IDEMPOTENCY_CONFLICT",
				"error":   "request already in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 && json.Valid(w.body.Bytes()) {
			payload, _ := json.Marshal(storedResponse{Status: status, Body: w.body.Bytes()})
			_ = redisSet(ctx, storageKey, string(payload), RetentionDuration)
			return
		}
		_ = redisDel(ctx, storageKey)
	}
}
