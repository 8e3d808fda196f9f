package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"timekeep/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency protects POST ingest routes against duplicate submissions.
// Offline kiosks replay their queue on reconnect and the same event can
// arrive more than once with the same Idempotency-Key.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		deviceID := c.GetHeader("X-Device-ID")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), deviceID, idempKey)
		lockKey := cacheKey + ":lock"

		// Replay: serve the cached response without touching the engine
		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached any
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.AbortWithStatusJSON(http.StatusOK, response.ApiEnvelope{Ok: true, Data: cached})
				return
			}
			// Unreadable cache entry: fall through and reprocess
		}

		// Atomic lock (SetNX) with a short expiry so a crashed request
		// cannot hold the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "This request is still being processed, please retry shortly.", nil)
			c.Abort()
			return
		}

		// Handlers cache their response under these keys after success
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
