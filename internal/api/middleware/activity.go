package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const activeKeyPrefix = "taskapi:user:active:"

// ActivityMarker marks authenticated users as recently active.
func ActivityMarker(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Next()
			return
		}

		if ttl <= 0 {
			ttl = 10 * time.Minute
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		key := fmt.Sprintf("%s%d", activeKeyPrefix, user.ID)
		_ = rdb.Set(ctx, key, time.Now().Unix(), ttl).Err()

		c.Next()
	}
}
