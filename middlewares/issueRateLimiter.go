package middlewares

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const issueLimitWindow = 24 * time.Hour

// IssueRateLimiter caps how many issues one user may report per 24 hours.
// The counter lives in Redis under "<prefix>:<user id>". Reports the
// handler rejects with a 4xx do not count. A nil client disables the limit.
func IssueRateLimiter(rdb *redis.Client, prefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		userIDVal, _ := c.Get("user_id")
		userID, ok := userIDVal.(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		ctx := c.Request.Context()
		userKey := prefix + ":" + userID

		count, err := rdb.Incr(ctx, userKey).Result()
		if err != nil {
			log.Println("Error incrementing issue count:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}

		// the window starts with the first report
		if count == 1 {
			if err := rdb.Expire(ctx, userKey, issueLimitWindow).Err(); err != nil {
				log.Println("Error setting issue count TTL:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := rdb.TTL(ctx, userKey).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()

		if status := c.Writer.Status(); status >= 400 && status < 500 {
			if err := rdb.Decr(context.WithoutCancel(ctx), userKey).Err(); err != nil {
				log.Println("Error releasing issue count:", err)
			}
		}
	}
}
